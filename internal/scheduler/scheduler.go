package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventaire/internal/config"
	"github.com/mamadbah2/inventaire/internal/repository/mongodb"
	"github.com/mamadbah2/inventaire/internal/repository/sheets"
	"github.com/mamadbah2/inventaire/internal/service/stats"
)

const snapshotRange = "Snapshots!A:F"

// Scheduler manages the periodic snapshot export: one summary row per owner
// appended to the configured spreadsheet.
type Scheduler struct {
	cron     *cron.Cron
	repo     mongodb.Repository
	statsSvc *stats.Service
	exporter sheets.Exporter
	cfg      config.Config
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, repo mongodb.Repository, statsSvc *stats.Service, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		repo:     repo,
		statsSvc: statsSvc,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the export job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Snapshot.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.Snapshot.CronSchedule, s.exportSnapshots)
	if err != nil {
		s.logger.Error("failed to schedule snapshot export", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) exportSnapshots() {
	s.logger.Info("exporting inventory snapshots")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	owners, err := s.repo.DistinctOwners(ctx)
	if err != nil {
		s.logger.Error("failed listing owners for snapshot", zap.Error(err))
		return
	}

	date := time.Now().UTC().Format("2006-01-02")
	var exported int
	for _, owner := range owners {
		summary, err := s.statsSvc.Summarize(ctx, owner)
		if err != nil {
			s.logger.Error("failed summarizing owner", zap.String("owner_id", owner), zap.Error(err))
			continue
		}

		row := stats.SnapshotRow(owner, summary, date)
		if err := s.exporter.AppendRow(ctx, snapshotRange, row); err != nil {
			s.logger.Error("failed appending snapshot row", zap.String("owner_id", owner), zap.Error(err))
			continue
		}
		exported++
	}

	s.logger.Info("snapshot export finished",
		zap.Int("owners", len(owners)),
		zap.Int("exported", exported))
}
