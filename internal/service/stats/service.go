package stats

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventaire/internal/domain/models"
	"github.com/mamadbah2/inventaire/internal/repository/mongodb"
)

// Service computes per-owner summary figures over inventory items.
type Service struct {
	repo   mongodb.Repository
	logger *zap.Logger
}

// NewService wires a new stats service instance.
func NewService(repository mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, logger: logger}
}

// Summarize aggregates the owner's items: totals, stock split, value of
// in-stock items, and per-category count and value over all stock states.
// Categories are ordered by count descending with a name tiebreak so the
// output stays reproducible.
func (s *Service) Summarize(ctx context.Context, ownerID string) (models.StatsSummary, error) {
	items, err := s.repo.ItemsByOwner(ctx, ownerID)
	if err != nil {
		return models.StatsSummary{}, err
	}

	summary := models.StatsSummary{
		ByCategory: make([]models.CategoryStats, 0),
	}
	byCategory := make(map[models.Category]*models.CategoryStats)

	for _, item := range items {
		summary.TotalItems++
		if item.StockStatus == models.StockStatusInStock {
			summary.InStockCount++
			summary.TotalValueInStock += item.CostPerUnit
		} else {
			summary.OutOfStockCount++
		}

		cs, ok := byCategory[item.Category]
		if !ok {
			cs = &models.CategoryStats{Category: item.Category}
			byCategory[item.Category] = cs
		}
		cs.Count++
		cs.TotalValue += item.CostPerUnit
	}

	for _, cs := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *cs)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	return summary, nil
}

// SnapshotRow renders a summary as a spreadsheet row for the export job.
func SnapshotRow(ownerID string, summary models.StatsSummary, date string) []interface{} {
	return []interface{}{
		date,
		ownerID,
		summary.TotalItems,
		summary.InStockCount,
		summary.OutOfStockCount,
		summary.TotalValueInStock,
	}
}
