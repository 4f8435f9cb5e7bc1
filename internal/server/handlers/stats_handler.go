package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventaire/internal/domain/models"
	"github.com/mamadbah2/inventaire/internal/server/middleware"
)

// StatsService is the aggregation surface consumed by the HTTP layer.
type StatsService interface {
	Summarize(ctx context.Context, ownerID string) (models.StatsSummary, error)
}

// StatsHandler exposes the per-owner summary endpoint.
type StatsHandler struct {
	svc    StatsService
	logger *zap.Logger
}

// NewStatsHandler constructs the stats handler adapter.
func NewStatsHandler(svc StatsService, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{svc: svc, logger: logger}
}

// Summary handles GET /api/stats/summary.
func (h *StatsHandler) Summary(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	summary, err := h.svc.Summarize(c.Request.Context(), owner)
	if err != nil {
		if errors.Is(err, models.ErrServiceUnavailable) {
			h.logger.Error("storage unavailable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable, retry later"})
			return
		}
		h.logger.Error("failed computing summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
