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

// ItemService is the inventory surface consumed by the HTTP layer.
type ItemService interface {
	Create(ctx context.Context, ownerID string, in models.CreateItemInput) (models.InventoryItem, error)
	List(ctx context.Context, ownerID string) ([]models.InventoryItem, error)
	Get(ctx context.Context, ownerID, id string) (models.InventoryItem, error)
	Search(ctx context.Context, ownerID, query string) ([]models.InventoryItem, error)
	Update(ctx context.Context, ownerID, id string, patch models.UpdateItemInput) (models.InventoryItem, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// ItemHandler adapts the inventory service to HTTP.
type ItemHandler struct {
	svc    ItemService
	logger *zap.Logger
}

// NewItemHandler constructs the HTTP handler adapter.
func NewItemHandler(svc ItemService, logger *zap.Logger) *ItemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemHandler{svc: svc, logger: logger}
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var in models.CreateItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid create payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Create(c.Request.Context(), owner, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// List handles GET /api/items.
func (h *ItemHandler) List(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	items, err := h.svc.List(c.Request.Context(), owner)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Get handles GET /api/items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	item, err := h.svc.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Search handles GET /api/items/search?q=.
func (h *ItemHandler) Search(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	items, err := h.svc.Search(c.Request.Context(), owner, c.Query("q"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Update handles PUT /api/items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var patch models.UpdateItemInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("invalid update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Update(c.Request.Context(), owner, c.Param("id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/items/:id. Returns an acknowledgment only,
// never the deleted body.
func (h *ItemHandler) Delete(c *gin.Context) {
	owner, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), owner, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// writeError maps domain errors onto HTTP responses. ErrForbidden renders as
// 404 so callers cannot distinguish foreign items from missing ones.
func (h *ItemHandler) writeError(c *gin.Context, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": ve.Fields})
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	case errors.Is(err, models.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		h.logger.Error("display identifier conflict", zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": "identifier conflict"})
	case errors.Is(err, models.ErrServiceUnavailable):
		h.logger.Error("storage unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable, retry later"})
	default:
		h.logger.Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
