package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventaire/internal/domain/models"
	"github.com/mamadbah2/inventaire/internal/repository/mongodb"
	"github.com/mamadbah2/inventaire/pkg/validation"
)

// Service orchestrates item operations: validation, sequence allocation,
// identifier formatting and persistence. Every operation is scoped to the
// caller's owner identity.
type Service struct {
	repo   mongodb.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new inventory service instance.
func NewService(repository mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repository,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the candidate, allocates the owner's next sequence number,
// formats the display identifier and persists the item. The allocator runs
// only after validation passes, so a rejected submission never consumes a
// sequence number.
func (s *Service) Create(ctx context.Context, ownerID string, in models.CreateItemInput) (models.InventoryItem, error) {
	in.Normalize()
	if fields := validation.ValidateCreate(&in); len(fields) > 0 {
		return models.InventoryItem{}, &models.ValidationError{Fields: fields}
	}

	seq, err := s.repo.NextSequence(ctx, ownerID)
	if err != nil {
		return models.InventoryItem{}, err
	}

	stockStatus := models.StockStatus(in.StockStatus)
	if stockStatus == "" {
		stockStatus = models.StockStatusInStock
	}

	item := models.InventoryItem{
		DisplayID:     models.FormatDisplayID(seq),
		ProductName:   in.ProductName,
		Category:      models.Category(in.Category),
		Supplier:      in.Supplier,
		StockStatus:   stockStatus,
		CostPerUnit:   in.CostPerUnit,
		WarehouseCode: in.WarehouseCode,
		LastUpdated:   s.now(),
		OwnerID:       ownerID,
	}

	stored, err := s.repo.InsertItem(ctx, item)
	if err != nil {
		return models.InventoryItem{}, err
	}

	s.logger.Info("item created",
		zap.String("owner_id", ownerID),
		zap.String("display_id", stored.DisplayID))
	return stored, nil
}

// List returns the owner's items, most recently updated first.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.InventoryItem, error) {
	return s.repo.ItemsByOwner(ctx, ownerID)
}

// Get returns a single owned item or ErrNotFound.
func (s *Service) Get(ctx context.Context, ownerID, id string) (models.InventoryItem, error) {
	return s.repo.ItemByID(ctx, ownerID, id)
}

// Search matches the query as a case-insensitive substring against product
// name, category, supplier and display identifier. An empty query is rejected.
func (s *Service) Search(ctx context.Context, ownerID, query string) ([]models.InventoryItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", models.ErrInvalidArgument)
	}
	return s.repo.SearchItems(ctx, ownerID, query)
}

// Update validates and applies a partial patch. The display identifier is not
// a patch field and survives every update untouched.
func (s *Service) Update(ctx context.Context, ownerID, id string, patch models.UpdateItemInput) (models.InventoryItem, error) {
	patch.Normalize()
	if patch.Empty() {
		return models.InventoryItem{}, fmt.Errorf("%w: no fields to update", models.ErrInvalidArgument)
	}
	if fields := validation.ValidateUpdate(&patch); len(fields) > 0 {
		return models.InventoryItem{}, &models.ValidationError{Fields: fields}
	}

	updated, err := s.repo.UpdateItem(ctx, ownerID, id, patch, s.now())
	if err != nil {
		return models.InventoryItem{}, err
	}

	s.logger.Info("item updated",
		zap.String("owner_id", ownerID),
		zap.String("display_id", updated.DisplayID))
	return updated, nil
}

// Delete permanently removes an owned item.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteItem(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("item deleted",
		zap.String("owner_id", ownerID),
		zap.String("item_id", id))
	return nil
}
