package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/inventaire/internal/domain/models"
)

// InsertItem persists a new item and returns it with the store-assigned id.
func (r *MongoDBRepository) InsertItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.items().InsertOne(opCtx, item)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("insert item: %w", mapError(err))
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid.Hex()
	}
	return item, nil
}

// ItemsByOwner returns every item for the owner, most recently updated first.
func (r *MongoDBRepository) ItemsByOwner(ctx context.Context, ownerID string) ([]models.InventoryItem, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}})
	cursor, err := r.items().Find(opCtx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", mapError(err))
	}
	defer cursor.Close(opCtx)

	items := make([]models.InventoryItem, 0)
	if err := cursor.All(opCtx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", mapError(err))
	}
	return items, nil
}

// ItemByID returns the item only when it exists AND belongs to the owner.
// A foreign owner's item surfaces as ErrNotFound, never as ErrForbidden, so
// callers cannot probe for other users' records.
func (r *MongoDBRepository) ItemByID(ctx context.Context, ownerID, id string) (models.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.InventoryItem{}, models.ErrNotFound
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var item models.InventoryItem
	err = r.items().FindOne(opCtx, bson.M{"_id": oid, "owner_id": ownerID}).Decode(&item)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("find item %s: %w", id, mapError(err))
	}
	return item, nil
}

// SearchItems performs a case-insensitive substring match over product name,
// category, supplier and display identifier, scoped to the owner.
func (r *MongoDBRepository) SearchItems(ctx context.Context, ownerID, query string) ([]models.InventoryItem, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"owner_id": ownerID,
		"$or": []bson.M{
			{"product_name": pattern},
			{"category": pattern},
			{"supplier": pattern},
			{"display_id": pattern},
		},
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}})
	cursor, err := r.items().Find(opCtx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", mapError(err))
	}
	defer cursor.Close(opCtx)

	items := make([]models.InventoryItem, 0)
	if err := cursor.All(opCtx, &items); err != nil {
		return nil, fmt.Errorf("decode search results: %w", mapError(err))
	}
	return items, nil
}

// UpdateItem applies the fields present in the patch and bumps last_updated.
// Missing item → ErrNotFound; foreign owner → ErrForbidden. The display
// identifier is never part of the update document.
func (r *MongoDBRepository) UpdateItem(ctx context.Context, ownerID, id string, patch models.UpdateItemInput, now time.Time) (models.InventoryItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.InventoryItem{}, models.ErrNotFound
	}

	if err := r.checkOwnership(ctx, oid, ownerID); err != nil {
		return models.InventoryItem{}, err
	}

	set := bson.M{"last_updated": now}
	if patch.ProductName != nil {
		set["product_name"] = *patch.ProductName
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Supplier != nil {
		set["supplier"] = *patch.Supplier
	}
	if patch.StockStatus != nil {
		set["stock_status"] = *patch.StockStatus
	}
	if patch.CostPerUnit != nil {
		set["cost_per_unit"] = *patch.CostPerUnit
	}
	if patch.WarehouseCode != nil {
		set["warehouse_code"] = *patch.WarehouseCode
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.InventoryItem
	err = r.items().FindOneAndUpdate(opCtx,
		bson.M{"_id": oid, "owner_id": ownerID},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("update item %s: %w", id, mapError(err))
	}
	return updated, nil
}

// DeleteItem permanently removes the item after the ownership gate. There is
// no soft delete; the item's sequence number is never reused.
func (r *MongoDBRepository) DeleteItem(ctx context.Context, ownerID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}

	if err := r.checkOwnership(ctx, oid, ownerID); err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.items().DeleteOne(opCtx, bson.M{"_id": oid, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, mapError(err))
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DistinctOwners lists every owner that currently has at least one item.
// Used by the snapshot export job.
func (r *MongoDBRepository) DistinctOwners(ctx context.Context) ([]string, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	values, err := r.items().Distinct(opCtx, "owner_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct owners: %w", mapError(err))
	}

	owners := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			owners = append(owners, s)
		}
	}
	return owners, nil
}

// checkOwnership loads the raw document to tell missing apart from foreign.
func (r *MongoDBRepository) checkOwnership(ctx context.Context, oid primitive.ObjectID, ownerID string) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc struct {
		OwnerID string `bson:"owner_id"`
	}
	err := r.items().FindOne(opCtx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return fmt.Errorf("load item: %w", mapError(err))
	}
	if doc.OwnerID != ownerID {
		return models.ErrForbidden
	}
	return nil
}
