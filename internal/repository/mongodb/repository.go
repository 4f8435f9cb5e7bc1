package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/inventaire/internal/domain/models"
)

// opTimeout bounds every store round trip so a request fails with a retryable
// error instead of hanging on an unreachable store.
const opTimeout = 5 * time.Second

// Repository defines the persistence operations for inventory items and their
// per-owner sequence counters. It is the only component with store access.
type Repository interface {
	NextSequence(ctx context.Context, ownerID string) (int64, error)
	InsertItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error)
	ItemsByOwner(ctx context.Context, ownerID string) ([]models.InventoryItem, error)
	ItemByID(ctx context.Context, ownerID, id string) (models.InventoryItem, error)
	SearchItems(ctx context.Context, ownerID, query string) ([]models.InventoryItem, error)
	UpdateItem(ctx context.Context, ownerID, id string, patch models.UpdateItemInput, now time.Time) (models.InventoryItem, error)
	DeleteItem(ctx context.Context, ownerID, id string) error
	DistinctOwners(ctx context.Context) ([]string, error)
}

// MongoDBRepository implements Repository against MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

const (
	itemsCollection    = "items"
	countersCollection = "counters"
)

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

// EnsureIndexes creates the indexes the repository relies on: the unique
// (owner_id, display_id) constraint and the listing sort order.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.items().Indexes().CreateMany(opCtx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "display_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "last_updated", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create item indexes: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) items() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(itemsCollection)
}

func (r *MongoDBRepository) counters() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(countersCollection)
}

// mapError translates driver errors into domain sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %v", models.ErrServiceUnavailable, err)
	default:
		return err
	}
}
