package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/inventaire/internal/domain/models"
)

const allocRetryDelay = 50 * time.Millisecond

// NextSequence atomically increments and returns the owner's counter in a
// single round trip. The upsert creates the counter on first use, so the first
// allocation for an owner returns 1.
//
// Two concurrent upserts for a missing counter can race on the _id index; the
// loser gets a duplicate-key error and the retry re-runs the increment against
// the now-existing document. On persistent failure the allocator fails closed
// with a retryable error; it never falls back to a clock-derived value, since
// that would reintroduce duplicate identifiers under concurrent creations.
func (r *MongoDBRepository) NextSequence(ctx context.Context, ownerID string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.SequenceCounter
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, fmt.Errorf("%w: %v", models.ErrServiceUnavailable, ctx.Err())
			case <-time.After(allocRetryDelay):
			}
		}

		opCtx, cancel := context.WithTimeout(ctx, opTimeout)
		err := r.counters().FindOneAndUpdate(opCtx,
			bson.M{"_id": ownerID},
			bson.M{"$inc": bson.M{"value": int64(1)}},
			opts,
		).Decode(&counter)
		cancel()

		if err == nil {
			return counter.Value, nil
		}
		lastErr = err
	}

	mapped := mapError(lastErr)
	if mapped == lastErr || mongo.IsDuplicateKeyError(lastErr) {
		mapped = fmt.Errorf("%w: %v", models.ErrServiceUnavailable, lastErr)
	}
	return 0, fmt.Errorf("allocate sequence for owner %s: %w", ownerID, mapped)
}
