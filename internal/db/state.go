package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cincodev/cinco-billing/internal/models"
)

const syncStateID = "state"
const draftID = "draft"

type syncStateDoc struct {
	ID             string                 `bson:"_id"`
	CachedSnapshot *models.SharedSnapshot `bson:"cached_snapshot,omitempty"`
	LastSyncTime   time.Time              `bson:"last_sync_time"`
}

// MongoSyncStateCollection implements SyncStateCollection on a
// single-document collection.
type MongoSyncStateCollection struct {
	Collection *mongo.Collection
}

func (c *MongoSyncStateCollection) load(ctx context.Context) (*syncStateDoc, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var doc syncStateDoc
	err := c.Collection.FindOne(ctx, bson.M{"_id": syncStateID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &syncStateDoc{ID: syncStateID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CachedSnapshot returns the cached shared snapshot, or nil if none has
// been recorded yet.
func (c *MongoSyncStateCollection) CachedSnapshot(ctx context.Context) (*models.SharedSnapshot, error) {
	doc, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.CachedSnapshot, nil
}

// SaveCachedSnapshot upserts the cached shared snapshot.
func (c *MongoSyncStateCollection) SaveCachedSnapshot(ctx context.Context, snapshot models.SharedSnapshot) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": syncStateID},
		bson.M{"$set": bson.M{"cached_snapshot": snapshot}},
		options.Update().SetUpsert(true),
	)
	return err
}

// LastSyncTime returns the last recorded sync time, zero if none.
func (c *MongoSyncStateCollection) LastSyncTime(ctx context.Context) (time.Time, error) {
	doc, err := c.load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return doc.LastSyncTime, nil
}

// SetLastSyncTime upserts the last recorded sync time.
func (c *MongoSyncStateCollection) SetLastSyncTime(ctx context.Context, at time.Time) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": syncStateID},
		bson.M{"$set": bson.M{"last_sync_time": at}},
		options.Update().SetUpsert(true),
	)
	return err
}

type draftDoc struct {
	ID    string             `bson:"_id"`
	Draft models.BillingData `bson:"draft"`
}

// MongoDraftCollection implements DraftCollection on a single-document
// collection.
type MongoDraftCollection struct {
	Collection *mongo.Collection
}

// Draft returns the persisted working draft, or nil if none exists.
func (c *MongoDraftCollection) Draft(ctx context.Context) (*models.BillingData, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var doc draftDoc
	err := c.Collection.FindOne(ctx, bson.M{"_id": draftID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Draft, nil
}

// SaveDraft upserts the working draft.
func (c *MongoDraftCollection) SaveDraft(ctx context.Context, draft models.BillingData) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": draftID},
		bson.M{"$set": bson.M{"draft": draft}},
		options.Update().SetUpsert(true),
	)
	return err
}
