package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cincodev/cinco-billing/internal/models"
)

// ConnectMongo connects to MongoDB at the given URI and verifies the
// connection with a ping.
func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoSiteCollection implements SiteCollection for MongoDB.
type MongoSiteCollection struct {
	Collection *mongo.Collection
}

// All retrieves every site, ordered by name.
func (c *MongoSiteCollection) All(ctx context.Context) ([]models.Site, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	sites := []models.Site{}
	if err := cursor.All(ctx, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// ReplaceAll overwrites the site collection wholesale.
func (c *MongoSiteCollection) ReplaceAll(ctx context.Context, sites []models.Site) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if _, err := c.Collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(sites) == 0 {
		return nil
	}
	docs := make([]interface{}, len(sites))
	for i, s := range sites {
		docs[i] = s
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// MongoTenantCollection implements TenantCollection for MongoDB.
type MongoTenantCollection struct {
	Collection *mongo.Collection
}

// All retrieves every tenant, ordered by name.
func (c *MongoTenantCollection) All(ctx context.Context) ([]models.Tenant, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	tenants := []models.Tenant{}
	if err := cursor.All(ctx, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

// ReplaceAll overwrites the tenant collection wholesale.
func (c *MongoTenantCollection) ReplaceAll(ctx context.Context, tenants []models.Tenant) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if _, err := c.Collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(tenants) == 0 {
		return nil
	}
	docs := make([]interface{}, len(tenants))
	for i, t := range tenants {
		docs[i] = t
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// MongoBillingRecordCollection implements BillingRecordCollection for
// MongoDB.
type MongoBillingRecordCollection struct {
	Collection *mongo.Collection
}

// All retrieves every billing record, newest first.
func (c *MongoBillingRecordCollection) All(ctx context.Context) ([]models.BillingRecord, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"date": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	records := []models.BillingRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceAll overwrites the billing record collection wholesale.
func (c *MongoBillingRecordCollection) ReplaceAll(ctx context.Context, records []models.BillingRecord) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if _, err := c.Collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = r
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}
