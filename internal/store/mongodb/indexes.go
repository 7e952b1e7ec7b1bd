package mongodb

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type indexConfig struct {
	collection string
	model      mongo.IndexModel
}

var requiredIndexes = []indexConfig{
	{
		collection: "users",
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email_unique"),
		},
	},
	{
		collection: "products",
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
	},
	{
		collection: "products",
		model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "featured", Value: 1},
				{Key: "price", Value: -1},
			},
			Options: options.Index().SetName("idx_featured_price"),
		},
	},
	// Covers the newest-first order history per user.
	{
		collection: "orders",
		model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_user_orders"),
		},
	},
	// Covers the daily sales aggregation.
	{
		collection: "orders",
		model: mongo.IndexModel{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_status_created"),
		},
	},
}

// EnsureIndexes creates every required index, failing on the first error.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for _, idx := range requiredIndexes {
		name, err := s.db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model)
		if err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.collection, err)
		}
		log.Printf("ensured index %q on collection %q", name, idx.collection)
	}
	return nil
}
