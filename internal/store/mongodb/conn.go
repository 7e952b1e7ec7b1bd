// Package mongodb implements the store interfaces on top of MongoDB.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Store holds the shared client and database handle. One Store serves all
// three store interfaces.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	// useTransactions enables the transactional order-placement path. It
	// requires a replica set / mongos deployment.
	useTransactions bool
}

// Connect dials MongoDB, pings it and returns a ready Store.
func Connect(ctx context.Context, uri, dbName string, useTransactions bool) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{
		client:          client,
		db:              client.Database(dbName),
		useTransactions: useTransactions,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies the connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) users() *mongo.Collection    { return s.db.Collection("users") }
func (s *Store) products() *mongo.Collection { return s.db.Collection("products") }
func (s *Store) orders() *mongo.Collection   { return s.db.Collection("orders") }
