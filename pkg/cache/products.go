// Package cache is a read-through Redis cache for single-product lookups.
// It is best effort: when Redis is absent or down the catalog still works,
// every read just goes to the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopora/backend/pkg/global"
	"github.com/shopora/backend/pkg/models"
)

var ErrCacheMiss = errors.New("cache miss")

const productTTL = 24 * time.Hour

var client *redis.Client

// Init dials Redis from the environment. On ping failure the cache stays
// disabled and the server runs without it.
func Init(ctx context.Context) {
	c := redis.NewClient(&redis.Options{
		Addr:     global.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		Password: global.GetEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       0,
		Protocol: 2,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		log.Printf("product cache disabled, Redis unreachable: %v", err)
		return
	}
	client = c
	log.Println("product cache connected to Redis")
}

func Enabled() bool {
	return client != nil
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// GetProduct returns the cached product or ErrCacheMiss.
func GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if client == nil {
		return nil, ErrCacheMiss
	}

	data, err := client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

// SetProduct caches a product for a day.
func SetProduct(ctx context.Context, product *models.Product) error {
	if client == nil {
		return nil
	}

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ID, err)
	}
	if err := client.Set(ctx, productKey(product.ID), data, productTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateProduct drops the cached entry after an update or delete.
func InvalidateProduct(ctx context.Context, id string) error {
	if client == nil {
		return nil
	}
	if err := client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
