package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/shopora/backend/internal/auth"
	"github.com/shopora/backend/internal/router"
	"github.com/shopora/backend/internal/service"
	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/internal/store/failover"
	"github.com/shopora/backend/internal/store/memory"
	"github.com/shopora/backend/internal/store/mongodb"
	"github.com/shopora/backend/pkg/ai"
	"github.com/shopora/backend/pkg/cache"
	"github.com/shopora/backend/pkg/global"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	ai.Init()

	stores, mongoStore, mode := buildStores()
	if mongoStore != nil {
		defer func() {
			ctx, cancel := global.GetDefaultTimer()
			defer cancel()
			if err := mongoStore.Close(ctx); err != nil {
				log.Printf("mongodb disconnect failed: %v", err)
			}
		}()
	}

	cacheCtx, cacheCancel := global.GetDefaultTimer()
	cache.Init(cacheCtx)
	cacheCancel()

	tokens := auth.NewManager(global.GetJWTSecret())

	handlers := &router.Handlers{
		Users:       service.NewUserService(stores.Users, tokens),
		Carts:       service.NewCartService(stores.Users),
		Orders:      service.NewOrderService(stores.Users, stores.Orders, stores.Products, global.GetEnvFloat("TOTAL_TOLERANCE", 0.01)),
		Products:    stores.Products,
		StorageMode: mode,
	}

	engine := router.New(handlers, tokens)

	port := global.GetEnvOrDefault("PORT", "8000")
	log.Printf("server listening on port %s (storage: %s)", port, mode)
	if err := engine.Run(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// buildStores connects to MongoDB and wraps it with an in-memory fallback
// behind a circuit breaker. When MongoDB is unreachable at boot the server
// still comes up on the in-memory store alone.
func buildStores() (store.Stores, *mongodb.Store, string) {
	fallback := memory.New()
	fallbackStores := store.Stores{Users: fallback, Products: fallback, Orders: fallback}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	ms, err := mongodb.Connect(ctx, global.GetMongoURI(), global.GetDatabaseName(),
		global.GetEnvBool("MONGODB_TRANSACTIONS", false))
	if err != nil {
		log.Printf("mongodb unavailable, falling back to in-memory storage: %v", err)
		return fallbackStores, nil, "memory"
	}

	if err := ms.EnsureIndexes(ctx); err != nil {
		log.Printf("index creation failed: %v", err)
	}

	primary := store.Stores{Users: ms, Products: ms, Orders: ms}
	return failover.Stores(primary, fallbackStores, failover.NewBreaker()), ms, "mongodb"
}
