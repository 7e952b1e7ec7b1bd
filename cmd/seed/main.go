// Command seed loads a starter admin account and sample catalog into MongoDB.
// It is idempotent: existing data is left alone.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/internal/store/mongodb"
	"github.com/shopora/backend/pkg/global"
	"github.com/shopora/backend/pkg/models"
)

const (
	adminEmail    = "admin@modernstore.com"
	adminPassword = "admin123456"
)

var sampleProducts = []models.Product{
	{
		Name:        "Premium Fashion Jacket",
		Category:    "Fashion",
		Price:       299,
		Still:       15,
		Rating:      4.8,
		Discount:    10,
		Featured:    true,
		Description: "High-quality fashion jacket for modern style",
	},
	{
		Name:        "Electronic Device",
		Category:    "Electronics",
		Price:       599,
		Still:       8,
		Rating:      4.9,
		Discount:    15,
		Featured:    true,
		Description: "Latest electronic device with advanced features",
	},
	{
		Name:        "Home Decor Item",
		Category:    "Home & Garden",
		Price:       149,
		Still:       25,
		Rating:      4.5,
		Discount:    5,
		Description: "Beautiful home decoration piece",
	},
	{
		Name:        "Kitchen Essential",
		Category:    "Home & Garden",
		Price:       89,
		Still:       30,
		Rating:      4.3,
		Description: "Essential kitchen tool for daily use",
	},
	{
		Name:        "Lifestyle Product",
		Category:    "Lifestyle",
		Price:       199,
		Still:       12,
		Rating:      4.6,
		Discount:    20,
		Featured:    true,
		Description: "Premium lifestyle product for better living",
	},
	{
		Name:        "Premium Quality Item",
		Category:    "Fashion",
		Price:       399,
		Still:       6,
		Rating:      5.0,
		Discount:    25,
		Featured:    true,
		Description: "Top-tier premium quality product",
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	ms, err := mongodb.Connect(ctx, global.GetMongoURI(), global.GetDatabaseName(), false)
	if err != nil {
		log.Fatalf("mongodb connection failed: %v", err)
	}
	defer func() {
		closeCtx, closeCancel := global.GetDefaultTimer()
		defer closeCancel()
		if err := ms.Close(closeCtx); err != nil {
			log.Printf("mongodb disconnect failed: %v", err)
		}
	}()

	if err := ms.EnsureIndexes(ctx); err != nil {
		log.Fatalf("index creation failed: %v", err)
	}

	if err := seedAdmin(ctx, ms); err != nil {
		log.Fatalf("seeding admin user failed: %v", err)
	}
	if err := seedProducts(ctx, ms); err != nil {
		log.Fatalf("seeding products failed: %v", err)
	}

	log.Println("database seeding completed")
}

func seedAdmin(ctx context.Context, users store.UserStore) error {
	if _, err := users.GetUserByEmail(ctx, adminEmail); err == nil {
		log.Println("admin user already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		FirstName: "Admin",
		LastName:  "User",
		Email:     adminEmail,
		Password:  string(hash),
		CartData:  models.Cart{},
	}
	admin.SetTimestamps()

	if _, err := users.CreateUser(ctx, admin); err != nil {
		return err
	}
	log.Printf("admin user created: %s", adminEmail)
	return nil
}

func seedProducts(ctx context.Context, products store.ProductStore) error {
	existing, err := products.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Println("products already exist, skipping")
		return nil
	}

	for i := range sampleProducts {
		p := sampleProducts[i]
		p.SetTimestamps()
		if _, err := products.CreateProduct(ctx, &p); err != nil {
			return err
		}
		log.Printf("product added: %s", p.Name)
	}
	return nil
}
