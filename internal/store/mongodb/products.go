package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/models"
)

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = bson.NewObjectID().Hex()
	}
	p.SetTimestamps()

	if _, err := s.products().InsertOne(ctx, p); err != nil {
		return nil, wrapErr("insert product", err)
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	fields := bson.M{
		"name":        upd.Name,
		"price":       upd.Price,
		"category":    upd.Category,
		"rating":      upd.Rating,
		"still":       upd.Still,
		"discount":    upd.Discount,
		"featured":    upd.Featured,
		"description": upd.Description,
		"updatedAt":   time.Now(),
	}
	// Only replace the stored image when a new upload arrived.
	if upd.Image != nil {
		fields["image"] = *upd.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := s.products().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, wrapErr("update product", err)
	}
	return &product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.products().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr("delete product", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.products().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, wrapErr("find product", err)
	}
	return &product, nil
}

func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	cursor, err := s.products().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, wrapErr("find products by ids", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, wrapErr("decode products", err)
	}
	return products, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.products().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, wrapErr("decode products", err)
	}
	return products, nil
}
