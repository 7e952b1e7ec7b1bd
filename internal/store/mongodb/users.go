package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = bson.NewObjectID().Hex()
	}
	if user.CartData == nil {
		user.CartData = models.Cart{}
	}
	user.SetTimestamps()

	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicateEmail
		}
		return nil, wrapErr("insert user", err)
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, wrapErr("find user", err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, wrapErr("find user by email", err)
	}
	return &user, nil
}

func (s *Store) UpdateUserNames(ctx context.Context, id, firstName, lastName string) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"firstName": firstName,
		"lastName":  lastName,
		"updatedAt": time.Now(),
	}}
	return s.findOneUserAndUpdate(ctx, bson.M{"_id": id}, update)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr("delete user", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.users().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrapErr("list users", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, wrapErr("decode users", err)
	}
	return users, nil
}

func (s *Store) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CartData == nil {
		return models.Cart{}, nil
	}
	return user.CartData, nil
}

// IncrementCartItem issues a single $inc on the entry, so two concurrent
// adds both land instead of one overwriting the other.
func (s *Store) IncrementCartItem(ctx context.Context, userID, productID string, qty int) (models.Cart, error) {
	update := bson.M{
		"$inc": bson.M{cartField(productID): qty},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	user, err := s.findOneUserAndUpdate(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return nil, err
	}
	return nonNilCart(user.CartData), nil
}

func (s *Store) SetCartItem(ctx context.Context, userID, productID string, qty int) (models.Cart, error) {
	update := bson.M{"$set": bson.M{
		cartField(productID): qty,
		"updatedAt":          time.Now(),
	}}
	user, err := s.findOneUserAndUpdate(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return nil, err
	}
	return nonNilCart(user.CartData), nil
}

func (s *Store) RemoveCartItem(ctx context.Context, userID, productID string) (models.Cart, error) {
	// The filter requires the entry to exist so the $unset matches exactly
	// the documents it can change. A miss is then disambiguated below.
	filter := bson.M{
		"_id":                userID,
		cartField(productID): bson.M{"$exists": true},
	}
	update := bson.M{
		"$unset": bson.M{cartField(productID): ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}
	user, err := s.findOneUserAndUpdate(ctx, filter, update)
	if err == nil {
		return nonNilCart(user.CartData), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	// No match: either the user is gone or the entry was never there.
	if _, lookupErr := s.GetUserByID(ctx, userID); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, store.ErrItemNotInCart
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{
		"cartData":  models.Cart{},
		"updatedAt": time.Now(),
	}}
	res, err := s.users().UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return wrapErr("clear cart", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) findOneUserAndUpdate(ctx context.Context, filter, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.users().FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, wrapErr("update user", err)
	}
	return &user, nil
}

// cartField builds the update path for one cart entry. The service layer
// guarantees the id holds no "." or "$", so the id is always one literal
// path segment.
func cartField(productID string) string {
	return "cartData." + productID
}

func nonNilCart(c models.Cart) models.Cart {
	if c == nil {
		return models.Cart{}
	}
	return c
}

func wrapErr(op string, err error) error {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
