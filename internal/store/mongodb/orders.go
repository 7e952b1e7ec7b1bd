package mongodb

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/models"
)

// PlaceOrder inserts the order and empties the owning user's cart. With
// transactions enabled both writes commit or neither does; otherwise the
// insert happens first and a failed cart clear is logged, leaving the order
// in place (the degraded two-step path).
func (s *Store) PlaceOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == "" {
		order.ID = bson.NewObjectID().Hex()
	}

	if s.useTransactions {
		return s.placeOrderTx(ctx, order)
	}

	if _, err := s.orders().InsertOne(ctx, order); err != nil {
		return nil, wrapErr("insert order", err)
	}
	if err := s.ClearCart(ctx, order.UserID); err != nil {
		log.Printf("order %s persisted but cart clear failed for user %s: %v", order.ID, order.UserID, err)
	}
	return order, nil
}

func (s *Store) placeOrderTx(ctx context.Context, order *models.Order) (*models.Order, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, wrapErr("start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(txCtx context.Context) (interface{}, error) {
		if _, err := s.orders().InsertOne(txCtx, order); err != nil {
			return nil, err
		}
		return nil, s.ClearCart(txCtx, order.UserID)
	})
	if err != nil {
		return nil, wrapErr("place order", err)
	}
	return order, nil
}

func (s *Store) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.orders().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, wrapErr("find user orders", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, wrapErr("decode orders", err)
	}
	return orders, nil
}

// GetOrderByID filters on both id and owner, so another user's order is
// indistinguishable from a missing one.
func (s *Store) GetOrderByID(ctx context.Context, orderID, userID string) (*models.Order, error) {
	var order models.Order
	err := s.orders().FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, wrapErr("find order", err)
	}
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.orders().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrapErr("list orders", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, wrapErr("decode orders", err)
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := s.orders().FindOneAndUpdate(ctx, bson.M{"_id": orderID}, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, wrapErr("update order status", err)
	}
	return &order, nil
}

// SalesByDay aggregates non-cancelled orders into daily revenue buckets.
func (s *Store) SalesByDay(ctx context.Context, from, to time.Time) ([]store.SalesBucket, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "status", Value: bson.D{{Key: "$ne", Value: models.OrderStatusCancelled}}},
			{Key: "createdAt", Value: bson.D{
				{Key: "$gte", Value: from},
				{Key: "$lt", Value: to},
			}},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "items_sold", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$createdAt"},
			}}}},
			{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
			{Key: "avg_order", Value: bson.D{{Key: "$avg", Value: "$total"}}},
			{Key: "items_sold", Value: bson.D{{Key: "$sum", Value: "$items_sold"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr("aggregate sales", err)
	}
	defer cursor.Close(ctx)

	var buckets []store.SalesBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, wrapErr("decode sales buckets", err)
	}
	return buckets, nil
}
