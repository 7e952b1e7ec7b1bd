// Package store defines the persistence interfaces the services depend on.
// Two implementations exist: mongodb (durable) and memory (process-local
// fallback for degraded mode). The failover package composes the two behind
// a circuit breaker.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopora/backend/pkg/models"
)

var (
	// ErrNotFound means the referenced document does not exist, or an
	// ownership predicate excluded it.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail means a user with that email already exists.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrItemNotInCart means the user exists but the cart has no entry for
	// the product.
	ErrItemNotInCart = errors.New("item not in cart")

	// ErrUnavailable means the storage backend could not be reached in time.
	ErrUnavailable = errors.New("storage unavailable")
)

// UserStore persists user documents and their embedded carts. Cart mutations
// are field-level and atomic on the stored document: no implementation may
// read the whole cart, change it in memory and write it back, because that
// loses concurrent updates.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserNames(ctx context.Context, id, firstName, lastName string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]models.User, error)

	GetCart(ctx context.Context, userID string) (models.Cart, error)
	// IncrementCartItem adds qty to the entry (creating it if absent) and
	// returns the resulting cart.
	IncrementCartItem(ctx context.Context, userID, productID string, qty int) (models.Cart, error)
	// SetCartItem overwrites the entry to exactly qty (qty > 0) and returns
	// the resulting cart.
	SetCartItem(ctx context.Context, userID, productID string, qty int) (models.Cart, error)
	// RemoveCartItem deletes the entry entirely. Returns ErrItemNotInCart
	// when the user exists but holds no such entry.
	RemoveCartItem(ctx context.Context, userID, productID string) (models.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// ProductStore persists catalog entries.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// OrderStore persists order documents.
type OrderStore interface {
	// PlaceOrder writes the order and clears the owning user's cart. The
	// mongodb implementation runs both writes in one transaction when the
	// deployment supports sessions; otherwise insert-then-clear, in that
	// order, so a crash leaves an order without a stale cart write.
	PlaceOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	// GetOrderByID restricts the lookup to orders owned by userID; an order
	// owned by someone else yields ErrNotFound.
	GetOrderByID(ctx context.Context, orderID, userID string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error)
	SalesByDay(ctx context.Context, from, to time.Time) ([]SalesBucket, error)
}

// SalesBucket is one day of order aggregates.
type SalesBucket struct {
	Day       string  `bson:"_id" json:"day"`
	Orders    int     `bson:"orders" json:"orders"`
	Revenue   float64 `bson:"revenue" json:"revenue"`
	AvgOrder  float64 `bson:"avg_order" json:"avgOrder"`
	ItemsSold int     `bson:"items_sold" json:"itemsSold"`
}

// Stores bundles the three interfaces for wiring.
type Stores struct {
	Users    UserStore
	Products ProductStore
	Orders   OrderStore
}
