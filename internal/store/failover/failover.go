// Package failover routes store calls to the primary (MongoDB) through a
// circuit breaker and serves them from the in-memory fallback while the
// backend is unreachable. Domain errors (not found, duplicate email, item
// not in cart) pass through without counting as failures; only transport
// failures trip the breaker.
package failover

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/models"
)

// Breaker is shared by all three decorated stores so one detected outage
// degrades the whole persistence layer at once.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[any]
}

func NewBreaker() *Breaker {
	settings := gobreaker.Settings{
		Name:    "mongodb",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("storage breaker %q: %s -> %s", name, from, to)
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker[any](settings)}
}

func isTransient(err error) bool {
	return errors.Is(err, store.ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}

// useFallback reports whether the primary's answer should be replaced by the
// fallback's: either the breaker refused the call outright or the call
// failed in a transport-level way.
func useFallback(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) ||
		isTransient(err)
}

func execute[T any](b *Breaker, primary func() (T, error), fallback func() (T, error)) (T, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return primary()
	})
	if err == nil {
		return res.(T), nil
	}
	if useFallback(err) {
		return fallback()
	}
	var zero T
	return zero, err
}

// Stores wraps the primary stores with breaker-guarded fallbacks.
func Stores(primary, fallback store.Stores, b *Breaker) store.Stores {
	return store.Stores{
		Users:    &userStore{b: b, primary: primary.Users, fallback: fallback.Users},
		Products: &productStore{b: b, primary: primary.Products, fallback: fallback.Products},
		Orders:   &orderStore{b: b, primary: primary.Orders, fallback: fallback.Orders},
	}
}

type userStore struct {
	b        *Breaker
	primary  store.UserStore
	fallback store.UserStore
}

func (s *userStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return execute(s.b,
		func() (*models.User, error) { return s.primary.CreateUser(ctx, user) },
		func() (*models.User, error) { return s.fallback.CreateUser(ctx, user) })
}

func (s *userStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return execute(s.b,
		func() (*models.User, error) { return s.primary.GetUserByID(ctx, id) },
		func() (*models.User, error) { return s.fallback.GetUserByID(ctx, id) })
}

func (s *userStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return execute(s.b,
		func() (*models.User, error) { return s.primary.GetUserByEmail(ctx, email) },
		func() (*models.User, error) { return s.fallback.GetUserByEmail(ctx, email) })
}

func (s *userStore) UpdateUserNames(ctx context.Context, id, firstName, lastName string) (*models.User, error) {
	return execute(s.b,
		func() (*models.User, error) { return s.primary.UpdateUserNames(ctx, id, firstName, lastName) },
		func() (*models.User, error) { return s.fallback.UpdateUserNames(ctx, id, firstName, lastName) })
}

func (s *userStore) DeleteUser(ctx context.Context, id string) error {
	_, err := execute(s.b,
		func() (struct{}, error) { return struct{}{}, s.primary.DeleteUser(ctx, id) },
		func() (struct{}, error) { return struct{}{}, s.fallback.DeleteUser(ctx, id) })
	return err
}

func (s *userStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return execute(s.b,
		func() ([]models.User, error) { return s.primary.ListUsers(ctx) },
		func() ([]models.User, error) { return s.fallback.ListUsers(ctx) })
}

func (s *userStore) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	return execute(s.b,
		func() (models.Cart, error) { return s.primary.GetCart(ctx, userID) },
		func() (models.Cart, error) { return s.fallback.GetCart(ctx, userID) })
}

func (s *userStore) IncrementCartItem(ctx context.Context, userID, productID string, qty int) (models.Cart, error) {
	return execute(s.b,
		func() (models.Cart, error) { return s.primary.IncrementCartItem(ctx, userID, productID, qty) },
		func() (models.Cart, error) { return s.fallback.IncrementCartItem(ctx, userID, productID, qty) })
}

func (s *userStore) SetCartItem(ctx context.Context, userID, productID string, qty int) (models.Cart, error) {
	return execute(s.b,
		func() (models.Cart, error) { return s.primary.SetCartItem(ctx, userID, productID, qty) },
		func() (models.Cart, error) { return s.fallback.SetCartItem(ctx, userID, productID, qty) })
}

func (s *userStore) RemoveCartItem(ctx context.Context, userID, productID string) (models.Cart, error) {
	return execute(s.b,
		func() (models.Cart, error) { return s.primary.RemoveCartItem(ctx, userID, productID) },
		func() (models.Cart, error) { return s.fallback.RemoveCartItem(ctx, userID, productID) })
}

func (s *userStore) ClearCart(ctx context.Context, userID string) error {
	_, err := execute(s.b,
		func() (struct{}, error) { return struct{}{}, s.primary.ClearCart(ctx, userID) },
		func() (struct{}, error) { return struct{}{}, s.fallback.ClearCart(ctx, userID) })
	return err
}

type productStore struct {
	b        *Breaker
	primary  store.ProductStore
	fallback store.ProductStore
}

func (s *productStore) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	return execute(s.b,
		func() (*models.Product, error) { return s.primary.CreateProduct(ctx, p) },
		func() (*models.Product, error) { return s.fallback.CreateProduct(ctx, p) })
}

func (s *productStore) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	return execute(s.b,
		func() (*models.Product, error) { return s.primary.UpdateProduct(ctx, id, upd) },
		func() (*models.Product, error) { return s.fallback.UpdateProduct(ctx, id, upd) })
}

func (s *productStore) DeleteProduct(ctx context.Context, id string) error {
	_, err := execute(s.b,
		func() (struct{}, error) { return struct{}{}, s.primary.DeleteProduct(ctx, id) },
		func() (struct{}, error) { return struct{}{}, s.fallback.DeleteProduct(ctx, id) })
	return err
}

func (s *productStore) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return execute(s.b,
		func() (*models.Product, error) { return s.primary.GetProductByID(ctx, id) },
		func() (*models.Product, error) { return s.fallback.GetProductByID(ctx, id) })
}

func (s *productStore) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	return execute(s.b,
		func() ([]models.Product, error) { return s.primary.GetProductsByIDs(ctx, ids) },
		func() ([]models.Product, error) { return s.fallback.GetProductsByIDs(ctx, ids) })
}

func (s *productStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	return execute(s.b,
		func() ([]models.Product, error) { return s.primary.ListProducts(ctx) },
		func() ([]models.Product, error) { return s.fallback.ListProducts(ctx) })
}

type orderStore struct {
	b        *Breaker
	primary  store.OrderStore
	fallback store.OrderStore
}

func (s *orderStore) PlaceOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return execute(s.b,
		func() (*models.Order, error) { return s.primary.PlaceOrder(ctx, order) },
		func() (*models.Order, error) { return s.fallback.PlaceOrder(ctx, order) })
}

func (s *orderStore) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return execute(s.b,
		func() ([]models.Order, error) { return s.primary.GetUserOrders(ctx, userID) },
		func() ([]models.Order, error) { return s.fallback.GetUserOrders(ctx, userID) })
}

func (s *orderStore) GetOrderByID(ctx context.Context, orderID, userID string) (*models.Order, error) {
	return execute(s.b,
		func() (*models.Order, error) { return s.primary.GetOrderByID(ctx, orderID, userID) },
		func() (*models.Order, error) { return s.fallback.GetOrderByID(ctx, orderID, userID) })
}

func (s *orderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	return execute(s.b,
		func() ([]models.Order, error) { return s.primary.ListOrders(ctx) },
		func() ([]models.Order, error) { return s.fallback.ListOrders(ctx) })
}

func (s *orderStore) UpdateOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	return execute(s.b,
		func() (*models.Order, error) { return s.primary.UpdateOrderStatus(ctx, orderID, status) },
		func() (*models.Order, error) { return s.fallback.UpdateOrderStatus(ctx, orderID, status) })
}

func (s *orderStore) SalesByDay(ctx context.Context, from, to time.Time) ([]store.SalesBucket, error) {
	return execute(s.b,
		func() ([]store.SalesBucket, error) { return s.primary.SalesByDay(ctx, from, to) },
		func() ([]store.SalesBucket, error) { return s.fallback.SalesByDay(ctx, from, to) })
}
