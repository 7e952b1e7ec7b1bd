// Package memory is the process-local fallback store used when MongoDB is
// unreachable. It honors the same interface semantics as the mongodb
// package, but its data is neither durable nor shared across instances.
package memory

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/models"
)

// Store keeps everything in maps guarded by one mutex per document family.
// Cart mutations run under the users lock, which serializes concurrent
// writers against the same user the way the $inc/$unset path does in Mongo.
type Store struct {
	usersMu sync.RWMutex
	users   map[string]*models.User

	productsMu sync.RWMutex
	products   map[string]*models.Product

	ordersMu sync.RWMutex
	orders   map[string]*models.Order
}

func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		products: make(map[string]*models.Product),
		orders:   make(map[string]*models.Order),
	}
}

func newID() string {
	return uuid.NewString()
}

// --- UserStore ---

func (s *Store) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, store.ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = newID()
	}
	if user.CartData == nil {
		user.CartData = models.Cart{}
	}
	user.SetTimestamps()

	stored := *user
	stored.CartData = user.CartData.Clone()
	s.users[user.ID] = &stored
	return user, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	return s.copyUserLocked(id)
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	for id, u := range s.users {
		if u.Email == email {
			return s.copyUserLocked(id)
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateUserNames(_ context.Context, id, firstName, lastName string) (*models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.UpdatedAt = time.Now()
	return s.copyUserLocked(id)
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for id := range s.users {
		u, _ := s.copyUserLocked(id)
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (s *Store) GetCart(_ context.Context, userID string) (models.Cart, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u.CartData.Clone(), nil
}

func (s *Store) IncrementCartItem(_ context.Context, userID, productID string, qty int) (models.Cart, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if u.CartData == nil {
		u.CartData = models.Cart{}
	}
	u.CartData[productID] += qty
	if u.CartData[productID] <= 0 {
		delete(u.CartData, productID)
	}
	u.UpdatedAt = time.Now()
	return u.CartData.Clone(), nil
}

func (s *Store) SetCartItem(_ context.Context, userID, productID string, qty int) (models.Cart, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if u.CartData == nil {
		u.CartData = models.Cart{}
	}
	u.CartData[productID] = qty
	u.UpdatedAt = time.Now()
	return u.CartData.Clone(), nil
}

func (s *Store) RemoveCartItem(_ context.Context, userID, productID string) (models.Cart, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if _, ok := u.CartData[productID]; !ok {
		return nil, store.ErrItemNotInCart
	}
	delete(u.CartData, productID)
	u.UpdatedAt = time.Now()
	return u.CartData.Clone(), nil
}

func (s *Store) ClearCart(_ context.Context, userID string) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.CartData = models.Cart{}
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Store) copyUserLocked(id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *u
	out.CartData = u.CartData.Clone()
	return &out, nil
}

// --- ProductStore ---

func (s *Store) CreateProduct(_ context.Context, p *models.Product) (*models.Product, error) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	if p.ID == "" {
		p.ID = newID()
	}
	p.SetTimestamps()

	stored := *p
	s.products[p.ID] = &stored
	return p, nil
}

func (s *Store) UpdateProduct(_ context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Name = upd.Name
	p.Price = upd.Price
	p.Category = upd.Category
	p.Rating = upd.Rating
	p.Still = upd.Still
	p.Discount = upd.Discount
	p.Featured = upd.Featured
	p.Description = upd.Description
	if upd.Image != nil {
		p.Image = *upd.Image
	}
	p.UpdatedAt = time.Now()

	out := *p
	return &out, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	s.productsMu.RLock()
	defer s.productsMu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (s *Store) GetProductsByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	s.productsMu.RLock()
	defer s.productsMu.RUnlock()

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			products = append(products, *p)
		}
	}
	return products, nil
}

func (s *Store) ListProducts(_ context.Context) ([]models.Product, error) {
	s.productsMu.RLock()
	defer s.productsMu.RUnlock()

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// --- OrderStore ---

func (s *Store) PlaceOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == "" {
		order.ID = newID()
	}

	s.ordersMu.Lock()
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	s.orders[order.ID] = &stored
	s.ordersMu.Unlock()

	// Same degraded two-step contract as the non-transactional mongodb
	// path: the order stands even when the cart clear fails.
	if err := s.ClearCart(ctx, order.UserID); err != nil {
		log.Printf("order %s persisted but cart clear failed for user %s: %v", order.ID, order.UserID, err)
	}
	return order, nil
}

func (s *Store) GetUserOrders(_ context.Context, userID string) ([]models.Order, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	orders := make([]models.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, copyOrder(o))
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (s *Store) GetOrderByID(_ context.Context, orderID, userID string) (*models.Order, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, store.ErrNotFound
	}
	out := copyOrder(o)
	return &out, nil
}

func (s *Store) ListOrders(_ context.Context) ([]models.Order, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	orders := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, copyOrder(o))
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, orderID, status string) (*models.Order, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	out := copyOrder(o)
	return &out, nil
}

func (s *Store) SalesByDay(_ context.Context, from, to time.Time) ([]store.SalesBucket, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	byDay := make(map[string]*store.SalesBucket)
	for _, o := range s.orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		b, ok := byDay[day]
		if !ok {
			b = &store.SalesBucket{Day: day}
			byDay[day] = b
		}
		b.Orders++
		b.Revenue += o.Total
		for _, it := range o.Items {
			b.ItemsSold += it.Quantity
		}
	}

	buckets := make([]store.SalesBucket, 0, len(byDay))
	for _, b := range byDay {
		b.AvgOrder = b.Revenue / float64(b.Orders)
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Day < buckets[j].Day })
	return buckets, nil
}

func copyOrder(o *models.Order) models.Order {
	out := *o
	out.Items = append([]models.OrderItem(nil), o.Items...)
	return out
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
