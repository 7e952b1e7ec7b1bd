package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/models"
)

// OrderService turns a submitted line-item list into a persisted order and
// consumes the originating cart.
type OrderService struct {
	users    store.UserStore
	orders   store.OrderStore
	products store.ProductStore

	// totalTolerance is how far the client-claimed total may drift from the
	// recomputed one before the order is rejected.
	totalTolerance float64
}

func NewOrderService(users store.UserStore, orders store.OrderStore, products store.ProductStore, totalTolerance float64) *OrderService {
	return &OrderService{
		users:          users,
		orders:         orders,
		products:       products,
		totalTolerance: totalTolerance,
	}
}

// OrderItemView is a stored line item plus the current catalog entry for
// display. Product is nil when the catalog entry has since been deleted.
type OrderItemView struct {
	models.OrderItem
	Product *models.ProductRef `json:"product,omitempty"`
}

// OrderView is an order with line items re-joined to current product data.
// The snapshot fields in each item stay as captured at placement time.
type OrderView struct {
	ID        string             `json:"_id"`
	UserID    string             `json:"userId"`
	User      *models.PublicUser `json:"user,omitempty"`
	Items     []OrderItemView    `json:"items"`
	Total     float64            `json:"total"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// PlaceOrder validates the submission, snapshots the items into an order
// with status pending and clears the user's entire cart - including entries
// for products that were not part of this order.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req models.PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.Total <= 0 {
		return nil, ErrInvalidTotal
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	order := &models.Order{
		UserID: userID,
		Items:  make([]models.OrderItem, len(req.Items)),
		Total:  req.Total,
		Status: models.OrderStatusPending,
	}
	for i, item := range req.Items {
		order.Items[i] = normalizeItem(item)
	}

	// The claimed total is not trusted for a financial record: it has to
	// agree with the prices the client itself submitted.
	if computed := order.ComputeTotal(); math.Abs(computed-req.Total) > s.totalTolerance {
		return nil, ErrTotalMismatch
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	placed, err := s.orders.PlaceOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// normalizeItem folds the two client request shapes into one line item:
// _id|productId, name|title, amount|quantity, discount defaulting to 0.
// Amount takes precedence over quantity when both arrive.
func normalizeItem(item models.PlaceOrderItem) models.OrderItem {
	productID := item.ID
	if productID == "" {
		productID = item.ProductID
	}
	name := item.Name
	if name == "" {
		name = item.Title
	}
	qty := item.Amount
	if qty == 0 {
		qty = item.Quantity
	}
	return models.OrderItem{
		ProductID: productID,
		Name:      name,
		Price:     item.Price,
		Image:     item.Image,
		Quantity:  qty,
		Discount:  item.Discount,
	}
}

// GetUserOrders returns the user's orders newest first, each line item
// re-joined to the product's current name/price/image.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string) ([]OrderView, error) {
	orders, err := s.orders.GetUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, orders, false)
}

// GetOrderByID looks the order up under an ownership predicate; someone
// else's order comes back as not found.
func (s *OrderService) GetOrderByID(ctx context.Context, userID, orderID string) (*OrderView, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	views, err := s.buildViews(ctx, []models.Order{*order}, false)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetAllOrders is the administrative listing: every order, newest first,
// with the owning user and line-item products resolved for display.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]OrderView, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, orders, true)
}

// UpdateStatus is the only place an order's status changes. It checks enum
// membership and nothing else: no transition rule exists, the admin
// workflow owns the lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	order, err := s.orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// SalesByDay reports daily order aggregates over the given window.
func (s *OrderService) SalesByDay(ctx context.Context, from, to time.Time) ([]store.SalesBucket, error) {
	return s.orders.SalesByDay(ctx, from, to)
}

func (s *OrderService) buildViews(ctx context.Context, orders []models.Order, withUsers bool) ([]OrderView, error) {
	productIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, o := range orders {
		for _, it := range o.Items {
			if it.ProductID != "" && !seen[it.ProductID] {
				seen[it.ProductID] = true
				productIDs = append(productIDs, it.ProductID)
			}
		}
	}

	refs := make(map[string]models.ProductRef)
	if len(productIDs) > 0 {
		products, err := s.products.GetProductsByIDs(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			refs[p.ID] = models.ProductRef{
				ID:       p.ID,
				Name:     p.Name,
				Price:    p.Price,
				Image:    p.Image,
				Category: p.Category,
			}
		}
	}

	userCache := make(map[string]*models.PublicUser)
	views := make([]OrderView, len(orders))
	for i, o := range orders {
		view := OrderView{
			ID:        o.ID,
			UserID:    o.UserID,
			Items:     make([]OrderItemView, len(o.Items)),
			Total:     o.Total,
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
			UpdatedAt: o.UpdatedAt,
		}
		for j, it := range o.Items {
			itemView := OrderItemView{OrderItem: it}
			if ref, ok := refs[it.ProductID]; ok {
				itemView.Product = &ref
			}
			view.Items[j] = itemView
		}
		if withUsers {
			view.User = s.resolveUser(ctx, o.UserID, userCache)
		}
		views[i] = view
	}
	return views, nil
}

func (s *OrderService) resolveUser(ctx context.Context, userID string, cache map[string]*models.PublicUser) *models.PublicUser {
	if u, ok := cache[userID]; ok {
		return u
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		cache[userID] = nil
		return nil
	}
	pub := user.Public()
	cache[userID] = &pub
	return &pub
}
