package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/models"
)

// CartService mutates the cart embedded on a user document. Every mutation
// is a single atomic field-level operation in the store, so concurrent
// requests against the same user cannot lose each other's updates.
type CartService struct {
	users store.UserStore
}

func NewCartService(users store.UserStore) *CartService {
	return &CartService{users: users}
}

// Add increments the entry for productID by qty, inserting it when absent.
// A zero qty means the client omitted it and defaults to 1. No stock check
// happens here; the cart is a wish list, availability is settled at order
// time.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (models.Cart, error) {
	if err := checkProductID(productID); err != nil {
		return nil, err
	}
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.users.IncrementCartItem(ctx, userID, productID, qty)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return cart, nil
}

// Remove deletes the entry entirely; it never decrements.
func (s *CartService) Remove(ctx context.Context, userID, productID string) (models.Cart, error) {
	if err := checkProductID(productID); err != nil {
		return nil, err
	}

	cart, err := s.users.RemoveCartItem(ctx, userID, productID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return cart, nil
}

// SetQuantity overwrites the entry to exactly qty. Zero or negative means
// removal, matching Remove including its failure modes.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, qty *int) (models.Cart, error) {
	if productID == "" || qty == nil {
		return nil, ErrMissingQuantity
	}
	if err := checkProductID(productID); err != nil {
		return nil, err
	}
	if *qty <= 0 {
		return s.Remove(ctx, userID, productID)
	}

	cart, err := s.users.SetCartItem(ctx, userID, productID, *qty)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return cart, nil
}

// Get returns the user's cart, empty when they never had one.
func (s *CartService) Get(ctx context.Context, userID string) (models.Cart, error) {
	cart, err := s.users.GetCart(ctx, userID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	if cart == nil {
		cart = models.Cart{}
	}
	return cart, nil
}

// checkProductID rejects ids that cannot be a cart map key. "." and "$"
// would splice into the stored field path and create nested documents
// instead of a literal key, making backends disagree on reads.
func checkProductID(productID string) error {
	if productID == "" {
		return ErrMissingProductID
	}
	if strings.ContainsAny(productID, ".$") {
		return ErrInvalidProductID
	}
	return nil
}

func mapUserErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrItemNotInCart):
		return ErrItemNotInCart
	default:
		return err
	}
}
