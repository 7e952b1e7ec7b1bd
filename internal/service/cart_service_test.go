package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/backend/internal/store/memory"
	"github.com/shopora/backend/pkg/models"
)

func newCartFixture(t *testing.T) (*CartService, string) {
	t.Helper()
	st := memory.New()
	user, err := st.CreateUser(context.Background(), &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     "cart@example.com",
		Password:  "hashed",
		CartData:  models.Cart{},
	})
	require.NoError(t, err)
	return NewCartService(st), user.ID
}

func TestCartAdd(t *testing.T) {
	svc, userID := newCartFixture(t)
	ctx := context.Background()

	cart, err := svc.Add(ctx, userID, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart["p1"])

	cart, err = svc.Add(ctx, userID, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, cart["p1"])
}

func TestCartAddDefaultsQuantityToOne(t *testing.T) {
	svc, userID := newCartFixture(t)

	cart, err := svc.Add(context.Background(), userID, "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, cart["p1"])
}

func TestCartAddRejectsNegativeQuantity(t *testing.T) {
	svc, userID := newCartFixture(t)

	_, err := svc.Add(context.Background(), userID, "p1", -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartAddRequiresProductID(t *testing.T) {
	svc, userID := newCartFixture(t)

	_, err := svc.Add(context.Background(), userID, "", 1)
	assert.ErrorIs(t, err, ErrMissingProductID)
}

func TestCartRejectsPathCharactersInProductID(t *testing.T) {
	svc, userID := newCartFixture(t)
	ctx := context.Background()

	for _, id := range []string{"a.b", "$where", "cart.data$x"} {
		_, err := svc.Add(ctx, userID, id, 1)
		assert.ErrorIs(t, err, ErrInvalidProductID, "add %q", id)

		_, err = svc.Remove(ctx, userID, id)
		assert.ErrorIs(t, err, ErrInvalidProductID, "remove %q", id)

		qty := 1
		_, err = svc.SetQuantity(ctx, userID, id, &qty)
		assert.ErrorIs(t, err, ErrInvalidProductID, "set %q", id)
	}

	cart, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCartAddUnknownUser(t *testing.T) {
	svc, _ := newCartFixture(t)

	_, err := svc.Add(context.Background(), "missing", "p1", 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCartRemove(t *testing.T) {
	svc, userID := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, "p1", 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, "p2", 1)
	require.NoError(t, err)

	cart, err := svc.Remove(ctx, userID, "p1")
	require.NoError(t, err)
	assert.NotContains(t, cart, "p1")
	assert.Equal(t, 1, cart["p2"])
}

func TestCartRemoveMissingItem(t *testing.T) {
	svc, userID := newCartFixture(t)

	_, err := svc.Remove(context.Background(), userID, "never-added")
	assert.ErrorIs(t, err, ErrItemNotInCart)
}

func TestCartRemoveUnknownUser(t *testing.T) {
	svc, _ := newCartFixture(t)

	_, err := svc.Remove(context.Background(), "missing", "p1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCartSetQuantity(t *testing.T) {
	svc, userID := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, "p1", 2)
	require.NoError(t, err)

	qty := 7
	cart, err := svc.SetQuantity(ctx, userID, "p1", &qty)
	require.NoError(t, err)
	assert.Equal(t, 7, cart["p1"])
}

func TestCartSetQuantityZeroRemoves(t *testing.T) {
	svc, userID := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, userID, "p1", 2)
	require.NoError(t, err)

	qty := 0
	cart, err := svc.SetQuantity(ctx, userID, "p1", &qty)
	require.NoError(t, err)
	assert.NotContains(t, cart, "p1")

	// Negative behaves the same way, including the missing-entry failure.
	_, err = svc.Add(ctx, userID, "p1", 2)
	require.NoError(t, err)
	qty = -3
	cart, err = svc.SetQuantity(ctx, userID, "p1", &qty)
	require.NoError(t, err)
	assert.NotContains(t, cart, "p1")

	_, err = svc.SetQuantity(ctx, userID, "p1", &qty)
	assert.ErrorIs(t, err, ErrItemNotInCart)
}

func TestCartSetQuantityRequiresQuantity(t *testing.T) {
	svc, userID := newCartFixture(t)

	_, err := svc.SetQuantity(context.Background(), userID, "p1", nil)
	assert.ErrorIs(t, err, ErrMissingQuantity)
}

func TestCartGetEmpty(t *testing.T) {
	svc, userID := newCartFixture(t)

	cart, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart)
	assert.NotNil(t, cart)
}

func TestCartConcurrentAdds(t *testing.T) {
	svc, userID := newCartFixture(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, userID, "p1", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, writers, cart["p1"])
}
