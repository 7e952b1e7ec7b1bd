package failover

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/internal/store/memory"
	"github.com/shopora/backend/pkg/models"
)

// flakyUsers is a UserStore whose reads fail with ErrUnavailable while
// down is set. Only GetCart is exercised by the tests; the rest delegates.
type flakyUsers struct {
	store.UserStore
	down  atomic.Bool
	calls atomic.Int64
}

func (f *flakyUsers) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	f.calls.Add(1)
	if f.down.Load() {
		return nil, store.ErrUnavailable
	}
	return f.UserStore.GetCart(ctx, userID)
}

func newFailoverFixture(t *testing.T) (*flakyUsers, store.UserStore, string) {
	t.Helper()
	ctx := context.Background()

	primary := memory.New()
	fallback := memory.New()

	user, err := primary.CreateUser(ctx, &models.User{
		Email:    "breaker@example.com",
		Password: "hashed",
		CartData: models.Cart{"p1": 2},
	})
	require.NoError(t, err)
	// Mirror the account so the fallback can answer for it.
	_, err = fallback.CreateUser(ctx, &models.User{
		ID:       user.ID,
		Email:    user.Email,
		Password: user.Password,
		CartData: models.Cart{},
	})
	require.NoError(t, err)

	flaky := &flakyUsers{UserStore: primary}
	wrapped := Stores(
		store.Stores{Users: flaky, Products: primary, Orders: primary},
		store.Stores{Users: fallback, Products: fallback, Orders: fallback},
		NewBreaker(),
	)
	return flaky, wrapped.Users, user.ID
}

func TestFailoverHealthyPrimary(t *testing.T) {
	_, users, userID := newFailoverFixture(t)

	cart, err := users.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, cart["p1"])
}

func TestFailoverServesFallbackWhenPrimaryDown(t *testing.T) {
	flaky, users, userID := newFailoverFixture(t)
	flaky.down.Store(true)

	cart, err := users.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestFailoverOpensAfterConsecutiveFailures(t *testing.T) {
	flaky, users, userID := newFailoverFixture(t)
	ctx := context.Background()
	flaky.down.Store(true)

	for i := 0; i < 5; i++ {
		_, err := users.GetCart(ctx, userID)
		require.NoError(t, err)
	}

	// Once open, the breaker stops dialing the primary at all.
	before := flaky.calls.Load()
	_, err := users.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, before, flaky.calls.Load())
}

func TestFailoverDomainErrorsPassThrough(t *testing.T) {
	_, users, _ := newFailoverFixture(t)
	ctx := context.Background()

	// A missing user is a domain answer, not an outage: no fallback, no
	// breaker accounting.
	for i := 0; i < 5; i++ {
		_, err := users.GetUserByID(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	}
}
