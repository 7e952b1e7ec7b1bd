package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/backend/pkg/models"
)

func TestPlaceOrderKeepsOrderWhenCartClearFails(t *testing.T) {
	st := New()
	ctx := context.Background()

	// The owning user is gone, so the follow-up cart clear cannot succeed.
	// The placed order still stands, matching the two-step write contract.
	order, err := st.PlaceOrder(ctx, &models.Order{
		UserID: "departed-user",
		Items: []models.OrderItem{{
			ProductID: "p1",
			Name:      "Jacket",
			Price:     100,
			Quantity:  1,
		}},
		Total:  100,
		Status: models.OrderStatusPending,
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)

	stored, err := st.GetOrderByID(ctx, order.ID, "departed-user")
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
	assert.Equal(t, 100.0, stored.Total)
}
