package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopora/backend/internal/auth"
	"github.com/shopora/backend/internal/service"
	"github.com/shopora/backend/internal/store/memory"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	st := memory.New()
	tokens := auth.NewManager("test_secret")
	h := &Handlers{
		Users:       service.NewUserService(st, tokens),
		Carts:       service.NewCartService(st),
		Orders:      service.NewOrderService(st, st, st, 0.01),
		Products:    st,
		StorageMode: "memory",
	}
	return New(h, tokens)
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func registerUser(t *testing.T, engine *gin.Engine, email string) string {
	t.Helper()
	rec, envelope := doJSON(t, engine, http.MethodPost, "/api/user/register", "", gin.H{
		"firstName": "Test",
		"lastName":  "User",
		"email":     email,
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token, _ := envelope["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestEngine()

	rec, envelope := doJSON(t, engine, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
}

func TestRegisterAndLogin(t *testing.T) {
	engine := newTestEngine()
	registerUser(t, engine, "flow@example.com")

	rec, envelope := doJSON(t, engine, http.MethodPost, "/api/user/login", "", gin.H{
		"email":    "flow@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.NotEmpty(t, envelope["token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	engine := newTestEngine()
	registerUser(t, engine, "dup@example.com")

	rec, envelope := doJSON(t, engine, http.MethodPost, "/api/user/register", "", gin.H{
		"firstName": "Test",
		"lastName":  "User",
		"email":     "dup@example.com",
		"password":  "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestCartRequiresAuth(t *testing.T) {
	engine := newTestEngine()

	rec, envelope := doJSON(t, engine, http.MethodPost, "/api/cart/add", "", gin.H{"itemId": "p1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not Authorized, login again", envelope["message"])
}

func TestCartFlow(t *testing.T) {
	engine := newTestEngine()
	token := registerUser(t, engine, "cart@example.com")

	rec, envelope := doJSON(t, engine, http.MethodPost, "/api/cart/add", token, gin.H{
		"itemId":   "p1",
		"quantity": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "Product added to cart", envelope["message"])

	cartData, ok := envelope["cartData"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), cartData["p1"])

	rec, envelope = doJSON(t, engine, http.MethodPost, "/api/cart/remove", token, gin.H{"itemId": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])

	cartData, ok = envelope["cartData"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, cartData, "p1")
}

func TestCartDomainFailureKeeps200(t *testing.T) {
	engine := newTestEngine()
	token := registerUser(t, engine, "cart200@example.com")

	rec, envelope := doJSON(t, engine, http.MethodPost, "/api/cart/add", token, gin.H{"quantity": 1})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Please send product ID", envelope["message"])

	rec, envelope = doJSON(t, engine, http.MethodPost, "/api/cart/remove", token, gin.H{"itemId": "ghost"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Product not found in cart", envelope["message"])
}

func TestOrderFlow(t *testing.T) {
	engine := newTestEngine()
	token := registerUser(t, engine, "order@example.com")

	_, envelope := doJSON(t, engine, http.MethodPost, "/api/cart/add", token, gin.H{
		"itemId":   "p1",
		"quantity": 1,
	})
	require.Equal(t, true, envelope["success"])

	rec, envelope := doJSON(t, engine, http.MethodPost, "/api/order/place", token, gin.H{
		"items": []gin.H{{
			"_id":      "p1",
			"name":     "Jacket",
			"price":    50,
			"quantity": 2,
		}},
		"total": 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "Order placed successfully", envelope["message"])

	order, ok := envelope["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pending", order["status"])

	// The cart is consumed by placement.
	rec, envelope = doJSON(t, engine, http.MethodPost, "/api/cart/get", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cartData, ok := envelope["cartData"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, cartData)

	rec, envelope = doJSON(t, engine, http.MethodPost, "/api/order/my-orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders, ok := envelope["orders"].([]any)
	require.True(t, ok)
	assert.Len(t, orders, 1)
}

func TestPlaceOrderEmptyCartKeeps200(t *testing.T) {
	engine := newTestEngine()
	token := registerUser(t, engine, "empty@example.com")

	rec, envelope := doJSON(t, engine, http.MethodPost, "/api/order/place", token, gin.H{
		"items": []gin.H{},
		"total": 100,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Cart is empty", envelope["message"])
}

func TestUpdateOrderStatusRejectsUnknownValue(t *testing.T) {
	engine := newTestEngine()
	token := registerUser(t, engine, "status@example.com")

	rec, envelope := doJSON(t, engine, http.MethodPut, "/api/order/any-id/status", token, gin.H{
		"status": "teleported",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestProductListEmpty(t *testing.T) {
	engine := newTestEngine()

	rec, envelope := doJSON(t, engine, http.MethodGet, "/api/product/list", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
}
