package router

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopora/backend/internal/service"
	"github.com/shopora/backend/pkg/global"
)

// Cart and order endpoints answer domain failures with HTTP 200 and
// success:false. The storefront clients match on the envelope, not the
// status code, and changing that contract would break them.

type cartAddRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type cartRemoveRequest struct {
	ItemID string `json:"itemId"`
}

type cartUpdateRequest struct {
	ItemID   string `json:"itemId"`
	Quantity *int   `json:"quantity"`
}

func (h *Handlers) AddToCart(c *gin.Context) {
	var req cartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, global.ErrorResponse("Invalid request data"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cart, err := h.Carts.Add(ctx, currentUserID(c), req.ItemID, req.Quantity)
	if err != nil {
		cartError(c, "add to cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Product added to cart",
		"cartData": cart,
	})
}

func (h *Handlers) RemoveFromCart(c *gin.Context) {
	var req cartRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, global.ErrorResponse("Invalid request data"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cart, err := h.Carts.Remove(ctx, currentUserID(c), req.ItemID)
	if err != nil {
		cartError(c, "remove from cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Product removed from cart",
		"cartData": cart,
	})
}

func (h *Handlers) UpdateCartQuantity(c *gin.Context) {
	var req cartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, global.ErrorResponse("Invalid request data"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cart, err := h.Carts.SetQuantity(ctx, currentUserID(c), req.ItemID, req.Quantity)
	if err != nil {
		cartError(c, "update cart quantity", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Cart quantity updated",
		"cartData": cart,
	})
}

func (h *Handlers) GetCart(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cart, err := h.Carts.Get(ctx, currentUserID(c))
	if err != nil {
		cartError(c, "get cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cartData": cart})
}

func cartError(c *gin.Context, op string, err error) {
	if service.IsDomainError(err) {
		c.JSON(http.StatusOK, global.ErrorResponse(err.Error()))
		return
	}
	log.Printf("error in %s: %v", op, err)
	c.JSON(http.StatusOK, global.ErrorResponse("Server error occurred"))
}
