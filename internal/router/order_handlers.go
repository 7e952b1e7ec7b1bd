package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopora/backend/internal/service"
	"github.com/shopora/backend/pkg/ai"
	"github.com/shopora/backend/pkg/global"
	"github.com/shopora/backend/pkg/models"
)

func (h *Handlers) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, global.ErrorResponse("Invalid request data"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.PlaceOrder(ctx, currentUserID(c), req)
	if err != nil {
		cartError(c, "place order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (h *Handlers) GetUserOrders(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.GetUserOrders(ctx, currentUserID(c))
	if err != nil {
		cartError(c, "get user orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *Handlers) GetOrderByID(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.GetOrderByID(ctx, currentUserID(c), c.Param("orderId"))
	if err != nil {
		cartError(c, "get order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *Handlers) GetAllOrders(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.GetAllOrders(ctx)
	if err != nil {
		cartError(c, "get all orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	order, err := h.Orders.UpdateStatus(ctx, c.Param("orderId"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, global.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, global.ErrorResponse(err.Error()))
		default:
			serverError(c, "update order status", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated",
		"order":   order,
	})
}

func (h *Handlers) GetSalesAnalytics(c *gin.Context) {
	from, to := salesWindow(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	buckets, err := h.Orders.SalesByDay(ctx, from, to)
	if err != nil {
		serverError(c, "sales analytics", err)
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(buckets))
}

func (h *Handlers) GenerateAISalesReport(c *gin.Context) {
	from, to := salesWindow(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	buckets, err := h.Orders.SalesByDay(ctx, from, to)
	if err != nil {
		serverError(c, "ai sales report", err)
		return
	}

	report := ai.GenerateSalesReport(c.Request.Context(), buckets)
	c.JSON(http.StatusOK, global.SuccessResponse(report))
}

// salesWindow parses from/to query params (YYYY-MM-DD), defaulting to the
// last 30 days.
func salesWindow(c *gin.Context) (time.Time, time.Time) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			to = t
		}
	}
	return from, to
}
