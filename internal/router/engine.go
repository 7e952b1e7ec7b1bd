package router

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shopora/backend/internal/auth"
	"github.com/shopora/backend/internal/service"
	"github.com/shopora/backend/internal/store"
	"github.com/shopora/backend/pkg/global"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Users    *service.UserService
	Carts    *service.CartService
	Orders   *service.OrderService
	Products store.ProductStore

	// StorageMode is reported by the health endpoint: "mongodb" or "memory".
	StorageMode string
}

// New builds the engine with CORS, the route table and the auth middleware.
func New(h *Handlers, tokens *auth.Manager) *gin.Engine {
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()

	origins := strings.Split(global.GetEnvOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := RequireAuth(tokens)

	api := engine.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		user := api.Group("/user")
		{
			user.POST("/register", h.Register)
			user.POST("/login", h.Login)
			user.GET("/me", authRequired, h.GetMe)
			user.PUT("/update", authRequired, h.UpdateProfile)
			user.DELETE("/delete", authRequired, h.DeleteAccount)
			user.GET("/list", authRequired, h.ListUsers)
		}

		cart := api.Group("/cart", authRequired)
		{
			cart.POST("/add", h.AddToCart)
			cart.POST("/remove", h.RemoveFromCart)
			cart.POST("/get", h.GetCart)
			cart.POST("/update", h.UpdateCartQuantity)
		}

		order := api.Group("/order", authRequired)
		{
			order.POST("/place", h.PlaceOrder)
			order.POST("/my-orders", h.GetUserOrders)
			order.POST("/all", h.GetAllOrders)
			order.PUT("/:orderId/status", h.UpdateOrderStatus)
			order.POST("/:orderId", h.GetOrderByID)
		}

		product := api.Group("/product")
		{
			product.POST("/add", h.AddProduct)
			product.PUT("/update/:id", h.UpdateProduct)
			product.GET("/list", h.ListProducts)
			product.POST("/remove", h.RemoveProduct)
			product.GET("/byIds", h.GetProductsByIDs)
			product.GET("/:id", h.GetProductByID)
		}

		analytics := api.Group("/analytics", authRequired)
		{
			analytics.GET("/sales", h.GetSalesAnalytics)
			analytics.GET("/ai/sales-report", h.GenerateAISalesReport)
		}
	}

	return engine
}

// reqCtx bounds every storage call issued on behalf of this request.
func reqCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}
