package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nirmalkarki/udharo-api/internal/config"
	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/handler"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/middleware"
	"github.com/nirmalkarki/udharo-api/pkg/utils"
)

// Handlers groups everything the router needs.
type Handlers struct {
	Auth    *handler.AuthHandler
	Bill    *handler.BillHandler
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
	Ledger  *handler.LedgerHandler
	Catalog *handler.CatalogHandler
}

// Setup wires all routes onto the engine.
func Setup(router *gin.Engine, cfg *config.Config, jwtManager *utils.JWTManager, policy *access.Policy, h Handlers) {
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.App.Name})
	})

	rateLimiter := middleware.NewBusinessRateLimiter(middleware.DefaultRateLimiterConfig())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtManager))
	protected.Use(rateLimiter.Middleware())
	{
		bills := protected.Group("/bills")
		{
			bills.POST("", middleware.RequireCapability(policy, access.CanCreateBills), h.Bill.Create)
			bills.GET("", h.Bill.List)
			bills.GET("/:id", h.Bill.Get)
		}

		orders := protected.Group("/orders")
		{
			orders.POST("", h.Order.Create)
			orders.GET("", h.Order.List)
			orders.GET("/:id", h.Order.Get)
			orders.PATCH("/:id/status", h.Order.ChangeStatus)
		}

		payments := protected.Group("/payments")
		{
			payments.POST("", middleware.RequireCapability(policy, access.CanRecordPayments), h.Payment.Create)
			payments.GET("", h.Payment.List)
		}

		ledger := protected.Group("/ledger")
		{
			ledger.GET("/user/:user_id", h.Ledger.History)
			ledger.GET("/balance/:user_id", h.Ledger.Balance)
			ledger.GET("/customers", middleware.RequireCapability(policy, access.CanViewAllLedgers), h.Ledger.CustomerBalances)
		}

		protected.GET("/stores", h.Catalog.ListStores)
		protected.GET("/products", h.Catalog.ListProducts)
		protected.GET("/customers", h.Catalog.ListCustomers)
		protected.POST("/users", middleware.RequireCapability(policy, access.CanManageUsers), h.Catalog.CreateUser)
	}
}
