package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tillpoint/tillpoint-api/internal/config"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/handler"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/middleware"
	"github.com/tillpoint/tillpoint-api/pkg/utils"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Invoice   *handler.InvoiceHandler
	DraftCart *handler.DraftCartHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Purchase  *handler.PurchaseHandler
}

// Setup builds the gin engine with all middleware and routes mounted.
func Setup(cfg *config.Config, log *logrus.Logger, jwtManager *utils.JWTManager, h *Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// The limiter sits behind auth so it can key on the tenant id.
	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtManager))
	protected.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		protected.GET("/auth/profile", h.Auth.Profile)

		invoices := protected.Group("/invoices")
		{
			invoices.POST("", h.Invoice.Create)
			invoices.GET("", h.Invoice.List)
			invoices.GET("/:id", h.Invoice.Get)
			invoices.PUT("/:id", h.Invoice.Edit)
			invoices.POST("/:id/cancel", h.Invoice.Cancel)
			invoices.GET("/:id/audit", h.Invoice.AuditTrail)
			invoices.GET("/:id/tax-breakdown", h.Invoice.TaxBreakdown)
		}

		drafts := protected.Group("/drafts")
		{
			drafts.POST("", h.DraftCart.Hold)
			drafts.GET("", h.DraftCart.List)
			drafts.GET("/:id", h.DraftCart.Recall)
			drafts.DELETE("/:id", h.DraftCart.Discard)
		}

		products := protected.Group("/products")
		{
			products.POST("", h.Product.Create)
			products.GET("", h.Product.List)
			products.GET("/:id", h.Product.Get)
			products.PUT("/:id", h.Product.Update)
			products.DELETE("/:id", middleware.RequireRole("admin"), h.Product.Delete)
		}

		customers := protected.Group("/customers")
		{
			customers.POST("", h.Customer.Create)
			customers.GET("", h.Customer.List)
			customers.GET("/:id", h.Customer.Get)
			customers.PUT("/:id", h.Customer.Update)
			customers.DELETE("/:id", middleware.RequireRole("admin"), h.Customer.Delete)
		}

		purchases := protected.Group("/purchases")
		{
			purchases.POST("", h.Purchase.Create)
			purchases.GET("", h.Purchase.List)
			purchases.GET("/:id", h.Purchase.Get)
			purchases.POST("/:id/receive", middleware.RequireRole("admin"), h.Purchase.Receive)
		}
	}

	return router
}
