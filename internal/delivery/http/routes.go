package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/kazen/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.PerIP > 0 {
		limiter := NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)
		router.Use(RateLimitMiddleware(limiter))
	}

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HealthCheck)

		v1.GET("/products", handler.ListProducts)
		v1.GET("/products/:id", handler.GetProduct)
		v1.GET("/stores", handler.ListStores)
		v1.GET("/stores/:id", handler.GetStore)
		v1.GET("/prices", handler.GetPrices)

		lists := v1.Group("/lists/:listId")
		{
			lists.GET("", handler.GetList)
			lists.DELETE("", handler.ClearList)
			lists.POST("/items", handler.AddItem)
			lists.PATCH("/items/:productId", handler.UpdateItem)
			lists.DELETE("/items/:productId", handler.RemoveItem)
			lists.GET("/comparison", handler.CompareList)
			lists.GET("/quote", handler.Quote)
		}

		v1.POST("/compare", handler.CompareItems)

		admin := v1.Group("/admin")
		{
			admin.POST("/products", handler.CreateProduct)
			admin.PUT("/products/:id", handler.UpdateProduct)
			admin.DELETE("/products/:id", handler.DeleteProduct)
			admin.GET("/categories", handler.Categories)
			admin.GET("/brands", handler.Brands)

			admin.POST("/stores", handler.CreateStore)
			admin.PUT("/stores/:id", handler.UpdateStore)
			admin.DELETE("/stores/:id", handler.DeleteStore)

			admin.POST("/prices/import", handler.ImportPrices)
			admin.GET("/prices/:productId", handler.GetProductPrices)
			admin.PUT("/prices/:productId", handler.SetProductPrices)

			admin.GET("/analytics", handler.Analytics)
		}
	}

	return router
}
