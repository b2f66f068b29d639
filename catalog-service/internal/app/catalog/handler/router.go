package handler

import (
	"net/http"

	"web3dir/pkg/auth"
	"web3dir/pkg/logger"
	"web3dir/pkg/metrics"
	"web3dir/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes настраивает все маршруты Catalog Service с использованием Gin.
// Каталог и подборки публичные, запись каталога только для manager и admin
func SetupRoutes(
	catalogHandler *CatalogHandler,
	savedHandler *SavedHandler,
	authMiddleware *auth.Middleware,
	toggleLimiter *ratelimit.KeyedLimiter,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Products: чтение доступно анонимам, токен если есть - разбирается
	products := router.Group("/products")
	products.Use(authMiddleware.OptionalAuthenticate())
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:id", catalogHandler.GetProduct)
		products.GET("/:id/detail", savedHandler.GetProductDetail)
		products.POST("/:id/save", toggleLimiter.Middleware(ratelimit.UserOrIP), savedHandler.ToggleSave)

		products.POST("", authMiddleware.RequireRole("manager", "admin"), catalogHandler.CreateProduct)
		products.PUT("/:id", authMiddleware.RequireRole("manager", "admin"), catalogHandler.UpdateProduct)
		products.DELETE("/:id", authMiddleware.RequireRole("admin"), catalogHandler.DeleteProduct)
	}

	lists := router.Group("/lists")
	{
		lists.GET("", catalogHandler.GetCuratedLists)
		lists.GET("/:id", catalogHandler.GetCuratedList)
		lists.GET("/:id/products", catalogHandler.GetCuratedListProducts)
	}

	me := router.Group("/me")
	me.Use(authMiddleware.Authenticate())
	{
		me.GET("/saved", savedHandler.GetSaved)
	}

	return router
}
