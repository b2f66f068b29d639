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

// SetupRoutes настраивает маршруты Reviews Service.
// Чтение отзывов публичное, запись и жалобы по токену, модерация для admin и moderator
func SetupRoutes(
	reviewHandler *ReviewHandler,
	moderationHandler *ModerationHandler,
	authMiddleware *auth.Middleware,
	writeLimiter *ratelimit.KeyedLimiter,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("reviews-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "reviews-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := writeLimiter.Middleware(ratelimit.UserOrIP)

	reviews := router.Group("/reviews")
	{
		reviews.GET("/product/:product_id", reviewHandler.GetReviewsByProduct)
		reviews.GET("/:review_id", reviewHandler.GetReview)

		reviews.POST("", authMiddleware.Authenticate(), limited, reviewHandler.CreateReview)
		reviews.PATCH("/:review_id", authMiddleware.Authenticate(), reviewHandler.UpdateReview)
		reviews.DELETE("/:review_id", authMiddleware.Authenticate(), reviewHandler.DeleteReview)
		reviews.POST("/:review_id/flag", authMiddleware.Authenticate(), limited, reviewHandler.FlagReview)
	}

	me := router.Group("/me")
	me.Use(authMiddleware.Authenticate())
	{
		me.GET("/reviews", reviewHandler.GetMyReviews)
	}

	moderation := router.Group("/admin/moderation/flags")
	moderation.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole("admin", "moderator"))
	{
		moderation.GET("", moderationHandler.ListFlagged)
		moderation.GET("/:flag_id", moderationHandler.View)
		moderation.PATCH("/:flag_id", moderationHandler.Edit)
		moderation.POST("/:flag_id/approve", moderationHandler.Approve)
		moderation.POST("/:flag_id/reject", moderationHandler.Reject)
	}

	return router
}
