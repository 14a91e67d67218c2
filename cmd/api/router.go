package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edunews-backend/internal/shared/middleware"
	"edunews-backend/internal/shared/response"
	"edunews-backend/pkg/container"
)

func setupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupPostRoutes(v1, c)

		v1.GET("/categories", c.PostHandler.Categories)
	}

	return router
}

func setupPostRoutes(v1 *gin.RouterGroup, c *container.Container) {
	posts := v1.Group("/posts")
	{
		// Public feeds
		posts.GET("", c.PostHandler.Feed)
		posts.GET("/latest", c.PostHandler.Latest)
		posts.GET("/category/:category", c.PostHandler.ByCategory)

		// Authenticated
		auth := middleware.Auth(c.JWTManager)
		posts.POST("", auth, c.PostHandler.Create)
		posts.GET("/mine", auth, c.PostHandler.MyPosts)
		posts.PUT("/:id", auth, c.PostHandler.Update)
		posts.DELETE("/:id", auth, c.PostHandler.Delete)

		posts.GET("/:id", c.PostHandler.Get)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{
			"status":   "ok",
			"database": "ok",
			"cache":    "ok",
		}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			status["cache"] = err.Error()
		}

		if status["status"] != "ok" {
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}
		response.Success(ctx, http.StatusOK, status)
	}
}
