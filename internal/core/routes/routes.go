package routes

import (
	"log"
	"os"
	"time"

	"giftforms/internal/core/container"
	"giftforms/internal/middleware"
	"giftforms/internal/rate_limiter"
	"giftforms/pkg/security"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes exposes everything reachable without a token: login,
// registration, the shared form view and response submission. Submissions
// get their own rate limit since respondents are anonymous.
func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
	container.UserHandler.RegisterPublicRoutes(router)
	container.FormHandler.RegisterPublicRoutes(router)

	submitLimiter := rate_limiter.NewRateLimiter(30, time.Minute)
	container.ResponseHandler.RegisterPublicRoutes(router, middleware.RateLimitMiddleware(submitLimiter))
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.UserHandler.RegisterRoutes(protectedRoutes)
	container.FormHandler.RegisterOwnerRoutes(protectedRoutes)
	container.ItemHandler.RegisterOwnerRoutes(protectedRoutes)
	container.ResponseHandler.RegisterOwnerRoutes(protectedRoutes)
	container.AnalyticsHandler.RegisterRoutes(protectedRoutes)

	if container.SheetsHandler != nil {
		container.SheetsHandler.RegisterRoutes(protectedRoutes)
	}
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())

	openapiFilePath := "./docs/index.html"
	if _, err := os.Stat(openapiFilePath); err == nil {
		router.GET("/openapi.html", func(c *gin.Context) {
			c.File(openapiFilePath)
		})
		log.Println("Route docs/index.html registered successfully.")
	} else {
		log.Printf("Warning: %s not found. Route /openapi.html will not be registered.\n", openapiFilePath)
	}
}
