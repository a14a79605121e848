package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"muhasib-api/internal/middleware"
	"muhasib-api/internal/services"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	OCRService      services.OCRService
	WaitlistService services.WaitlistService
	AdminAPIKey     string
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	ocrHandler := NewOCRHandler(config.OCRService)
	waitlistHandler := NewWaitlistHandler(config.WaitlistService)

	// The public endpoints are POST-only; answer other verbs with 405
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: msgMethodNotAllowed})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "muhasib-api",
			"version": "1.0.0",
		})
	})

	api := router.Group("/api")
	{
		api.POST("/ocr", ocrHandler.ProcessImage)
		api.POST("/waitlist", waitlistHandler.Join)

		// Admin listing, gated by API key
		admin := api.Group("")
		admin.Use(middleware.APIKeyAuth(config.AdminAPIKey))
		{
			admin.GET("/waitlist", waitlistHandler.List)
		}
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine) {
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestLogger())

	// Matches the 10MB body limit of the public upload contract
	router.Use(middleware.RequestSizeLimit(10 * 1024 * 1024))
}
