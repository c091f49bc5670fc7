package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/network", handler.GetNetwork)

		// Batch reads (public)
		v1.GET("/batches", handler.ListBatches)
		v1.GET("/batches/:id", handler.GetBatch)
		v1.GET("/batches/:id/history", handler.GetHistory)
		v1.GET("/batches/:id/progress", handler.GetProgress)
		v1.GET("/batches/:id/quantities", handler.GetQuantities)

		// Ledger writes (requires authentication when any credential is configured)
		v1.POST("/batches", middleware.Auth(authCfg), handler.CreateBatch)
		v1.POST("/batches/:id/hops", middleware.Auth(authCfg), handler.PerformHop)
	}
}
