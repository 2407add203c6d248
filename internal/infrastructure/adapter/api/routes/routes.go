package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/api/handler"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	withdrawalHandler *handler.WithdrawalHandler,
	healthHandler *handler.HealthHandler,
) {
	router.GET("/health", healthHandler.Check)

	withdrawalRoutes := router.Group("/withdrawals")
	{
		// POST /withdrawals
		withdrawalRoutes.POST("", withdrawalHandler.Create)

		// GET /withdrawals?status=&limit=
		withdrawalRoutes.GET("", withdrawalHandler.List)

		// GET /withdrawals/:id
		withdrawalRoutes.GET("/:id", withdrawalHandler.Get)

		// POST /withdrawals/:id/approve
		withdrawalRoutes.POST("/:id/approve", withdrawalHandler.Approve)

		// POST /withdrawals/:id/reject
		withdrawalRoutes.POST("/:id/reject", withdrawalHandler.Reject)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
