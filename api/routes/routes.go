package routes

import (
	"github.com/ArowuTest/callops-backend/internal/config"
	"github.com/ArowuTest/callops-backend/internal/handlers"
	"github.com/ArowuTest/callops-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies bundles the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler   *handlers.AuthHandler
	NumberHandler *handlers.NumberHandler
	CallHandler   *handlers.CallHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	// Protected routes: any authenticated caller
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		numbers := protected.Group("/numbers")
		{
			numbers.GET("/area-codes", deps.NumberHandler.ListAvailableAreaCodes)
			numbers.GET("/stats", deps.NumberHandler.GetStats)
			numbers.GET("/:number", deps.NumberHandler.GetNumber)
			numbers.PUT("/:number", deps.NumberHandler.UpdateNumber)
			numbers.POST("/assign", deps.NumberHandler.AssignNumbers)
			numbers.POST("/assign/quick", deps.NumberHandler.QuickAssign)
		}

		calls := protected.Group("/calls")
		{
			calls.POST("", deps.CallHandler.StartCall)
			calls.PUT("/:id/complete", deps.CallHandler.CompleteCall)
			calls.DELETE("/:id", deps.CallHandler.DeleteCall)
			calls.GET("/number/:number", deps.CallHandler.GetCallsForNumber)
			calls.GET("/user/:userId", deps.CallHandler.GetCallsForUser)
		}
	}

	// Admin routes: pool mutation and account management
	admin := router.Group("/api/v1")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.AdminOnly())
	{
		admin.POST("/auth/register", deps.AuthHandler.Register)

		numbers := admin.Group("/numbers")
		{
			numbers.POST("", deps.NumberHandler.CreateNumber)
			numbers.POST("/bulk", deps.NumberHandler.BulkCreate)
			numbers.PUT("/:number/reset", deps.NumberHandler.ResetNumber)
			numbers.DELETE("/area-code/:areaCode", deps.NumberHandler.BulkDeleteByAreaCode)
			numbers.DELETE("/:number", deps.NumberHandler.DeleteNumber)
		}
	}

	return router
}
