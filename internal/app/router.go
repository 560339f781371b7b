package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"taxilink/internal/handler"
	"taxilink/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	MatchHandler  *handler.MatchHandler
	RouteHandler  *handler.RouteHandler
	DriverHandler *handler.DriverHandler
	RideHandler   *handler.RideHandler
	UserHandler   *handler.UserHandler
	StreamHandler *handler.StreamHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Taxi search.
		v1.POST("/matches/search", deps.MatchHandler.Search)

		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("/:id", deps.UserHandler.GetByID)
			users.PUT("/:id/location", deps.DriverHandler.UpdateLocation)
		}

		// Route routes.
		routes := v1.Group("/routes")
		{
			routes.POST("", deps.RouteHandler.Create)
			routes.GET("", deps.RouteHandler.GetAll)
			routes.GET("/:id", deps.RouteHandler.GetByID)
			routes.GET("/:id/drivers", deps.DriverHandler.ListByRoute)
			routes.PATCH("/:id/active", deps.RouteHandler.SetActive)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/:id", deps.DriverHandler.GetByID)
			drivers.PATCH("/:id/route", deps.DriverHandler.AssignRoute)
			drivers.GET("/:id/stream", deps.StreamHandler.Stream)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.Create)
			rides.GET("/:id", deps.RideHandler.GetByID)
			rides.POST("/:id/monitor", deps.RideHandler.StartMonitoring)
			rides.DELETE("/:id/monitor", deps.RideHandler.StopMonitoring)
			rides.POST("/:id/complete", deps.RideHandler.Complete)
			rides.POST("/:id/cancel", deps.RideHandler.Cancel)
		}
	}

	return router
}
