package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"taxilink/internal/app"
	"taxilink/internal/config"
	"taxilink/internal/handler"
	"taxilink/internal/matching"
	"taxilink/internal/proximity"
	internalRedis "taxilink/internal/redis"
	"taxilink/internal/repository/postgres"
	"taxilink/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, monitorService := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	// Active monitors stop after in-flight requests drain; their ride
	// locks lapse on TTL so another instance can pick the rides up.
	monitorService.Close()

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus
// the monitor service, which needs an explicit Close on shutdown.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.MonitorService) {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	routeRepo := postgres.NewRouteRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	driverRegistrar := postgres.NewDriverRegistrar(db)

	// Initialize proximity monitoring.
	notificationService := service.NewNotificationService()
	coordinator := proximity.NewCoordinator(notificationService, proximity.Config{
		CheckInterval:   cfg.Proximity.CheckInterval,
		AverageSpeedKmh: cfg.Proximity.AverageSpeedKmh,
	})
	monitorService := service.NewMonitorService(rideRepo, locationStore, lockStore, coordinator)

	// Initialize services.
	matchCfg := matching.Config{
		MaxOriginDistanceKm:      cfg.Matching.MaxOriginDistanceKm,
		MaxDestinationDistanceKm: cfg.Matching.MaxDestinationDistanceKm,
		MaxTaxiDistanceKm:        cfg.Matching.MaxTaxiDistanceKm,
		MaxResults:               cfg.Matching.MaxResults,
	}
	matchService := service.NewMatchService(routeRepo, driverRepo, vehicleRepo, userRepo, locationStore, cacheStore, matchCfg)
	routeService := service.NewRouteService(routeRepo, cacheStore)
	driverService := service.NewDriverService(driverRepo, driverRegistrar, locationStore, cacheStore, monitorService)
	rideService := service.NewRideService(rideRepo, userRepo)

	// Initialize handlers.
	matchHandler := handler.NewMatchHandler(matchService)
	routeHandler := handler.NewRouteHandler(routeService)
	driverHandler := handler.NewDriverHandler(driverService)
	rideHandler := handler.NewRideHandler(rideService, monitorService)
	userHandler := handler.NewUserHandler(userRepo)
	streamHandler := handler.NewStreamHandler(driverService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		MatchHandler:  matchHandler,
		RouteHandler:  routeHandler,
		DriverHandler: driverHandler,
		RideHandler:   rideHandler,
		UserHandler:   userHandler,
		StreamHandler: streamHandler,
		RedisClient:   redisClient,
		NewRelicApp:   nrApp,
	})

	// Create HTTP server.
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return server, monitorService
}
