package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/application"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/config"
	routeDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/route"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/vehicle"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/events"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/logger"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/middleware"
)

const serviceName = "service-transit"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.StorageBackend),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the storage backend
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open storage", zap.Error(err))
	}
	defer store.close()

	var (
		routeOpts   []application.ServiceOption[*routeDomain.Route]
		vehicleOpts []application.ServiceOption[*vehicleDomain.Vehicle]
	)

	// Initialize Kafka producer
	if cfg.Kafka.Enabled() {
		producer := events.NewProducer(cfg.Kafka.Brokers, log)
		defer func() { _ = producer.Close() }()

		routeOpts = append(routeOpts, application.WithPublisher[*routeDomain.Route](producer, events.Topic(cfg.Kafka.TopicPrefix, "route")))
		vehicleOpts = append(vehicleOpts, application.WithPublisher[*vehicleDomain.Vehicle](producer, events.Topic(cfg.Kafka.TopicPrefix, "vehicle")))
		log.Info("change events enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	} else {
		log.Info("no kafka brokers configured; change events disabled")
	}

	// Initialize application services
	routeService := application.NewRouteService(store.routes, log, routeOpts...)
	vehicleService := application.NewVehicleService(store.vehicles, log, vehicleOpts...)

	// Start audit consumers in goroutines
	if cfg.Kafka.Enabled() && cfg.Kafka.AuditGroup != "" {
		for _, name := range []string{routeService.Name(), vehicleService.Name()} {
			topic := events.Topic(cfg.Kafka.TopicPrefix, name)
			consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.AuditGroup, topic, log)
			defer func() { _ = consumer.Close() }()

			go func() {
				log.Info("starting change event consumer", zap.String("topic", topic))
				if err := consumer.Consume(ctx, events.LogHandler(log)); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("change event consumer error", zap.String("topic", topic), zap.Error(err))
				}
			}()
		}
	}

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	// Register routes
	handler.NewHealthHandler(serviceName, cfg.StorageBackend, store.ping).RegisterRoutes(router)
	handler.NewRouteHandler(routeService).RegisterRoutes(&router.RouterGroup)
	handler.NewVehicleHandler(vehicleService).RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Stop the consumers
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
