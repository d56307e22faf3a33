package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/config"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/database"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	routeDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/route"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/vehicle"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/repository"
)

// storage holds the repositories of the configured backend.
type storage struct {
	routes   domain.Repository[*routeDomain.Route]
	vehicles domain.Repository[*vehicleDomain.Vehicle]
	ping     handler.PingFunc
	close    func()
}

func openStorage(ctx context.Context, cfg *config.ServiceConfig, log *zap.Logger) (*storage, error) {
	routeOpts := []repository.Option{repository.WithCollection(cfg.RouteCollection)}
	vehicleOpts := []repository.Option{repository.WithCollection(cfg.VehicleCollection)}

	switch cfg.StorageBackend {
	case config.BackendMongo:
		registry := repository.NewRegistry()
		client, err := database.ConnectMongo(ctx, cfg.Mongo, registry, log)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		return &storage{
			routes:   repository.NewMongoRepository[*routeDomain.Route, repository.RouteDocument](db, repository.RouteMapper{}, routeOpts...),
			vehicles: repository.NewMongoRepository[*vehicleDomain.Vehicle, repository.VehicleDocument](db, repository.VehicleMapper{}, vehicleOpts...),
			ping:     func(ctx context.Context) error { return database.PingMongo(ctx, client) },
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Error("failed to disconnect mongo", zap.Error(err))
				}
			},
		}, nil

	case config.BackendPostgres:
		db, err := database.ConnectPostgres(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		if err := database.MigratePostgres(db); err != nil {
			_ = database.ClosePostgres(db)
			return nil, err
		}
		log.Info("database migration completed")

		registry := repository.NewRegistry()
		return &storage{
			routes:   repository.NewGormRepository[*routeDomain.Route, repository.RouteDocument](db, registry, repository.RouteMapper{}, routeOpts...),
			vehicles: repository.NewGormRepository[*vehicleDomain.Vehicle, repository.VehicleDocument](db, registry, repository.VehicleMapper{}, vehicleOpts...),
			ping:     func(ctx context.Context) error { return database.PingPostgres(ctx, db) },
			close: func() {
				if err := database.ClosePostgres(db); err != nil {
					log.Error("failed to close postgres", zap.Error(err))
				}
			},
		}, nil

	case config.BackendMemory:
		log.Warn("using in-memory storage; data is lost on restart")
		return &storage{
			routes:   repository.NewMemoryRepository[*routeDomain.Route, repository.RouteDocument](repository.RouteMapper{}, routeOpts...),
			vehicles: repository.NewMemoryRepository[*vehicleDomain.Vehicle, repository.VehicleDocument](repository.VehicleMapper{}, vehicleOpts...),
			close:    func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
