package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/config"
)

// ConnectMongo creates the process-wide client with registry and pings the primary.
// The returned client is safe for concurrent use.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig, registry *bson.Registry, log *zap.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetRegistry(registry).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info("connected to mongo", zap.String("database", cfg.Database))
	return client, nil
}

// PingMongo reports whether the primary is reachable.
func PingMongo(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}
