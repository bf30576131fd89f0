// Package mongostore opens MongoDB connections for the document-store backend.
package mongostore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"insights-backend/internal/shared/telemetry"
)

// Options controls connection behavior.
type Options struct {
	Database       string
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
	MaxPoolSize    uint64
}

// DefaultOptions returns defaults for the API server.
func DefaultOptions(database string) Options {
	return Options{
		Database:       database,
		ConnectTimeout: 10 * time.Second,
		PingTimeout:    5 * time.Second,
		MaxPoolSize:    20,
	}
}

// Connect opens a client for uri, verifies it with a ping and returns the
// configured database. Callers disconnect the database's client on shutdown.
func Connect(ctx context.Context, uri string, opts Options) (*mongo.Database, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("MONGODB_URI is empty")
	}
	if strings.TrimSpace(opts.Database) == "" {
		return nil, fmt.Errorf("mongo database name is empty")
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(opts.ConnectTimeout).
		SetBSONOptions(&options.BSONOptions{ObjectIDAsHexString: true})
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	telemetry.Info("mongo.init", map[string]any{"database": opts.Database})
	return client.Database(opts.Database), nil
}

// Disconnect closes the client behind database.
func Disconnect(ctx context.Context, database *mongo.Database) error {
	if database == nil {
		return nil
	}
	return database.Client().Disconnect(ctx)
}
