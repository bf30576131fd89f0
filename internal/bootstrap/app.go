package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"insights-backend/internal/insights"
	"insights-backend/internal/pdftext"
	"insights-backend/internal/services/health"
	"insights-backend/internal/shared/auth"
	"insights-backend/internal/shared/config"
	"insights-backend/internal/shared/server"
	"insights-backend/internal/shared/server/middleware"
	"insights-backend/internal/shared/storage/db"
	"insights-backend/internal/shared/storage/mongostore"
	"insights-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	Store          Store
	InsightService *insights.Service
	InsightHandler *insights.Handler
	Health         *health.Service
	Signer         *auth.Signer
}

// Store is an opened insights backend and the hook that releases it.
type Store struct {
	Name  string
	Repo  insights.Repo
	Close func(ctx context.Context) error
}

// Build opens the configured store and wires services, handlers and routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.IsProduction())
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg, db.DefaultServerOptions())
	if err != nil {
		return nil, err
	}

	svc := NewInsightService(cfg, store.Repo, pdftext.NewExtractor())
	app := &App{
		Config:         cfg,
		Store:          store,
		InsightService: svc,
		InsightHandler: insights.NewHandler(svc, insights.Intake{MaxBytes: cfg.MaxUploadBytes}, cfg.IsProduction()),
		Health:         health.NewService(store.Name, svc),
		Signer:         signer,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		InsightHandler: app.InsightHandler,
		Health:         app.Health,
		Verifier:       signer,
		RateLimiter:    middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases the store.
func (a *App) Close(ctx context.Context) error {
	if a == nil || a.Store.Close == nil {
		return nil
	}
	return a.Store.Close(ctx)
}

// NewInsightService builds the ingestion service with configured defaults.
func NewInsightService(cfg config.Config, repo insights.Repo, extractor pdftext.Extractor) *insights.Service {
	return &insights.Service{
		Repo:      repo,
		Extractor: extractor,
		Defaults:  cfg.InsightDefaults(),
	}
}

// OpenStore connects to the backend named by cfg.Store. In dev-like
// environments a failed connection degrades to the in-memory store.
func OpenStore(ctx context.Context, cfg config.Config, dbOpts db.Options) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Store {
	case "postgres":
		store, err = openPostgres(ctx, cfg, dbOpts)
	case "mongo":
		store, err = openMongo(ctx, cfg)
	default:
		return memoryStore(), nil
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.store.fallback", map[string]any{
				"store": cfg.Store,
				"error": err.Error(),
			})
			return memoryStore(), nil
		}
		return Store{}, err
	}
	telemetry.Info("bootstrap.store.ready", map[string]any{"store": store.Name})
	return store, nil
}

func openPostgres(ctx context.Context, cfg config.Config, dbOpts db.Options) (Store, error) {
	if cfg.DatabaseURL == "" {
		return Store{}, errors.New("DATABASE_URL is required for STORE=postgres")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(dbOpts))
	if err != nil {
		return Store{}, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return Store{}, fmt.Errorf("run migrations: %w", err)
	}
	return Store{
		Name: "postgres",
		Repo: &insights.PGRepo{DB: sqlDB},
		Close: func(context.Context) error {
			return sqlDB.Close()
		},
	}, nil
}

func openMongo(ctx context.Context, cfg config.Config) (Store, error) {
	database, err := mongostore.Connect(ctx, cfg.MongoURI, mongostore.DefaultOptions(cfg.MongoDatabase))
	if err != nil {
		return Store{}, err
	}
	repo := insights.NewMongoRepo(database)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = mongostore.Disconnect(ctx, database)
		return Store{}, fmt.Errorf("ensure indexes: %w", err)
	}
	return Store{
		Name: "mongo",
		Repo: repo,
		Close: func(ctx context.Context) error {
			return mongostore.Disconnect(ctx, database)
		},
	}, nil
}

func memoryStore() Store {
	return Store{
		Name:  "memory",
		Repo:  insights.NewMemoryRepo(),
		Close: func(context.Context) error { return nil },
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
