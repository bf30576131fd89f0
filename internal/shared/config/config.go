package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"

	"insights-backend/internal/insights"
)

const (
	defaultCategory      = insights.DefaultCategory
	defaultFeaturedImage = insights.DefaultFeaturedImage
	defaultAuthor        = insights.DefaultAuthor
	defaultMaxUpload     = insights.DefaultMaxUploadBytes
)

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	LogLevel         string
	CORSAllowOrigin  []string
	Store            string
	DatabaseURL      string
	MongoURI         string
	MongoDatabase    string
	JWTSecret        string
	MaxUploadBytes   int64
	DefaultCategory  string
	DefaultImage     string
	DefaultAuthor    string
	UploadRatePerSec float64
	UploadRateBurst  int
}

// Load reads configuration from .env files, an optional YAML file named by
// CONFIG_FILE, and environment variables. Environment variables win.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("config: failed to read %s: %v", path, err)
		}
	}

	env := normalizeEnv(v.GetString("ENV"))
	cfg := Config{
		Port:             v.GetString("PORT"),
		Env:              env,
		LogLevel:         v.GetString("LOG_LEVEL"),
		CORSAllowOrigin:  splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		Store:            normalizeStore(v.GetString("STORE")),
		DatabaseURL:      strings.TrimSpace(v.GetString("DATABASE_URL")),
		MongoURI:         strings.TrimSpace(v.GetString("MONGODB_URI")),
		MongoDatabase:    v.GetString("MONGODB_DATABASE"),
		JWTSecret:        strings.TrimSpace(v.GetString("JWT_SECRET")),
		MaxUploadBytes:   v.GetInt64("MAX_UPLOAD_BYTES"),
		DefaultCategory:  v.GetString("DEFAULT_CATEGORY"),
		DefaultImage:     v.GetString("DEFAULT_FEATURED_IMAGE"),
		DefaultAuthor:    v.GetString("DEFAULT_AUTHOR"),
		UploadRatePerSec: v.GetFloat64("UPLOAD_RATE_PER_SEC"),
		UploadRateBurst:  v.GetInt("UPLOAD_RATE_BURST"),
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}

	if env == "production" && cfg.JWTSecret == "" {
		log.Printf("JWT_SECRET is required in production")
	}
	if cfg.Store == "postgres" && cfg.DatabaseURL == "" {
		log.Printf("STORE=postgres but DATABASE_URL is empty")
	}
	if cfg.Store == "mongo" && cfg.MongoURI == "" {
		log.Printf("STORE=mongo but MONGODB_URI is empty")
	}

	return cfg
}

// InsightDefaults returns the values substituted for fields a PDF upload leaves empty.
func (c Config) InsightDefaults() insights.Defaults {
	d := insights.Defaults{
		Category:      strings.TrimSpace(c.DefaultCategory),
		FeaturedImage: strings.TrimSpace(c.DefaultImage),
		Author:        strings.TrimSpace(c.DefaultAuthor),
	}
	if d.Category == "" {
		d.Category = defaultCategory
	}
	if d.FeaturedImage == "" {
		d.FeaturedImage = defaultFeaturedImage
	}
	if d.Author == "" {
		d.Author = defaultAuthor
	}
	return d
}

// IsProduction reports whether stack traces and dev fallbacks must be suppressed.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("STORE", "memory")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MONGODB_URI", "")
	v.SetDefault("MONGODB_DATABASE", "insights")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("MAX_UPLOAD_BYTES", defaultMaxUpload)
	v.SetDefault("DEFAULT_CATEGORY", defaultCategory)
	v.SetDefault("DEFAULT_FEATURED_IMAGE", defaultFeaturedImage)
	v.SetDefault("DEFAULT_AUTHOR", defaultAuthor)
	v.SetDefault("UPLOAD_RATE_PER_SEC", 0.2)
	v.SetDefault("UPLOAD_RATE_BURST", 5)
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "mongo", "mongodb":
		return "mongo"
	default:
		return "memory"
	}
}
