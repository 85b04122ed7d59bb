// Package main is the entrypoint for the Recipebox API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/recipebox/recipebox/internal/cache"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/handler"
	"github.com/recipebox/recipebox/internal/metrics"
	"github.com/recipebox/recipebox/internal/middleware"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/server"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/storage"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize image storage
	store, err := initStorage(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("storage ready", "driver", cfg.StorageDriver)

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	attributeService := service.NewAttributeService(repo, metricsRecorder)
	recipeService := service.NewRecipeService(repo, store, cfg.MediaBaseURL, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	attributeHandler := handler.NewAttributeHandler(attributeService, logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, logger, cfg.MaxUploadSize)
	tokenHandler := handler.NewTokenHandler(logger, repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(h, healthHandler, attributeHandler, recipeHandler, tokenHandler, metricsHandler, store, repo, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"media_base_url", cfg.MediaBaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initStorage selects and initializes the configured storage driver.
func initStorage(ctx context.Context, cfg *config.Config) (storage.Driver, error) {
	if cfg.StorageDriver == config.StorageDriverS3 {
		return storage.NewS3(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			KeyPrefix: cfg.S3KeyPrefix,
			AccessID:  cfg.S3AccessID,
			AccessKey: cfg.S3AccessKey,
		})
	}
	return storage.NewLocal(cfg.MediaDir)
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	attributeHandler *handler.AttributeHandler,
	recipeHandler *handler.RecipeHandler,
	tokenHandler *handler.TokenHandler,
	metricsHandler *handler.MetricsHandler,
	store storage.Driver,
	repo *repository.Repository,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Metrics in Prometheus exposition format
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Stored images are served directly when the local driver is active.
	// With S3 the media base URL points at the bucket instead.
	if local, ok := store.(*storage.Local); ok {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(local.BaseDir())))
		r.Get("/media/*", fileServer.ServeHTTP)
	}

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:     logger,
		Repository: repo,
		Cache:      cacheClient,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:     logger,
		Cache:      cacheClient,
		APIEnabled: cfg.RateLimitAPIEnabled,
	}

	// API v1 routes (require authentication)
	r.Route("/api/v1", func(r chi.Router) {
		// Apply auth and rate limit middleware to all API routes
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RateLimitAPI(rateLimitCfg))

		// Tag management (requires write scope for mutations)
		r.Route("/tags", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", attributeHandler.ListTags)
			r.With(middleware.RequireWrite()).Post("/", attributeHandler.CreateTag)
		})

		// Ingredient management
		r.Route("/ingredients", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", attributeHandler.ListIngredients)
			r.With(middleware.RequireWrite()).Post("/", attributeHandler.CreateIngredient)
		})

		// Recipe management
		r.Route("/recipes", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", recipeHandler.List)
			r.With(middleware.RequireRead()).Get("/{id}", recipeHandler.Get)
			r.With(middleware.RequireWrite()).Post("/", recipeHandler.Create)
			r.With(middleware.RequireWrite()).Put("/{id}", recipeHandler.Put)
			r.With(middleware.RequireWrite()).Patch("/{id}", recipeHandler.Patch)
			r.With(middleware.RequireWrite()).Delete("/{id}", recipeHandler.Delete)
			r.With(middleware.RequireWrite()).Post("/{id}/upload-image", recipeHandler.UploadImage)
		})

		// Token management (requires admin scope for mutations)
		r.Route("/tokens", func(r chi.Router) {
			r.With(middleware.RequireRead()).Get("/", tokenHandler.ListTokens)
			r.With(middleware.RequireAdmin()).Post("/", tokenHandler.CreateToken)
			r.With(middleware.RequireAdmin()).Delete("/{token_id}", tokenHandler.RevokeToken)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
