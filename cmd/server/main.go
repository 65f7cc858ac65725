package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/tmarques/backplan/internal/auth"
	"github.com/tmarques/backplan/internal/config"
	"github.com/tmarques/backplan/internal/handler"
	"github.com/tmarques/backplan/internal/metrics"
	"github.com/tmarques/backplan/internal/middleware"
	"github.com/tmarques/backplan/internal/service"
	"github.com/tmarques/backplan/internal/storage/sqlite"
	"github.com/tmarques/backplan/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	collector := metrics.NewCollector()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		Burst:             cfg.RateLimitBurst,
		CleanupInterval:   middleware.DefaultRateLimiterConfig().CleanupInterval,
	})
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		JWTManager:        jwtManager,
		Collector:         collector,
		RateLimiter:       rateLimiter,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,

		AuthService:    service.NewAuthService(authenticator, store, jwtManager, slog.Default()),
		ProjectService: service.NewProjectService(store),
		FeatureService: service.NewFeatureService(store),
		StoryService:   service.NewStoryService(store),
		TaskService:    service.NewTaskService(store),
	})

	addr := ":" + cfg.Port
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
