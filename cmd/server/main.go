// Package main is the entry point for the wows catalogue server.
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
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shimizu-Technology/wows-catalog/internal/config"
	"github.com/Shimizu-Technology/wows-catalog/internal/database"
	"github.com/Shimizu-Technology/wows-catalog/internal/handlers"
	"github.com/Shimizu-Technology/wows-catalog/internal/logger"
	"github.com/Shimizu-Technology/wows-catalog/internal/metrics"
	"github.com/Shimizu-Technology/wows-catalog/internal/middleware"
	"github.com/Shimizu-Technology/wows-catalog/internal/router"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/accounts"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wows: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Step 1: Load Configuration (.env first, then the environment)
	dotenvErr := godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Service: "wows",
		Level:   logger.ParseLevel(cfg.LogLevel),
		Format:  cfg.LogFormat,
	})
	if dotenvErr != nil {
		log.Debug(ctx, ".env file not found, relying on environment")
	}
	log.Event(ctx, zerolog.InfoLevel).
		Str("version", Version).
		Str("port", cfg.Port).
		Str("gin_mode", cfg.GinMode).
		Str("session_backend", cfg.SessionBackend).
		Msg("starting wows catalogue")

	gin.SetMode(cfg.GinMode)

	// Step 2: Connect to Database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info(ctx, "database connected")

	if cfg.Migrations {
		version, applied, err := db.RunMigrations()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Event(ctx, zerolog.InfoLevel).Uint("version", version).Bool("applied", applied).Msg("schema is current")
	}

	// Step 3: Create Services
	acct := accounts.New(db, bcrypt.DefaultCost)
	if cfg.BootstrapAdmin {
		if _, err := acct.Bootstrap(ctx, log.Zerolog(), accounts.BootstrapOptions{
			Username: cfg.BootstrapAdminUser,
			Password: cfg.BootstrapAdminPassword,
			Release:  cfg.Release(),
		}); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	store, closeStore, err := sessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, err := session.NewManager(store, session.Options{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: cfg.Release(),
	})
	if err != nil {
		return err
	}

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit)
	defer loginLimiter.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Step 4: Setup HTTP Router
	h, err := handlers.NewHandler(handlers.Deps{
		DB:            db,
		Accounts:      acct,
		Sessions:      sessions,
		Log:           log,
		Metrics:       metrics.New(reg),
		SecureCookies: cfg.Release(),
	})
	if err != nil {
		return err
	}
	r := router.Setup(h, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		LoginLimiter:   loginLimiter,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	// Step 5: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "server listening on http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Step 6: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info(ctx, fmt.Sprintf("received signal %v, shutting down gracefully", sig))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server forced to shutdown", err)
	}

	log.Info(ctx, "server stopped")
	return nil
}

// sessionStore builds the configured session backend and its cleanup func.
func sessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionBackend == config.SessionBackendRedis {
		client, err := session.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, session.DefaultKeyPrefix), func() { _ = client.Close() }, nil
	}
	mem := session.NewMemoryStore(5 * time.Minute)
	return mem, mem.Close, nil
}
