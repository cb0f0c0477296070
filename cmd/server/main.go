package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/rustdonate/internal/api"
	"github.com/mcoot/rustdonate/internal/config"
	"github.com/mcoot/rustdonate/internal/factory"
	"github.com/mcoot/rustdonate/internal/services/orders"
	"github.com/mcoot/rustdonate/internal/services/steam"
	redisstorage "github.com/mcoot/rustdonate/internal/storage/redis"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap logger until the configured level is known
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	conf, err := config.Load(logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return 1
	}

	level, _ := conf.SlogLevel()
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:        logger,
		StorageType:   conf.Storage,
		StatePath:     conf.StateFile,
		LookupURL:     conf.ResolvedLookupURL(),
		LookupTimeout: conf.LookupTimeout,
		OfflineLogin:  conf.OfflineLogin,
		Ledger:        orders.LedgerConfig{Delay: conf.FulfillmentDelay},
		Steam: steam.Config{
			APIKey:    conf.SteamAPIKey,
			BaseURL:   conf.SteamAPIURL,
			RateLimit: conf.SteamRateLimit,
		},
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = conf.RedisURL
		redisCfg.KeyPrefix = conf.RedisKeyPrefix
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return 1
	}
	app.Start()

	// Bring back the identity saved by a previous run
	state := app.Sessions.Restore(context.Background())
	logger.Info("session restored", slog.String("status", string(state.Status)))

	if !app.Steam.Configured() {
		logger.Warn("STEAM_API_KEY not set, steam profile lookups will fail")
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Catalog:      app.Catalog,
		Sessions:     app.Sessions,
		Ledger:       app.Ledger,
		Hub:          app.Hub,
		Steam:        app.Steam,
		Gatherer:     app.Registry,
		RecentOrders: conf.RecentOrders,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = conf.Host
	serverConfig.Port = conf.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Event streams only end when the hub closes
		app.Hub.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	if err := app.Close(); err != nil {
		exitCode = 1
	}

	logger.Info("server stopped")
	return exitCode
}
