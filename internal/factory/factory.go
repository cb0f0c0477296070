package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mcoot/rustdonate/internal/catalog"
	"github.com/mcoot/rustdonate/internal/dependencies/clock"
	"github.com/mcoot/rustdonate/internal/metrics"
	"github.com/mcoot/rustdonate/internal/notify"
	"github.com/mcoot/rustdonate/internal/services/lookup"
	"github.com/mcoot/rustdonate/internal/services/orders"
	"github.com/mcoot/rustdonate/internal/services/session"
	"github.com/mcoot/rustdonate/internal/services/steam"
	"github.com/mcoot/rustdonate/internal/sse"
	"github.com/mcoot/rustdonate/internal/storage"
	filestorage "github.com/mcoot/rustdonate/internal/storage/file"
	"github.com/mcoot/rustdonate/internal/storage/memory"
	redisstorage "github.com/mcoot/rustdonate/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeFile   = "file"
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Lookup lookup.Lookup

	// Services
	Catalog  *catalog.Catalog
	Sessions *session.Manager
	Ledger   *orders.Ledger
	Steam    *steam.Service
	Hub      *sse.Hub

	// Metrics
	Registry *prometheus.Registry
	Metrics  *metrics.Collector

	logger  *slog.Logger
	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the identity storage backend ("file", "memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// StatePath is the file backend's state file. If empty, filestorage.DefaultPath() is used.
	StatePath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// LookupURL is the identity lookup endpoint. If empty, or if OfflineLogin
	// is set, login resolves every candidate to lookup.DefaultStaticIdentity.
	LookupURL     string
	LookupTimeout time.Duration
	OfflineLogin  bool
	// Ledger holds order fulfillment settings
	// If zero value, defaults to orders.DefaultLedgerConfig()
	Ledger orders.LedgerConfig
	// Steam configures the Steam profile backend
	Steam steam.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var closers []io.Closer

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeFile:
		path := cfg.StatePath
		if path == "" {
			path = filestorage.DefaultPath()
		}
		store = filestorage.New(path)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'file', 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()

	var idLookup lookup.Lookup
	if cfg.OfflineLogin || cfg.LookupURL == "" {
		logger.Warn("identity lookup disabled, logins resolve to a fixed identity")
		idLookup = lookup.NewStatic()
	} else {
		idLookup = lookup.NewClient(cfg.LookupURL, &http.Client{Timeout: cfg.LookupTimeout}, logger)
	}

	ledgerCfg := cfg.Ledger
	if ledgerCfg.Delay == 0 {
		ledgerCfg = orders.DefaultLedgerConfig()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := newWithDependencies(store, idLookup, clk, ledgerCfg, cfg.Steam, registry, logger)
	app.closers = append(app.closers, closers...)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, idLookup lookup.Lookup, clk clock.Clock, ledgerCfg orders.LedgerConfig, steamCfg steam.Config, registry *prometheus.Registry, logger *slog.Logger) *App {
	collector := metrics.NewCollector(registry)
	hub := sse.NewHub(logger)
	notifier := notify.Multi{notify.NewLogNotifier(logger), hub}

	sessions := session.New(store, idLookup, clk, logger, collector)
	ledger := orders.NewLedger(ledgerCfg, orders.NewSimulatedDeliverer(logger), notifier, clk, logger, collector)
	steamService := steam.NewService(steamCfg, &http.Client{Timeout: 10 * time.Second}, logger, collector)

	return &App{
		Storage:  store,
		Clock:    clk,
		Lookup:   idLookup,
		Catalog:  catalog.Default(),
		Sessions: sessions,
		Ledger:   ledger,
		Steam:    steamService,
		Hub:      hub,
		Registry: registry,
		Metrics:  collector,
		logger:   logger,
	}
}

// Start launches background loops. Call Close to stop them.
func (a *App) Start() {
	go a.Hub.Run()
}

// Close stops fulfillment, disconnects event streams and releases storage
func (a *App) Close() error {
	var errs []error
	if err := a.Ledger.Close(); err != nil {
		errs = append(errs, err)
	}
	a.Hub.Close()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Error("error closing application", slog.Any("error", err))
		return err
	}
	return nil
}
