package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/rustdonate/internal/api/handler"
	apimiddleware "github.com/mcoot/rustdonate/internal/api/middleware"
	"github.com/mcoot/rustdonate/internal/catalog"
	"github.com/mcoot/rustdonate/internal/metrics"
	"github.com/mcoot/rustdonate/internal/middleware"
	"github.com/mcoot/rustdonate/internal/services/orders"
	"github.com/mcoot/rustdonate/internal/services/session"
	"github.com/mcoot/rustdonate/internal/services/steam"
	"github.com/mcoot/rustdonate/internal/sse"
)

// DefaultRecentOrders is how many orders GET /orders returns without a limit
const DefaultRecentOrders = 5

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Catalog      *catalog.Catalog
	Sessions     *session.Manager
	Ledger       *orders.Ledger
	Hub          *sse.Hub
	Steam        *steam.Service
	Gatherer     prometheus.Gatherer // nil disables /metrics
	RecentOrders int
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RecentOrders <= 0 {
		cfg.RecentOrders = DefaultRecentOrders
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Create handlers
	catalogHandler := handler.NewCatalogHandler(cfg.Catalog)
	sessionHandler := handler.NewSessionHandler(cfg.Sessions, cfg.Ledger)
	orderHandler := handler.NewOrderHandler(cfg.Ledger, cfg.Catalog, cfg.RecentOrders)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)
	steamHandler := handler.NewSteamHandler(cfg.Steam)
	healthHandler := handler.NewHealthHandler(cfg.Sessions, cfg.Ledger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	// Catalog routes
	api.HandleFunc("/catalog", catalogHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/catalog/{id}", catalogHandler.Get).Methods(http.MethodGet)

	// Session routes
	api.HandleFunc("/session", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/session/login", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/session/logout", sessionHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/session/profile", sessionHandler.Profile).Methods(http.MethodGet)

	// Order routes
	api.HandleFunc("/orders", orderHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/orders", orderHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", orderHandler.Get).Methods(http.MethodGet)

	// Notice stream
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Steam profile backend
	api.HandleFunc("/steam-profile", steamHandler.Profile).Methods(http.MethodGet)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)(metrics.Handler(cfg.Gatherer))).
			Methods(http.MethodGet)
	}

	return r
}
