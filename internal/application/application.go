package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/scroll-deploy-config/internal/accounts"
	"github.com/eugenenazirov/scroll-deploy-config/internal/api"
	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
	"github.com/eugenenazirov/scroll-deploy-config/internal/metrics"
	"github.com/eugenenazirov/scroll-deploy-config/internal/registry"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	registry *registry.Snapshot
	metrics  *metrics.Collector
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New wires the inspection API around a loaded configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if len(cfg.Networks) == 0 {
		return nil, fmt.Errorf("configuration declares no networks")
	}

	reg := registry.New(cfg)
	collector := metrics.NewCollector()
	ReportNetworks(reg, logger)
	collector.SetNetworks(len(cfg.Networks))
	for _, n := range reg.Networks() {
		collector.RecordNetwork(n.Name, len(n.AccountSecrets))
	}

	handler := api.NewHandler(reg)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.Server.EnableRequestLogging),
		api.WithRateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		api.WithMetrics(collector),
	)

	return &App{
		registry: reg,
		metrics:  collector,
		handler:  handler,
		router:   apiRouter,
		logger:   logger,
		server:   NewServer(cfg.Server, BuildRootHandler(apiRouter, collector.Handler())),
	}, nil
}

// BuildRootHandler mounts the API under /api/ and metrics under /metrics.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("GET /metrics", metricsHandler)
	return mux
}

// NewServer creates and configures an HTTP server from the provided settings.
func NewServer(cfg config.ServerSettings, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// ReportNetworks logs one line per network. Missing or malformed credentials
// are warnings: the framework reports its own error when it tries to sign.
func ReportNetworks(reg registry.Registry, logger *zap.Logger) {
	for _, n := range reg.Networks() {
		fields := []zap.Field{
			zap.String("network", n.Name),
			zap.String("url", n.URL),
			zap.Int("accounts", len(n.AccountSecrets)),
		}
		if chain, err := reg.Chain(n.Name); err == nil {
			fields = append(fields, zap.Int64("chain_id", chain.ChainID))
		}
		logger.Info("network configured", fields...)

		if len(n.AccountSecrets) == 0 {
			logger.Warn("credential variable not set, network has no accounts",
				zap.String("network", n.Name),
				zap.String("variable", n.CredentialEnv),
			)
		}
		for _, account := range accounts.Describe(n.AccountSecrets) {
			if account.Error != "" {
				logger.Warn("account secret is not a valid private key",
					zap.String("network", n.Name),
					zap.Int("index", account.Index),
					zap.String("error", account.Error),
				)
			}
		}
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
