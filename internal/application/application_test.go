package application

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
	"github.com/eugenenazirov/scroll-deploy-config/internal/registry"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := app.registry.Network("scrollAlpha"); err != nil {
		t.Fatalf("expected scrollAlpha in registry: %v", err)
	}
	if app.server == nil || app.router == nil || app.handler == nil || app.metrics == nil {
		t.Fatalf("expected server, router, handler and metrics to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewRejectsEmptyConfig(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.Networks = nil

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for configuration without networks")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg.Server, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.Server.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.Server.WriteTimeout ||
		server.IdleTimeout != cfg.Server.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestRootHandlerServesAPIAndMetrics(t *testing.T) {
	app, err := New(baseTestConfig(":0"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	root := app.Server().Handler

	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/networks/scrollAlpha", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from API, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "deployconfig_networks 1") {
		t.Fatalf("expected network gauge in metrics output")
	}

	rec = httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestReportNetworksWarnsOnMissingCredential(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := baseTestConfig(":0")
	cfg.Networks = append(cfg.Networks, config.NetworkEndpoint{
		Name:           "broken",
		URL:            "http://127.0.0.1:8545",
		CredentialEnv:  "BROKEN_KEY",
		AccountSecrets: []string{"not-a-key"},
	})

	ReportNetworks(registry.New(cfg), zap.New(core))

	if got := logs.FilterMessage("credential variable not set, network has no accounts").Len(); got != 1 {
		t.Fatalf("expected one missing credential warning, got %d", got)
	}
	if got := logs.FilterMessage("account secret is not a valid private key").Len(); got != 1 {
		t.Fatalf("expected one invalid key warning, got %d", got)
	}
	if got := logs.FilterMessage("network configured").Len(); got != 2 {
		t.Fatalf("expected two network lines, got %d", got)
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Solidity: config.CompilerConfig{
			Version:   "0.8.19",
			Optimizer: config.OptimizerConfig{Enabled: true, Runs: 200},
		},
		Networks: []config.NetworkEndpoint{
			{Name: "scrollAlpha", URL: "https://alpha-rpc.scroll.io/l2", CredentialEnv: "PRIVATE_KEY", AccountSecrets: []string{}},
		},
		Etherscan: config.ExplorerConfig{
			APIKeys: map[string]string{"scrollAlpha": "abc"},
			CustomChains: []config.ChainDescriptor{
				{Network: "scrollAlpha", ChainID: 534353, APIURL: "https://blockscout.scroll.io/api", BrowserURL: "https://blockscout.scroll.io/"},
			},
		},
		Server: config.ServerSettings{
			Port:                 port,
			LogLevel:             "info",
			ShutdownGracePeriod:  50 * time.Millisecond,
			ReadHeaderTimeout:    20 * time.Millisecond,
			WriteTimeout:         30 * time.Millisecond,
			IdleTimeout:          40 * time.Millisecond,
			EnableRequestLogging: false,
		},
	}
}
