package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/scroll-deploy-config/internal/application"
	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Server.RateLimitRPS = 0

	app, err := application.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new application: %v", err)
	}

	srv := httptest.NewServer(app.Server().Handler)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestIntegrationFlow(t *testing.T) {
	t.Setenv(config.DefaultCredentialEnv, "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	srv := newServer(t)

	if code := getJSON(t, srv.URL+"/api/health", nil); code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", code)
	}

	var compiler struct {
		Version string   `json:"version"`
		Args    []string `json:"args"`
	}
	if code := getJSON(t, srv.URL+"/api/compiler", &compiler); code != http.StatusOK {
		t.Fatalf("expected 200 from compiler, got %d", code)
	}
	if compiler.Version != "0.8.19" {
		t.Fatalf("unexpected compiler version %s", compiler.Version)
	}

	var network struct {
		ChainID  int64 `json:"chainId"`
		Accounts []struct {
			Address string `json:"address"`
		} `json:"accounts"`
	}
	if code := getJSON(t, srv.URL+"/api/networks/"+config.DefaultNetwork, &network); code != http.StatusOK {
		t.Fatalf("expected 200 from network lookup, got %d", code)
	}
	if network.ChainID != 534353 {
		t.Fatalf("unexpected chain id %d", network.ChainID)
	}
	if len(network.Accounts) != 1 || network.Accounts[0].Address != "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" {
		t.Fatalf("unexpected accounts %+v", network.Accounts)
	}

	if code := getJSON(t, srv.URL+"/metrics", nil); code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", code)
	}
}
