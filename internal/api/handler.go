package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eugenenazirov/scroll-deploy-config/internal/accounts"
	"github.com/eugenenazirov/scroll-deploy-config/internal/compiler"
	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
	"github.com/eugenenazirov/scroll-deploy-config/internal/export"
	"github.com/eugenenazirov/scroll-deploy-config/internal/registry"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler serves read-only views of the loaded configuration.
type Handler struct {
	registry registry.Registry
	clock    func() time.Time
	loadedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler over the provided registry.
func NewHandler(reg registry.Registry, opts ...HandlerOption) *Handler {
	h := &Handler{
		registry: reg,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.loadedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
		LoadedAt:  h.loadedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, export.NewHostConfig(h.registry.Config(), export.Options{}))
}

func (h *Handler) handleGetCompiler(w http.ResponseWriter, _ *http.Request) {
	sel := compiler.New(h.registry.Config().Solidity)
	resp := compilerResponse{
		Version:  sel.Version,
		Settings: sel.Settings,
		Args:     sel.Args(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListNetworks(w http.ResponseWriter, _ *http.Request) {
	networks := h.registry.Networks()
	resp := networksResponse{Networks: make([]networkResponse, 0, len(networks))}
	for _, n := range networks {
		resp.Networks = append(resp.Networks, h.describeNetwork(n))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	network, err := h.registry.Network(name)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownNetwork) {
			writeError(w, http.StatusNotFound, "Unknown network", "no network named "+name)
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.describeNetwork(network))
}

func (h *Handler) describeNetwork(n config.NetworkEndpoint) networkResponse {
	resp := networkResponse{
		Name:          n.Name,
		URL:           n.URL,
		CredentialEnv: n.CredentialEnv,
		Accounts:      accounts.Describe(n.AccountSecrets),
	}

	_, hasKey := h.registry.APIKey(n.Name)
	if chain, err := h.registry.Chain(n.Name); err == nil {
		resp.ChainID = chain.ChainID
		resp.Explorer = &explorerResponse{
			APIURL:     chain.APIURL,
			BrowserURL: chain.BrowserURL,
			HasAPIKey:  hasKey,
		}
	} else if hasKey {
		resp.Explorer = &explorerResponse{HasAPIKey: true}
	}
	return resp
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LoadedAt  time.Time `json:"loadedAt"`
}

type compilerResponse struct {
	Version  string            `json:"version"`
	Settings compiler.Settings `json:"settings"`
	Args     []string          `json:"args"`
}

type networksResponse struct {
	Networks []networkResponse `json:"networks"`
}

type networkResponse struct {
	Name          string             `json:"name"`
	URL           string             `json:"url"`
	CredentialEnv string             `json:"credentialEnv"`
	Accounts      []accounts.Account `json:"accounts"`
	ChainID       int64              `json:"chainId,omitempty"`
	Explorer      *explorerResponse  `json:"explorer,omitempty"`
}

type explorerResponse struct {
	APIURL     string `json:"apiURL,omitempty"`
	BrowserURL string `json:"browserURL,omitempty"`
	HasAPIKey  bool   `json:"hasApiKey"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
