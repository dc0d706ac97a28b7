package compiler

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
)

func defaultSelection() Selection {
	return New(config.CompilerConfig{
		Version:   "0.8.19",
		Optimizer: config.OptimizerConfig{Enabled: true, Runs: 200},
	})
}

func TestNewCopiesSettings(t *testing.T) {
	t.Parallel()

	sel := defaultSelection()
	if sel.Version != "0.8.19" {
		t.Fatalf("expected version 0.8.19, got %s", sel.Version)
	}
	if want := (OptimizerSettings{Enabled: true, Runs: 200}); sel.Settings.Optimizer != want {
		t.Fatalf("unexpected optimizer settings: %+v", sel.Settings.Optimizer)
	}
}

func TestArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		optimizer config.OptimizerConfig
		want      []string
	}{
		{
			name:      "Enabled",
			optimizer: config.OptimizerConfig{Enabled: true, Runs: 200},
			want:      []string{"--optimize", "--optimize-runs", "200"},
		},
		{
			name:      "EnabledZeroRuns",
			optimizer: config.OptimizerConfig{Enabled: true, Runs: 0},
			want:      []string{"--optimize", "--optimize-runs", "0"},
		},
		{
			name:      "Disabled",
			optimizer: config.OptimizerConfig{Enabled: false, Runs: 200},
			want:      []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel := New(config.CompilerConfig{Version: "0.8.19", Optimizer: tc.optimizer})
			if got := sel.Args(); !slices.Equal(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if got := defaultSelection().Options(); got != "--optimize --optimize-runs 200" {
		t.Fatalf("unexpected options string %q", got)
	}
}

func TestStandardInput(t *testing.T) {
	t.Parallel()

	in, err := defaultSelection().StandardInput(map[string]string{
		"contracts/Greeter.sol": "pragma solidity ^0.8.19;",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc struct {
		Language string `json:"language"`
		Sources  map[string]struct {
			Content string `json:"content"`
		} `json:"sources"`
		Settings struct {
			Optimizer struct {
				Enabled bool `json:"enabled"`
				Runs    int  `json:"runs"`
			} `json:"optimizer"`
			OutputSelection map[string]map[string][]string `json:"outputSelection"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.Language != "Solidity" {
		t.Fatalf("expected Solidity language, got %s", doc.Language)
	}
	if doc.Sources["contracts/Greeter.sol"].Content == "" {
		t.Fatalf("expected source content to be carried")
	}
	if !doc.Settings.Optimizer.Enabled || doc.Settings.Optimizer.Runs != 200 {
		t.Fatalf("unexpected optimizer block: %+v", doc.Settings.Optimizer)
	}
	if !slices.Contains(doc.Settings.OutputSelection["*"]["*"], "abi") {
		t.Fatalf("expected abi in output selection")
	}
}

func TestStandardInputRequiresSources(t *testing.T) {
	t.Parallel()

	if _, err := defaultSelection().StandardInput(nil); !errors.Is(err, ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestAtLeast(t *testing.T) {
	t.Parallel()

	sel := defaultSelection()
	tests := []struct {
		version string
		want    bool
		wantErr error
	}{
		{version: "0.8.0", want: true},
		{version: "0.8.19", want: true},
		{version: "0.8.20", want: false},
		{version: "0.9.0", want: false},
		{version: "0.8", wantErr: ErrInvalidVersion},
		{version: "v0.8.0", wantErr: ErrInvalidVersion},
	}

	for _, tc := range tests {
		t.Run(tc.version, func(t *testing.T) {
			got, err := sel.AtLeast(tc.version)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && got != tc.want {
				t.Fatalf("AtLeast(%s) = %v, want %v", tc.version, got, tc.want)
			}
		})
	}
}
