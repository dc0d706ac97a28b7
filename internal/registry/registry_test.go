package registry

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Solidity: config.CompilerConfig{
			Version:   "0.8.19",
			Optimizer: config.OptimizerConfig{Enabled: true, Runs: 200},
		},
		Networks: []config.NetworkEndpoint{
			{Name: "scrollAlpha", URL: "https://alpha-rpc.scroll.io/l2", CredentialEnv: "PRIVATE_KEY", AccountSecrets: []string{"0x01"}},
			{Name: "localhost", URL: "http://127.0.0.1:8545", CredentialEnv: "LOCAL_KEY", AccountSecrets: []string{}},
		},
		Etherscan: config.ExplorerConfig{
			APIKeys: map[string]string{"scrollAlpha": "abc"},
			CustomChains: []config.ChainDescriptor{
				{Network: "scrollAlpha", ChainID: 534353, APIURL: "https://blockscout.scroll.io/api", BrowserURL: "https://blockscout.scroll.io/"},
			},
		},
	}
}

func TestSnapshotLookups(t *testing.T) {
	t.Parallel()

	reg := New(testConfig())

	network, err := reg.Network("scrollAlpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if network.URL != "https://alpha-rpc.scroll.io/l2" {
		t.Fatalf("unexpected URL: %s", network.URL)
	}

	chain, err := reg.Chain("scrollAlpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chain.ChainID != 534353 {
		t.Fatalf("expected chain id 534353, got %d", chain.ChainID)
	}

	if key, ok := reg.APIKey("scrollAlpha"); !ok || key != "abc" {
		t.Fatalf("expected API key abc, got %q (%v)", key, ok)
	}
	if _, ok := reg.APIKey("localhost"); ok {
		t.Fatalf("expected no API key for localhost")
	}

	names := []string{}
	for _, n := range reg.Networks() {
		names = append(names, n.Name)
	}
	if want := []string{"localhost", "scrollAlpha"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestSnapshotLookupErrors(t *testing.T) {
	t.Parallel()

	reg := New(testConfig())

	if _, err := reg.Network("ghost"); !errors.Is(err, ErrUnknownNetwork) {
		t.Fatalf("expected ErrUnknownNetwork, got %v", err)
	}
	if _, err := reg.Chain("ghost"); !errors.Is(err, ErrUnknownNetwork) {
		t.Fatalf("expected ErrUnknownNetwork, got %v", err)
	}
	if _, err := reg.Chain("localhost"); !errors.Is(err, ErrNoCustomChain) {
		t.Fatalf("expected ErrNoCustomChain, got %v", err)
	}
}

func TestSnapshotIsolatesCallers(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	reg := New(cfg)

	// mutating the source must not leak into the snapshot
	cfg.Networks[0].AccountSecrets[0] = "0xff"
	cfg.Etherscan.APIKeys["scrollAlpha"] = "changed"

	network, _ := reg.Network("scrollAlpha")
	if network.AccountSecrets[0] != "0x01" {
		t.Fatalf("expected snapshot to keep its own secrets, got %v", network.AccountSecrets)
	}

	// nor must mutating a returned value
	network.AccountSecrets[0] = "0xee"
	got := reg.Config()
	got.Etherscan.APIKeys["scrollAlpha"] = "changed"

	again, _ := reg.Network("scrollAlpha")
	if again.AccountSecrets[0] != "0x01" {
		t.Fatalf("expected defensive copy, got %v", again.AccountSecrets)
	}
	if key, _ := reg.APIKey("scrollAlpha"); key != "abc" {
		t.Fatalf("expected API key to stay abc, got %s", key)
	}
	if !reflect.DeepEqual(reg.Config(), testConfig()) {
		t.Fatalf("expected Config to match the original record")
	}
}

func TestSnapshotConcurrentReaders(t *testing.T) {
	reg := New(testConfig())
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			if _, err := reg.Network("scrollAlpha"); err != nil {
				t.Errorf("Network failed: %v", err)
			}
		}()

		go func() {
			defer wg.Done()
			if len(reg.Networks()) != 2 {
				t.Errorf("unexpected network count")
			}
		}()
	}

	wg.Wait()
}
