package registry

import (
	"errors"
	"slices"
	"sort"

	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
)

var (
	// ErrUnknownNetwork indicates the requested network is not declared.
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrNoCustomChain indicates the network has no custom explorer chain.
	ErrNoCustomChain = errors.New("network has no custom chain")
)

// Registry provides lookups over a resolved configuration.
type Registry interface {
	Config() config.Config
	Networks() []config.NetworkEndpoint
	Network(name string) (config.NetworkEndpoint, error)
	Chain(network string) (config.ChainDescriptor, error)
	APIKey(network string) (string, bool)
}

// Snapshot indexes a configuration that never changes after construction,
// so it is safe for concurrent readers without locking.
type Snapshot struct {
	cfg      config.Config
	networks map[string]config.NetworkEndpoint
	chains   map[string]config.ChainDescriptor
	names    []string
}

// New copies cfg into an immutable Snapshot.
func New(cfg config.Config) *Snapshot {
	s := &Snapshot{
		cfg:      cloneConfig(cfg),
		networks: make(map[string]config.NetworkEndpoint, len(cfg.Networks)),
		chains:   make(map[string]config.ChainDescriptor, len(cfg.Etherscan.CustomChains)),
	}
	for _, n := range s.cfg.Networks {
		s.networks[n.Name] = n
		s.names = append(s.names, n.Name)
	}
	sort.Strings(s.names)
	for _, c := range s.cfg.Etherscan.CustomChains {
		s.chains[c.Network] = c
	}
	return s
}

// Config returns a copy of the underlying configuration.
func (s *Snapshot) Config() config.Config {
	return cloneConfig(s.cfg)
}

// Networks returns copies of the declared networks ordered by name.
func (s *Snapshot) Networks() []config.NetworkEndpoint {
	out := make([]config.NetworkEndpoint, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, cloneNetwork(s.networks[name]))
	}
	return out
}

// Network returns the endpoint declared under name.
func (s *Snapshot) Network(name string) (config.NetworkEndpoint, error) {
	n, ok := s.networks[name]
	if !ok {
		return config.NetworkEndpoint{}, ErrUnknownNetwork
	}
	return cloneNetwork(n), nil
}

// Chain returns the custom chain descriptor for network.
func (s *Snapshot) Chain(network string) (config.ChainDescriptor, error) {
	if _, ok := s.networks[network]; !ok {
		return config.ChainDescriptor{}, ErrUnknownNetwork
	}
	c, ok := s.chains[network]
	if !ok {
		return config.ChainDescriptor{}, ErrNoCustomChain
	}
	return c, nil
}

// APIKey returns the explorer API key configured for network.
func (s *Snapshot) APIKey(network string) (string, bool) {
	key, ok := s.cfg.Etherscan.APIKeys[network]
	return key, ok
}

func cloneNetwork(n config.NetworkEndpoint) config.NetworkEndpoint {
	n.AccountSecrets = slices.Clone(n.AccountSecrets)
	if n.AccountSecrets == nil {
		n.AccountSecrets = []string{}
	}
	return n
}

func cloneConfig(cfg config.Config) config.Config {
	out := cfg
	out.Networks = make([]config.NetworkEndpoint, len(cfg.Networks))
	for i, n := range cfg.Networks {
		out.Networks[i] = cloneNetwork(n)
	}
	out.Etherscan.APIKeys = make(map[string]string, len(cfg.Etherscan.APIKeys))
	for k, v := range cfg.Etherscan.APIKeys {
		out.Etherscan.APIKeys[k] = v
	}
	out.Etherscan.CustomChains = slices.Clone(cfg.Etherscan.CustomChains)
	return out
}
