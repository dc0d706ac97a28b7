package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/scroll-deploy-config/internal/compiler"
	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
)

// Format names an output shape.
type Format string

const (
	// FormatJSON renders the build framework user-config shape as JSON.
	FormatJSON Format = "json"
	// FormatYAML renders the same shape as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML renders a foundry.toml document.
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned by Render for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists the supported formats.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTOML)}
}

// Options controls rendering.
type Options struct {
	// IncludeSecrets writes account secrets verbatim instead of ${VAR}
	// references to their credential variable.
	IncludeSecrets bool
}

// HostConfig is the user-config record consumed by the build framework.
type HostConfig struct {
	Solidity  HostSolidity           `json:"solidity" yaml:"solidity"`
	Networks  map[string]HostNetwork `json:"networks" yaml:"networks"`
	Etherscan HostEtherscan          `json:"etherscan" yaml:"etherscan"`
}

// HostSolidity is the solidity section of HostConfig.
type HostSolidity struct {
	Version  string            `json:"version" yaml:"version"`
	Settings compiler.Settings `json:"settings" yaml:"settings"`
}

// HostNetwork is one entry of the networks section.
type HostNetwork struct {
	URL      string   `json:"url" yaml:"url"`
	Accounts []string `json:"accounts" yaml:"accounts"`
}

// HostEtherscan is the verification section of HostConfig.
type HostEtherscan struct {
	APIKey       map[string]string `json:"apiKey" yaml:"apiKey"`
	CustomChains []HostChain       `json:"customChains" yaml:"customChains"`
}

// HostChain is a custom chain entry of the verification section.
type HostChain struct {
	Network string        `json:"network" yaml:"network"`
	ChainID int64         `json:"chainId" yaml:"chainId"`
	URLs    HostChainURLs `json:"urls" yaml:"urls"`
}

// HostChainURLs holds the explorer endpoints of a custom chain.
type HostChainURLs struct {
	APIURL     string `json:"apiURL" yaml:"apiURL"`
	BrowserURL string `json:"browserURL" yaml:"browserURL"`
}

type foundryConfig struct {
	Profile      map[string]foundryProfile   `toml:"profile"`
	RPCEndpoints map[string]string           `toml:"rpc_endpoints"`
	Etherscan    map[string]foundryEtherscan `toml:"etherscan,omitempty"`
}

type foundryProfile struct {
	SolcVersion   string `toml:"solc_version"`
	Optimizer     bool   `toml:"optimizer"`
	OptimizerRuns int    `toml:"optimizer_runs"`
}

type foundryEtherscan struct {
	Key   string `toml:"key"`
	URL   string `toml:"url,omitempty"`
	Chain int64  `toml:"chain,omitempty"`
}

// NewHostConfig converts cfg into the user-config shape.
func NewHostConfig(cfg config.Config, opts Options) HostConfig {
	sel := compiler.New(cfg.Solidity)

	host := HostConfig{
		Solidity: HostSolidity{
			Version:  sel.Version,
			Settings: sel.Settings,
		},
		Networks: make(map[string]HostNetwork, len(cfg.Networks)),
		Etherscan: HostEtherscan{
			APIKey:       make(map[string]string, len(cfg.Etherscan.APIKeys)),
			CustomChains: make([]HostChain, 0, len(cfg.Etherscan.CustomChains)),
		},
	}

	for _, n := range cfg.Networks {
		host.Networks[n.Name] = HostNetwork{
			URL:      n.URL,
			Accounts: accountsFor(n, opts),
		}
	}
	for network, key := range cfg.Etherscan.APIKeys {
		host.Etherscan.APIKey[network] = key
	}
	for _, c := range cfg.Etherscan.CustomChains {
		host.Etherscan.CustomChains = append(host.Etherscan.CustomChains, HostChain{
			Network: c.Network,
			ChainID: c.ChainID,
			URLs: HostChainURLs{
				APIURL:     c.APIURL,
				BrowserURL: c.BrowserURL,
			},
		})
	}

	return host
}

// Render encodes cfg in the requested format.
func Render(cfg config.Config, format Format, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(NewHostConfig(cfg, opts), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(NewHostConfig(cfg, opts)); err != nil {
			return nil, fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(newFoundryConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("encode TOML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// newFoundryConfig maps cfg onto foundry.toml. Foundry reads keys from the
// environment on its own, so accounts are not written.
func newFoundryConfig(cfg config.Config) foundryConfig {
	out := foundryConfig{
		Profile: map[string]foundryProfile{
			"default": {
				SolcVersion:   cfg.Solidity.Version,
				Optimizer:     cfg.Solidity.Optimizer.Enabled,
				OptimizerRuns: cfg.Solidity.Optimizer.Runs,
			},
		},
		RPCEndpoints: make(map[string]string, len(cfg.Networks)),
		Etherscan:    make(map[string]foundryEtherscan),
	}

	for _, n := range cfg.Networks {
		out.RPCEndpoints[n.Name] = n.URL
	}
	for network, key := range cfg.Etherscan.APIKeys {
		out.Etherscan[network] = foundryEtherscan{Key: key}
	}
	for _, c := range cfg.Etherscan.CustomChains {
		entry := out.Etherscan[c.Network]
		entry.URL = c.APIURL
		entry.Chain = c.ChainID
		out.Etherscan[c.Network] = entry
	}

	return out
}

func accountsFor(n config.NetworkEndpoint, opts Options) []string {
	out := make([]string, 0, len(n.AccountSecrets))
	for _, secret := range n.AccountSecrets {
		if opts.IncludeSecrets {
			out = append(out, secret)
			continue
		}
		out = append(out, "${"+n.CredentialEnv+"}")
	}
	return out
}
