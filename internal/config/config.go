package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultNetwork is the network declared by the built-in configuration.
	DefaultNetwork = "scrollAlpha"
	// DefaultCredentialEnv holds the deployer private key.
	DefaultCredentialEnv = "PRIVATE_KEY"

	defaultSolcVersion    = "0.8.19"
	defaultOptimizerRuns  = 200
	defaultRPCURL         = "https://alpha-rpc.scroll.io/l2"
	defaultChainID        = 534353
	defaultExplorerAPIURL = "https://blockscout.scroll.io/api"
	defaultBrowserURL     = "https://blockscout.scroll.io/"
	defaultExplorerAPIKey = "abc"

	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// lookupEnv resolves account credentials; swapped in tests.
var lookupEnv = os.LookupEnv

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	EnvFile        string
	Port           *string
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Solidity  *yamlSolidity          `yaml:"solidity"`
	Networks  map[string]yamlNetwork `yaml:"networks"`
	Etherscan yamlEtherscan          `yaml:"etherscan"`
	Server    yamlServer             `yaml:"server"`
}

type yamlSolidity struct {
	Version   string         `yaml:"version"`
	Optimizer *yamlOptimizer `yaml:"optimizer"`
}

type yamlOptimizer struct {
	Enabled *bool `yaml:"enabled"`
	Runs    *int  `yaml:"runs"`
}

type yamlNetwork struct {
	URL         string `yaml:"url"`
	AccountsEnv string `yaml:"accounts_env"`
}

type yamlEtherscan struct {
	APIKey       map[string]string `yaml:"api_key"`
	CustomChains []yamlCustomChain `yaml:"custom_chains"`
}

type yamlCustomChain struct {
	Network string `yaml:"network"`
	ChainID int64  `yaml:"chain_id"`
	URLs    struct {
		APIURL     string `yaml:"api_url"`
		BrowserURL string `yaml:"browser_url"`
	} `yaml:"urls"`
}

type yamlServer struct {
	Port                 string   `yaml:"port"`
	LogLevel             string   `yaml:"log_level"`
	EnableRequestLogging *bool    `yaml:"enable_request_logging"`
	ShutdownGracePeriod  string   `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string   `yaml:"read_header_timeout"`
	WriteTimeout         string   `yaml:"write_timeout"`
	IdleTimeout          string   `yaml:"idle_timeout"`
	RateLimit            *yamlRPS `yaml:"rate_limit"`
}

type yamlRPS struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// Load resolves the configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Defaults.
// Account secrets are read last; a missing credential variable leaves the
// network with no accounts instead of failing.
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	var dotenv map[string]string
	if overrides != nil && overrides.EnvFile != "" {
		var err error
		if dotenv, err = godotenv.Read(overrides.EnvFile); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	if err := applyEnvConfig(&cfg, dotenv); err != nil {
		return Config{}, err
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	resolveAccounts(cfg.Networks, dotenv)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns the built-in deploy configuration.
func defaultConfig() Config {
	return Config{
		Solidity: CompilerConfig{
			Version: defaultSolcVersion,
			Optimizer: OptimizerConfig{
				Enabled: true,
				Runs:    defaultOptimizerRuns,
			},
		},
		Networks: []NetworkEndpoint{
			{
				Name:          DefaultNetwork,
				URL:           defaultRPCURL,
				CredentialEnv: DefaultCredentialEnv,
			},
		},
		Etherscan: ExplorerConfig{
			APIKeys: map[string]string{
				DefaultNetwork: defaultExplorerAPIKey,
			},
			CustomChains: []ChainDescriptor{
				{
					Network:    DefaultNetwork,
					ChainID:    defaultChainID,
					APIURL:     defaultExplorerAPIURL,
					BrowserURL: defaultBrowserURL,
				},
			},
		},
		Server: ServerSettings{
			Port:                 defaultPort,
			LogLevel:             defaultLogLevel,
			EnableRequestLogging: true,
			RateLimitRPS:         defaultRateLimitRPS,
			RateLimitBurst:       defaultRateLimitBurst,
			ShutdownGracePeriod:  10 * time.Second,
			ReadHeaderTimeout:    5 * time.Second,
			WriteTimeout:         15 * time.Second,
			IdleTimeout:          60 * time.Second,
		},
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig merges the YAML file into cfg. Networks and API keys merge
// by name; a custom chain replaces the entry of the same network. A file may
// list each network's custom chain only once.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if s := yamlCfg.Solidity; s != nil {
		if s.Version != "" {
			cfg.Solidity.Version = s.Version
		}
		if s.Optimizer != nil {
			if s.Optimizer.Enabled != nil {
				cfg.Solidity.Optimizer.Enabled = *s.Optimizer.Enabled
			}
			if s.Optimizer.Runs != nil {
				cfg.Solidity.Optimizer.Runs = *s.Optimizer.Runs
			}
		}
	}

	if len(yamlCfg.Networks) > 0 {
		byName := make(map[string]NetworkEndpoint, len(cfg.Networks)+len(yamlCfg.Networks))
		for _, n := range cfg.Networks {
			byName[n.Name] = n
		}
		for name, n := range yamlCfg.Networks {
			endpoint, ok := byName[name]
			if !ok {
				endpoint = NetworkEndpoint{Name: name, CredentialEnv: DefaultCredentialEnv}
			}
			if n.URL != "" {
				endpoint.URL = n.URL
			}
			if n.AccountsEnv != "" {
				endpoint.CredentialEnv = n.AccountsEnv
			}
			byName[name] = endpoint
		}
		cfg.Networks = sortedNetworks(byName)
	}

	for network, key := range yamlCfg.Etherscan.APIKey {
		cfg.Etherscan.APIKeys[network] = key
	}

	listed := make(map[string]struct{}, len(yamlCfg.Etherscan.CustomChains))
	for _, c := range yamlCfg.Etherscan.CustomChains {
		if _, dup := listed[c.Network]; dup {
			return fmt.Errorf("%w: custom chain for network %q declared twice", ErrInvalidConfig, c.Network)
		}
		listed[c.Network] = struct{}{}

		chain := ChainDescriptor{
			Network:    c.Network,
			ChainID:    c.ChainID,
			APIURL:     c.URLs.APIURL,
			BrowserURL: c.URLs.BrowserURL,
		}
		replaced := false
		for i := range cfg.Etherscan.CustomChains {
			if cfg.Etherscan.CustomChains[i].Network == chain.Network {
				cfg.Etherscan.CustomChains[i] = chain
				replaced = true
				break
			}
		}
		if !replaced {
			cfg.Etherscan.CustomChains = append(cfg.Etherscan.CustomChains, chain)
		}
	}

	return applyYAMLServer(&cfg.Server, yamlCfg.Server)
}

func applyYAMLServer(s *ServerSettings, y yamlServer) error {
	if y.Port != "" {
		s.Port = y.Port
	}
	if y.LogLevel != "" {
		s.LogLevel = y.LogLevel
	}
	if y.EnableRequestLogging != nil {
		s.EnableRequestLogging = *y.EnableRequestLogging
	}
	if y.RateLimit != nil {
		if y.RateLimit.RPS != nil {
			s.RateLimitRPS = *y.RateLimit.RPS
		}
		if y.RateLimit.Burst != nil {
			s.RateLimitBurst = *y.RateLimit.Burst
		}
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"shutdown_grace_period", y.ShutdownGracePeriod, &s.ShutdownGracePeriod},
		{"read_header_timeout", y.ReadHeaderTimeout, &s.ReadHeaderTimeout},
		{"write_timeout", y.WriteTimeout, &s.WriteTimeout},
		{"idle_timeout", y.IdleTimeout, &s.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		value, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.name, err)
		}
		*d.dst = value
	}
	return nil
}

// applyEnvConfig applies environment variable configuration to the server
// settings. Process variables shadow dotenv entries; blank values of either
// are treated as unset.
func applyEnvConfig(cfg *Config, dotenv map[string]string) error {
	opts := env.Options{Environment: mergedEnvironment(dotenv)}
	if err := env.ParseWithOptions(&cfg.Server, opts); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Server.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.Server.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.Server.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.Server.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// resolveAccounts fills AccountSecrets from each network's credential variable,
// falling back to the dotenv entries. A variable that is present yields
// exactly one secret, even when empty.
func resolveAccounts(networks []NetworkEndpoint, dotenv map[string]string) {
	for i := range networks {
		key := networks[i].CredentialEnv
		if secret, ok := lookupEnv(key); ok {
			networks[i].AccountSecrets = []string{secret}
			continue
		}
		if secret, ok := dotenv[key]; ok {
			networks[i].AccountSecrets = []string{secret}
			continue
		}
		networks[i].AccountSecrets = []string{}
	}
}

// mergedEnvironment overlays the non-blank process environment on the
// non-blank dotenv entries without touching the process environment.
func mergedEnvironment(dotenv map[string]string) map[string]string {
	out := make(map[string]string, len(dotenv))
	for key, value := range dotenv {
		if value = strings.TrimSpace(value); value != "" {
			out[key] = value
		}
	}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return out
}

func sortedNetworks(byName map[string]NetworkEndpoint) []NetworkEndpoint {
	out := make([]NetworkEndpoint, 0, len(byName))
	for _, n := range byName {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
