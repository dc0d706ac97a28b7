package config

import "time"

// Config is the resolved deploy configuration handed to the build framework.
// It is built once by Load and must be treated as read-only afterwards.
type Config struct {
	Solidity  CompilerConfig
	Networks  []NetworkEndpoint `validate:"required,min=1,dive"`
	Etherscan ExplorerConfig
	Server    ServerSettings
}

// CompilerConfig selects the solc release and its optimizer settings.
type CompilerConfig struct {
	Version   string `validate:"required"`
	Optimizer OptimizerConfig
}

// OptimizerConfig mirrors the solc optimizer block.
type OptimizerConfig struct {
	Enabled bool
	Runs    int `validate:"gte=0"`
}

// NetworkEndpoint describes a remote network the framework can deploy to.
// AccountSecrets is never nil: it holds the value of CredentialEnv when that
// variable is present and is empty otherwise.
type NetworkEndpoint struct {
	Name           string `validate:"required"`
	URL            string `validate:"required,http_url"`
	CredentialEnv  string `validate:"required"`
	AccountSecrets []string
}

// ExplorerConfig carries block explorer verification settings.
type ExplorerConfig struct {
	APIKeys      map[string]string
	CustomChains []ChainDescriptor `validate:"dive"`
}

// ChainDescriptor teaches the verification plugin how to reach the explorer
// of a network it does not know natively.
type ChainDescriptor struct {
	Network    string `validate:"required"`
	ChainID    int64  `validate:"gt=0"`
	APIURL     string `validate:"required,http_url"`
	BrowserURL string `validate:"required,http_url"`
}

// ServerSettings configures the inspection API served by the serve command.
type ServerSettings struct {
	Port                 string        `env:"PORT" validate:"required,port"`
	LogLevel             string        `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	EnableRequestLogging bool          `env:"ENABLE_REQUEST_LOGGING"`
	RateLimitRPS         float64       `env:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst       int           `env:"RATE_LIMIT_BURST" validate:"gte=0"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD"`
	ReadHeaderTimeout    time.Duration `env:"READ_HEADER_TIMEOUT"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT"`
	IdleTimeout          time.Duration `env:"IDLE_TIMEOUT"`
}

// Network returns the endpoint registered under name.
func (c Config) Network(name string) (NetworkEndpoint, bool) {
	for _, n := range c.Networks {
		if n.Name == name {
			return n, true
		}
	}
	return NetworkEndpoint{}, false
}

// CustomChain returns the custom chain descriptor attached to network.
func (c Config) CustomChain(network string) (ChainDescriptor, bool) {
	for _, chain := range c.Etherscan.CustomChains {
		if chain.Network == network {
			return chain, true
		}
	}
	return ChainDescriptor{}, false
}
