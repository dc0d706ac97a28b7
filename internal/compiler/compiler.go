package compiler

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
)

func defaultOutputSelection() map[string]map[string][]string {
	return map[string]map[string][]string{
		"*": {
			"*": {"abi", "evm.bytecode", "evm.deployedBytecode", "metadata"},
			"":  {"ast"},
		},
	}
}

// New builds the compiler selection from the loaded configuration.
func New(cfg config.CompilerConfig) Selection {
	return Selection{
		Version: cfg.Version,
		Settings: Settings{
			Optimizer: OptimizerSettings{
				Enabled: cfg.Optimizer.Enabled,
				Runs:    cfg.Optimizer.Runs,
			},
		},
	}
}

// Args returns the solc command-line flags equivalent to the settings.
// solc ignores --optimize-runs unless --optimize is also given, so the runs
// flag is only emitted for an enabled optimizer.
func (s Selection) Args() []string {
	if !s.Settings.Optimizer.Enabled {
		return []string{}
	}
	return []string{"--optimize", "--optimize-runs", strconv.Itoa(s.Settings.Optimizer.Runs)}
}

// Options renders Args as a single string, as recorded in contract metadata.
func (s Selection) Options() string {
	return strings.Join(s.Args(), " ")
}

// StandardInput assembles a standard-JSON input for the given sources keyed
// by path.
func (s Selection) StandardInput(sources map[string]string) (StandardInput, error) {
	if len(sources) == 0 {
		return StandardInput{}, ErrNoSources
	}

	in := StandardInput{
		Language: "Solidity",
		Sources:  make(map[string]Source, len(sources)),
		Settings: Settings{
			Optimizer:       s.Settings.Optimizer,
			OutputSelection: defaultOutputSelection(),
		},
	}
	for path, content := range sources {
		in.Sources[path] = Source{Content: content}
	}
	return in, nil
}

// AtLeast reports whether the selected release is version or newer.
func (s Selection) AtLeast(version string) (bool, error) {
	current, err := canonical(s.Version)
	if err != nil {
		return false, err
	}
	want, err := canonical(version)
	if err != nil {
		return false, err
	}
	return semver.Compare(current, want) >= 0, nil
}

func canonical(version string) (string, error) {
	v := "v" + version
	if strings.HasPrefix(version, "v") || !semver.IsValid(v) || semver.Canonical(v) != v {
		return "", ErrInvalidVersion
	}
	return v, nil
}
