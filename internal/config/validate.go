package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
)

var validate = validator.New()

// validateConfig checks field constraints and that every explorer entry
// references a declared network.
func validateConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, describeValidationError(err))
	}

	if !isSolcVersion(cfg.Solidity.Version) {
		return fmt.Errorf("%w: compiler version %q is not MAJOR.MINOR.PATCH", ErrInvalidConfig, cfg.Solidity.Version)
	}

	declared := make(map[string]struct{}, len(cfg.Networks))
	for _, n := range cfg.Networks {
		if _, dup := declared[n.Name]; dup {
			return fmt.Errorf("%w: network %q declared twice", ErrInvalidConfig, n.Name)
		}
		declared[n.Name] = struct{}{}
	}

	for network := range cfg.Etherscan.APIKeys {
		if _, ok := declared[network]; !ok {
			return fmt.Errorf("%w: explorer API key references unknown network %q", ErrInvalidConfig, network)
		}
	}

	for _, chain := range cfg.Etherscan.CustomChains {
		if _, ok := declared[chain.Network]; !ok {
			return fmt.Errorf("%w: custom chain references unknown network %q", ErrInvalidConfig, chain.Network)
		}
	}

	return nil
}

// isSolcVersion reports whether v is a full release version such as 0.8.19.
func isSolcVersion(v string) bool {
	if strings.HasPrefix(v, "v") {
		return false
	}
	canonical := "v" + v
	return semver.IsValid(canonical) &&
		semver.Prerelease(canonical) == "" &&
		semver.Canonical(canonical) == canonical
}

func describeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
