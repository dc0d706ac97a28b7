package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the config file looked up when --config is not given.
const DefaultFileName = "deploy.yaml"

// ErrConfigNotFound is returned by Discover when no directory up to the
// filesystem root contains the requested file.
var ErrConfigNotFound = errors.New("config file not found")

// Discover locates name in the working directory or the closest parent.
func Discover(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return discoverFrom(dir, name)
}

func discoverFrom(dir, name string) (string, error) {
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
}
