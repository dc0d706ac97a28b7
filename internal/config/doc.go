// Package config resolves the deploy configuration (compiler selection,
// network endpoints, explorer verification settings) from built-in defaults,
// an optional YAML file, environment variables and CLI flags with precedence:
// CLI flags > Environment variables > YAML config > Defaults.
//
// Account credentials are read from the environment variable named by each
// network. A missing variable is not an error; the network simply carries
// no accounts and signing fails later in the framework.
package config
