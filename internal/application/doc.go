// Package application wires the loaded configuration into the registry,
// metrics collector, API handlers and HTTP server, keeping the main package
// focused on CLI parsing and orchestration.
package application
