// Package registry exposes read-only lookups over a loaded deploy
// configuration: networks by name, their custom explorer chains and
// explorer API keys.
package registry
