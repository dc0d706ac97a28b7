// Package export renders a loaded deploy configuration for the tools that
// consume it: the build framework user-config record (JSON or YAML) and a
// foundry.toml document.
package export
