// Package compiler renders the configured solc selection as the inputs a
// build framework hands to solc: standard-JSON settings and CLI flags.
package compiler
