// Package cmd implements the reshape subcommands.
//
// Each command is a kong command struct with a Run(context.Context) method.
// The [kong.Context] is carried in the context by [WithContext] so commands
// can reach the parsed model and its output writers.
package cmd

// Kong variable identifiers.
const (
	// CacheIdentifier names the variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier names the variable holding the configuration file
	// path.
	ConfigIdentifier = "config"
)
