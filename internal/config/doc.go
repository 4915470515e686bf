// Package config assembles the application configuration from environment
// variables, command-line flags, an optional JSON file and built-in defaults.
// Sources are merged in that priority order: a value set by an earlier source
// is never overwritten by a later one.
package config
