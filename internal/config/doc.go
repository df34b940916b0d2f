// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. It provides type-safe
// access to server, database and cache settings while keeping configuration
// details separate from business logic.
package config
