// Package config handles configuration loading, parsing, and validation
// from environment variables (prefixed CASEBOOK_) and an optional YAML
// file. It provides type-safe access to settings needed by the store,
// registry, audit and logging layers while keeping configuration details
// separate from business logic.
package config
