// Package config loads run configuration from YAML files, .env files, and
// DELAYED_-prefixed environment variables, with defaults applied and struct
// validation before use.
package config
