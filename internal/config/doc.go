// Package config loads, normalizes, and validates schoolsync configuration.
//
// Values come from repository defaults, then an optional TOML file, then an
// optional .env file and SCHOOLSYNC_* environment variables. Paths are
// expanded (including ~) before validation so callers get absolute locations.
package config
