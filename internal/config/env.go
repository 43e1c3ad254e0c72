package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvServerURL   = "SCHOOLSYNC_SERVER_URL"
	EnvDBPath      = "SCHOOLSYNC_DB_PATH"
	EnvNamespace   = "SCHOOLSYNC_NAMESPACE"
	EnvAccessToken = "SCHOOLSYNC_ACCESS_TOKEN"
	EnvJWTSecret   = "SCHOOLSYNC_JWT_SECRET"
	EnvLogLevel    = "SCHOOLSYNC_LOG_LEVEL"
	EnvDotEnvFile  = "SCHOOLSYNC_ENV_FILE"
)

const defaultDotEnvFile = ".env"

// loadDotEnv reads KEY=VALUE pairs from path (or SCHOOLSYNC_ENV_FILE, or ./.env)
// into the process environment. Variables that are already set win, and a
// missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		path = os.Getenv(EnvDotEnvFile)
	}
	if path == "" {
		path = defaultDotEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}

	override(&c.Client.ServerURL, EnvServerURL)
	override(&c.Client.DBPath, EnvDBPath)
	override(&c.Client.Namespace, EnvNamespace)
	override(&c.Client.AccessToken, EnvAccessToken)
	override(&c.Server.JWTSecret, EnvJWTSecret)
	override(&c.Logging.Level, EnvLogLevel)
}
