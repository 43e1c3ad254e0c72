package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/iudanet/schoolsync/internal/validation"
)

const minJWTSecretLen = 16

// Validate ensures the client side of the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateClient(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateServer checks the settings the stand-in server needs on top of Validate.
func (c *Config) ValidateServer() error {
	if len(c.Server.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("server.jwt_secret must be at least %d characters. Set %s or edit the config file", minJWTSecretLen, EnvJWTSecret)
	}
	if c.Server.TokenTTLHours <= 0 {
		return errors.New("server.token_ttl_hours must be positive")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return errors.New("server.rate_limit and server.rate_burst must be positive")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	return nil
}

func (c *Config) validateClient() error {
	u, err := url.Parse(c.Client.ServerURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("client.server_url must be an http(s) URL, got %q", c.Client.ServerURL)
	}
	if err := validation.ValidateTableName(c.Client.Namespace); err != nil {
		return fmt.Errorf("client.namespace: %w", err)
	}
	if c.Client.RequestTimeout <= 0 {
		return errors.New("client.request_timeout must be positive")
	}
	if c.Client.LockTimeout <= 0 {
		return errors.New("client.lock_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.ItemTimeout <= 0 {
		return errors.New("sync.item_timeout must be positive")
	}
	if c.Sync.ProbeInterval <= 0 {
		return errors.New("sync.probe_interval must be positive")
	}
	if c.Sync.ProbeTimeout <= 0 {
		return errors.New("sync.probe_timeout must be positive")
	}
	if c.Sync.ProbeTimeout > c.Sync.ProbeInterval {
		return errors.New("sync.probe_timeout must not exceed sync.probe_interval")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use text or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn or error)", c.Logging.Level)
	}
	return nil
}
