package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeClient(); err != nil {
		return err
	}
	if err := c.normalizeServer(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeClient() error {
	c.Client.ServerURL = strings.TrimRight(strings.TrimSpace(c.Client.ServerURL), "/")
	c.Client.Namespace = strings.TrimSpace(c.Client.Namespace)
	if c.Client.Namespace == "" {
		c.Client.Namespace = defaultNamespace
	}
	if strings.TrimSpace(c.Client.DBPath) == "" {
		c.Client.DBPath = defaultClientDBPath
	}

	var err error
	if c.Client.DBPath, err = expandPath(c.Client.DBPath); err != nil {
		return fmt.Errorf("client.db_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if strings.TrimSpace(c.Server.DBPath) == "" {
		c.Server.DBPath = defaultServerDBPath
	}

	var err error
	if c.Server.DBPath, err = expandPath(c.Server.DBPath); err != nil {
		return fmt.Errorf("server.db_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
