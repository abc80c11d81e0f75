package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateCue(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	parsed, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server.url must use http or https, got %q", c.Server.URL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("server.url must include a host, got %q", c.Server.URL)
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.MinValue >= c.Session.MaxValue {
		return errors.New("session.min_value must be less than session.max_value")
	}
	if c.Session.MinValue < math.MinInt16 || c.Session.MaxValue > math.MaxInt16 {
		return fmt.Errorf("session range must fit in [%d, %d]", math.MinInt16, math.MaxInt16)
	}
	return nil
}

func (c *Config) validateCue() error {
	switch c.Cue.Backend {
	case CueBackendCommand, CueBackendNone:
		return nil
	default:
		return fmt.Errorf("cue.backend: unsupported value %q (want %q or %q)", c.Cue.Backend, CueBackendCommand, CueBackendNone)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
