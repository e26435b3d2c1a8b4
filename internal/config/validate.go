package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateChunking(); err != nil {
		return err
	}
	if err := c.validateSessions(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateChunking() error {
	if c.Chunking.MaxSegmentBytes <= 0 {
		return errors.New("chunking.max_segment_bytes must be positive")
	}
	if c.Chunking.DefaultBitrateKbps <= 0 {
		return errors.New("chunking.default_bitrate_kbps must be positive")
	}
	if c.Chunking.MaxSplitDepth <= 0 {
		return errors.New("chunking.max_split_depth must be positive")
	}
	// A budget smaller than one second of fallback bitrate can never plan a
	// chunk of at least one second.
	if c.Chunking.MaxSegmentBytes < c.DefaultBitrateBps()/8 {
		return fmt.Errorf(
			"chunking.max_segment_bytes (%d) is below one second of the fallback bitrate (%d bytes)",
			c.Chunking.MaxSegmentBytes, c.DefaultBitrateBps()/8,
		)
	}
	return nil
}

func (c *Config) validateSessions() error {
	if c.Sessions.RetentionHours <= 0 {
		return errors.New("sessions.retention_hours must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
