package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeChunking()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeChunking() {
	c.Chunking.FFmpegBinary = strings.TrimSpace(c.Chunking.FFmpegBinary)
	if c.Chunking.FFmpegBinary == "" {
		c.Chunking.FFmpegBinary = defaultFFmpegBinaryName
	}
	c.Chunking.FFprobeBinary = strings.TrimSpace(c.Chunking.FFprobeBinary)
	if c.Chunking.FFprobeBinary == "" {
		c.Chunking.FFprobeBinary = defaultFFprobeBinaryName
	}
	if c.Chunking.MaxConcurrent <= 0 {
		c.Chunking.MaxConcurrent = defaultMaxConcurrent
	}
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
