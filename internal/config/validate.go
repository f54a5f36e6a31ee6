package config

import (
	"errors"
	"fmt"
	"regexp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.QueueRoot == "" {
		return errors.New("paths.queue_root must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if c.Processing.MinFreeGiB < 0 {
		return errors.New("processing.min_free_gib must not be negative")
	}
	for _, pattern := range c.Processing.RedactionPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("processing.redaction_patterns: %q does not compile: %w", pattern, err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
