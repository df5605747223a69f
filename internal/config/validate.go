package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAtlas(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.Workspace == "" {
		return fmt.Errorf("paths.workspace is required")
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("paths.output_dir is required")
	}
	return nil
}

func (c *Config) validateAtlas() error {
	if c.Atlas.MaxDimension < 64 {
		return fmt.Errorf("atlas.max_dimension must be at least 64, got %d", c.Atlas.MaxDimension)
	}
	if c.Atlas.PaddingFactor > 4.0 {
		return fmt.Errorf("atlas.padding_factor must not exceed 4.0, got %g", c.Atlas.PaddingFactor)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
