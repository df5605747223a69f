package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAtlas()
	c.normalizeExport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.Workspace, err = expandPath(c.Paths.Workspace); err != nil {
		return fmt.Errorf("paths.workspace: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.RulesDB, err = expandPath(c.Paths.RulesDB); err != nil {
		return fmt.Errorf("paths.rules_db: %w", err)
	}
	if c.Vocabulary.PaletteFile, err = expandPath(c.Vocabulary.PaletteFile); err != nil {
		return fmt.Errorf("vocabulary.palette_file: %w", err)
	}
	if c.Export.FontPath, err = expandPath(c.Export.FontPath); err != nil {
		return fmt.Errorf("export.font_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAtlas() {
	if c.Atlas.MaxDimension <= 0 {
		c.Atlas.MaxDimension = 4096
	}
	if c.Atlas.PaddingFactor <= 1.0 {
		c.Atlas.PaddingFactor = 1.2
	}
}

func (c *Config) normalizeExport() {
	if c.Export.PreviewSize <= 0 {
		c.Export.PreviewSize = 512
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// expandPath resolves ~ shortcuts and returns an absolute path. Empty
// input stays empty.
func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			trimmed = home
		} else {
			trimmed = filepath.Join(home, trimmed[2:])
		}
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}
