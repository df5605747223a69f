package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	Workspace string `toml:"workspace"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	RulesDB   string `toml:"rules_db"`
}

// Atlas contains atlas packing configuration.
type Atlas struct {
	Enabled       bool    `toml:"enabled"`
	MaxDimension  int     `toml:"max_dimension"`
	PaddingFactor float64 `toml:"padding_factor"`
}

// Export contains bundle export configuration.
type Export struct {
	Previews    bool   `toml:"previews"`
	PreviewSize int    `toml:"preview_size"`
	Readme      bool   `toml:"readme"`
	FontPath    string `toml:"font_path"`
}

// Vocabulary contains slot palette configuration.
type Vocabulary struct {
	PaletteFile string `toml:"palette_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for avatarforge.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Atlas      Atlas      `toml:"atlas"`
	Export     Export     `toml:"export"`
	Vocabulary Vocabulary `toml:"vocabulary"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default
// configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/avatarforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all defaults applied and paths expanded. The second return
// value reports the path that was read (empty when defaults were used),
// the third whether a file was found at all.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, found, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if found {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			return nil, resolved, true, fmt.Errorf("read config %s: %w", resolved, readErr)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolved, found, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, found, err
	}
	return cfg, resolved, found, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	candidates := make([]string, 0, 3)
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		expanded, err := expandPath(trimmed)
		if err != nil {
			return "", false, err
		}
		if _, statErr := os.Stat(expanded); statErr != nil {
			return "", false, fmt.Errorf("config file %s: %w", expanded, statErr)
		}
		return expanded, true, nil
	}
	if env := strings.TrimSpace(os.Getenv("AVATARFORGE_CONFIG")); env != "" {
		candidates = append(candidates, env)
	}
	if def, err := DefaultConfigPath(); err == nil {
		candidates = append(candidates, def)
	}
	for _, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if _, statErr := os.Stat(expanded); statErr == nil {
			return expanded, true, nil
		} else if !errors.Is(statErr, fs.ErrNotExist) {
			return "", false, fmt.Errorf("config file %s: %w", expanded, statErr)
		}
	}
	return "", false, nil
}

// EnsureDirectories creates the workspace, output, and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.Workspace, c.Paths.OutputDir}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RulesDBPath returns the resolved learned-rules database location.
func (c *Config) RulesDBPath() string {
	if c.Paths.RulesDB != "" {
		return c.Paths.RulesDB
	}
	return filepath.Join(c.Paths.Workspace, "rules.db")
}

// LockPath returns the advisory lock file guarding exports.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.Workspace, "export.lock")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(expanded); statErr == nil {
		return fmt.Errorf("config file already exists: %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}
