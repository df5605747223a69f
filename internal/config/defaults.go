package config

// Default returns the repository default configuration before any file
// or environment overrides.
func Default() *Config {
	return &Config{
		Paths: Paths{
			Workspace: "~/.local/share/avatarforge",
			OutputDir: "~/avatarforge/bundles",
		},
		Atlas: Atlas{
			Enabled:       true,
			MaxDimension:  4096,
			PaddingFactor: 1.2,
		},
		Export: Export{
			Previews:    true,
			PreviewSize: 512,
			Readme:      true,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
