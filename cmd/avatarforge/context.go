package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"avatarforge/internal/automap"
	"avatarforge/internal/config"
	"avatarforge/internal/logging"
	"avatarforge/internal/rulestore"
	"avatarforge/internal/vocab"
)

// commandContext lazily materializes the shared pieces every command
// needs: configuration, a logger, the rule store, and the palette. Each
// is built at most once per invocation.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFileLogger(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		}, cfg.Paths.LogDir)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openRules() (*rulestore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return rulestore.Open(cfg)
}

// newMapper builds the rule engine: bootstrap rules plus every learned
// rule persisted in the store.
func (c *commandContext) newMapper(ctx context.Context) (*automap.Mapper, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	store, err := c.openRules()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	mapper := automap.New(logger)
	learned, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, rule := range learned {
		if _, err := mapper.AddLearned(rule); err != nil {
			logger.Warn("stored rule rejected", logging.Args(logging.Rule(rule.Pattern), logging.Error(err))...)
		}
	}
	return mapper, nil
}

// palette returns the configured slot vocabulary, or the built-in one.
func (c *commandContext) palette() (vocab.Palette, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return vocab.Palette{}, err
	}
	if cfg.Vocabulary.PaletteFile != "" {
		return vocab.Load(cfg.Vocabulary.PaletteFile)
	}
	return vocab.Default(), nil
}
