package main

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"envwatch/internal/config"
	"envwatch/internal/monitor"
	"envwatch/internal/store"
)

type commandContext struct {
	configFlag *string
	noColor    *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string, noColor *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		noColor:    noColor,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// requireConfig returns the loaded config, or monitor.ErrNotConfigured when no
// configuration file was found.
func (c *commandContext) requireConfig() (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !c.configExists {
		return nil, monitor.ErrNotConfigured
	}
	return cfg, nil
}

// presentConfig returns the loaded config when a file exists, nil otherwise.
func (c *commandContext) presentConfig() (*config.Config, error) {
	cfg, err := c.requireConfig()
	if errors.Is(err, monitor.ErrNotConfigured) {
		return nil, nil
	}
	return cfg, err
}

func (c *commandContext) openStore() (*config.Config, *store.Store, error) {
	cfg, err := c.requireConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func (c *commandContext) colorize(w io.Writer) bool {
	if c.noColor != nil && *c.noColor {
		return false
	}
	return shouldColorize(w)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
