package config

import (
	"fmt"

	"github.com/kbukum/transcriptkit/accumulator"
	"github.com/kbukum/transcriptkit/logger"
)

// Config is the root configuration for a service embedding
// transcriptkit: identity, logging, and the accumulator tunables.
type Config struct {
	Name        string             `yaml:"name" mapstructure:"name"`
	Environment string             `yaml:"environment" mapstructure:"environment"`
	Debug       bool               `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config      `yaml:"logging" mapstructure:"logging"`
	Accumulator accumulator.Config `yaml:"accumulator" mapstructure:"accumulator"`
}

// ApplyDefaults applies default values to the whole configuration tree.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Accumulator.ApplyDefaults()
	// Debug propagates down so per-event logging follows the service flag.
	if c.Debug {
		c.Accumulator.Debug = true
	}
}

// Validate validates the whole configuration tree.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Accumulator.Validate(); err != nil {
		return fmt.Errorf("config.accumulator: %w", err)
	}
	return nil
}
