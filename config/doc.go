// Package config provides configuration loading and validation for
// services embedding transcriptkit.
//
// It uses Viper to load configuration from a YAML file with environment
// variable overrides, and godotenv to seed the environment from a .env
// file during development.
//
// # Usage
//
//	cfg, err := config.Load("transcript-bridge")
//	log := logger.New(&cfg.Logging, cfg.Name)
//	acc, err := accumulator.New(cfg.Accumulator, accumulator.WithLogger(log))
//
// Environment variables use the TRANSCRIPTKIT_ prefix with
// underscore-separated paths, e.g.
// TRANSCRIPTKIT_ACCUMULATOR_LOCK_WINDOW_SECONDS=3.5.
package config
