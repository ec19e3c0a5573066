// Package validation provides input validation utilities for transcriptkit
// configuration types.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// recommended for configuration structs.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    LockWindowSeconds float64 `validate:"gt=0"`
//	}
//	err := validation.ValidateStruct(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Positive("lock_window_seconds", cfg.LockWindowSeconds)
//	err := v.Validate()
package validation
