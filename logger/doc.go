// Package logger provides structured logging for transcriptkit using
// zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("accumulator")
//	log.Info("fence advanced", logger.Fields("fence", 2.0))
package logger
