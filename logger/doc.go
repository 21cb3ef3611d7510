// Package logger provides structured logging for xfer using zerolog.
//
// It supports JSON and console output, level configuration, and loggers
// scoped to a component or to a single transfer handle.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("engine").WithHandle(id)
//	log.Debug("perform", logger.Fields(logger.FieldURL, u))
package logger
