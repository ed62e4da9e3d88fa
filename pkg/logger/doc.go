// Package logger provides a structured logging interface for igflash.
//
// It wraps zerolog and exposes field-oriented helpers:
//
//	log, err := logger.New(&cfg.Logging)
//	log.WithField("login", "natgeo").Info("fetching feed")
//	log.WarnWithFields("upstream failed", map[string]interface{}{
//	    "status": 502,
//	    "url":    url,
//	})
//
// Console output is written to stderr. When a log file is configured, entries
// are also appended to it as JSON. NewTestLogger captures messages in memory
// for assertions, NewNopLogger discards them.
package logger
