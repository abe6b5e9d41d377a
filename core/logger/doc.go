// Package logger provides a structured logging facility based on Zap.
//
// It builds a configured logger instance for development (console) or
// production (json) use. The WithRayID helper extracts the request id from a
// Fiber context and attaches it to the log entry, so all logs belonging to
// one upload/import request can be correlated.
//
// Usage:
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
