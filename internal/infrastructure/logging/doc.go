// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Plugin instances log through Instance(id) children so every line
// carries the instance id; runtime console output is forwarded at the
// matching level.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	inst := logger.Instance(id.NewInstanceID().String())
//	inst.Warn("exception", zap.String("message", "unknown property"))
package logging
