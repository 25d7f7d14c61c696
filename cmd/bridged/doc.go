// Package main runs the script bridge server.
//
// The server loads a plugin manifest, builds one namespace graph per
// script instance and exposes it to JavaScript as the global "plugin".
//
// Configuration:
//   - Environment variables (PORT, GLUE_*, SCRIPT_*, POOL_SIZE, LOG_*)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Built-in Hello World plugin
//	./bridged -port 8000
//
//	# Custom manifests, profiling on
//	./bridged -manifest 'plugins/*.yaml' -profile
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
