// Package server exposes a plugin over HTTP for inspection and scripting.
//
// Routes:
//   - GET  /             plugin name, description and MIME types
//   - GET  /health       session pool and class registry statistics
//   - GET  /classes      registered native classes
//   - GET  /graph        the namespace tree an instance is built with
//   - POST /eval         run a script against a pooled instance
//   - GET  /console      WebSocket REPL with a dedicated instance
//   - GET  /metrics      Prometheus metrics (/metrics/json for a summary)
//
// Every response carries X-Trace-ID and X-Span-ID headers; passing them in
// continues an existing trace.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
