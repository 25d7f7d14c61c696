/*
Package monitoring provides Prometheus metrics for the bridge and its
inspection server.

# Overview

Metrics are registered on the Registerer passed to NewMetrics, so tests
and embedded uses can keep them off the global registry.

# Features

- HTTP request metrics (latency, throughput, size)
- Plugin instance lifecycle
- Host proxy creation and live count
- Exceptions raised to the scripting host, by message
- Profiled glue operation durations (fed by profile.Recorder)
- Script evaluation counts and latency, pool usage
- Console WebSocket connections

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	timer := monitoring.NewTimer(metrics, "http")
	// ... evaluate script ...
	timer.Stop("success")
*/
package monitoring
