// Package config loads bridge and server settings from the environment.
//
// Every field has a default, so an empty environment yields a working
// configuration. Glue settings select the marshalling behavior:
//
//	GLUE_HASPROPERTY_WORKAROUND=true   skip HasProperty on indexed reads
//	GLUE_MISSING_INDEX=undefined       what a failed indexed read becomes
//	GLUE_WIDE_ENCODING=utf-16          native wide text encoding
//	GLUE_PROFILE=true                  record per-operation timings
//	GLUE_MANIFEST=plugins/**/*.yaml    graph manifests to load
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	addr := cfg.Server.Host + ":" + cfg.Server.Port
package config
