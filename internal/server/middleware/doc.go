// Package middleware holds the gin middleware of the inspection server:
// CORS and per-client rate limiting.
package middleware
