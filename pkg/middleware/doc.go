// Package middleware provides net/http middleware for the page
// server: Prometheus request metrics, OpenTelemetry tracing, and
// structured request logging. All middleware composes with chi.
package middleware
