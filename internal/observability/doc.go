// Package observability provides structured logging and metrics for the
// casting API.
//
// This package implements:
//   - zap logger construction from level and format settings
//   - Prometheus HTTP request metrics on a private registry
//   - Request ID propagation into log fields
package observability
