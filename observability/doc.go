// Package observability provides interfaces for logging and metrics collection
// in the go-devicecloud library.
//
// This package defines standard interfaces that allow users to integrate their
// own logging and metrics implementations with the platform API clients.
//
// # Logger Interface
//
// The Logger interface supports structured logging with key-value pairs:
//
//	logger := observability.NewSlogLogger(slog.Default())
//	client, err := devicecloud.NewWithConfig(&devicecloud.ClientConfig{
//		BaseURL:  baseURL,
//		Tenant:   tenant,
//		Username: username,
//		Password: password,
//		Logger:   logger,
//	})
//
// Supported log levels:
//   - Debug: Detailed diagnostic information
//   - Info: General informational messages
//   - Warn: Warning messages for potentially problematic situations
//     (degraded identity lookups, retried simulator requests)
//   - Error: Error messages for failures
//
// # MetricsRecorder Interface
//
// The MetricsRecorder interface tracks API client metrics:
//
//	metrics := myMetricsRecorder{} // implements observability.MetricsRecorder
//	client, err := devicecloud.NewWithConfig(&devicecloud.ClientConfig{
//		BaseURL: baseURL,
//		Tenant:  tenant,
//		Token:   token,
//		Metrics: metrics,
//	})
//
// Tracked metrics include:
//   - HTTP request count, status codes, and duration
//   - Retry attempts for failed requests
//   - Rate limiting events and wait times
//   - Cache hits and misses for memoized lookups
//   - Error occurrences by type
//
// # Default Behavior
//
// If no logger or metrics recorder is provided, the clients use no-op
// implementations that discard all events. This ensures zero overhead
// when observability is not needed.
package observability
