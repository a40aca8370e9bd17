package middleware

import (
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devicecloud-io/go-devicecloud/observability"
)

// Observability returns a middleware that logs and records metrics for HTTP
// requests. Every outgoing request is tagged with an X-Request-Id header so
// client logs can be correlated with the platform's audit records.
func Observability(logger observability.Logger, metrics observability.MetricsRecorder) func(http.RoundTripper) http.RoundTripper {
	if logger == nil {
		logger = observability.NoopLogger()
	}
	if metrics == nil {
		metrics = observability.NoopMetricsRecorder()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return &observabilityTransport{
			next:    next,
			logger:  logger,
			metrics: metrics,
		}
	}
}

type observabilityTransport struct {
	next    http.RoundTripper
	logger  observability.Logger
	metrics observability.MetricsRecorder
}

func (t *observabilityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := req.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
		req = cloneRequest(req)
		req.Header.Set("X-Request-Id", requestID)
	}

	urlStr := req.URL.String()

	t.logger.Debug("http request started",
		observability.Field{Key: "method", Value: req.Method},
		observability.Field{Key: "url", Value: urlStr},
		observability.Field{Key: "request_id", Value: requestID},
	)

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		t.logger.Error("http request failed",
			observability.Field{Key: "method", Value: req.Method},
			observability.Field{Key: "url", Value: urlStr},
			observability.Field{Key: "request_id", Value: requestID},
			observability.Field{Key: "duration", Value: duration},
			observability.Field{Key: "error", Value: err.Error()},
		)

		t.metrics.RecordError("http_request", "NetworkError")

		//nolint:wrapcheck // Observability middleware logs the error but passes it through unchanged
		return nil, err
	}

	fields := []observability.Field{
		{Key: "method", Value: req.Method},
		{Key: "url", Value: urlStr},
		{Key: "request_id", Value: requestID},
		{Key: "status", Value: resp.StatusCode},
		{Key: "duration", Value: duration},
	}

	if resp.StatusCode >= http.StatusBadRequest {
		t.logger.Warn("http request completed with error", fields...)
	} else {
		t.logger.Debug("http request completed", fields...)
	}

	// Record metrics with normalized path to avoid unbounded cardinality
	t.metrics.RecordHTTPRequest(req.Method, normalizePath(req.URL.Path), resp.StatusCode, duration)

	return resp, nil
}

var (
	// collectionIDPattern matches an entity id following one of the platform's
	// collection segments: /inventory/managedObjects/{id}, /application/
	// applications/{id}, /inventory/binaries/{id}, simulator and smart-rule
	// ids, and /identity/globalIds/{id}.
	collectionIDPattern = regexp.MustCompile(`(/(?:managedObjects|applications|applicationsByTenant|binaries|simulators|smartrules|globalIds))/[^/]+`)

	// externalIDPattern matches the two-segment external id address:
	// /identity/externalIds/{type}/{value}.
	externalIDPattern = regexp.MustCompile(`/externalIds/[^/]+/[^/]+$`)

	// normalizedPathCache caches normalized paths to avoid repeated regex
	// operations. The platform exposes a fixed endpoint set, so the cache
	// stays small and nearly always hits.
	normalizedPathCache sync.Map
)

// normalizePath replaces dynamic path segments (object ids, external id
// type/value pairs) with placeholders to prevent unbounded cardinality in
// metrics labels.
//
// Examples:
//   - /inventory/managedObjects/84112 → /inventory/managedObjects/:id
//   - /identity/externalIds/c8y_Serial/ab-12 → /identity/externalIds/:type/:value
//   - /service/smartrule/managedObjects/84112/smartrules → /service/smartrule/managedObjects/:id/smartrules
func normalizePath(path string) string {
	if cached, ok := normalizedPathCache.Load(path); ok {
		//nolint:forcetypeassert // Cache only stores strings, type assertion is safe
		return cached.(string)
	}

	normalized := externalIDPattern.ReplaceAllString(path, "/externalIds/:type/:value")
	normalized = collectionIDPattern.ReplaceAllString(normalized, "$1/:id")

	normalizedPathCache.Store(path, normalized)

	return normalized
}
