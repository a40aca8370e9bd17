package devicecloud

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/devicecloud-io/go-devicecloud/api/application"
	"github.com/devicecloud-io/go-devicecloud/api/identity"
	"github.com/devicecloud-io/go-devicecloud/api/inventory"
	"github.com/devicecloud-io/go-devicecloud/api/simulator"
	"github.com/devicecloud-io/go-devicecloud/api/smartrule"
	"github.com/devicecloud-io/go-devicecloud/internal/httpclient"
	"github.com/devicecloud-io/go-devicecloud/internal/middleware"
	"github.com/devicecloud-io/go-devicecloud/internal/ratelimit"
	"github.com/devicecloud-io/go-devicecloud/observability"
)

const (
	// DefaultRateLimit is the default request budget per minute. Platform
	// tenants throttle around this order of magnitude.
	DefaultRateLimit = 600

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryWaitTime is the initial wait between transport-level
	// retries when MaxRetries is enabled.
	DefaultRetryWaitTime = 1 * time.Second
)

// Client is the aggregate platform client. All five API surfaces share one
// configured HTTP stack: authentication, request ids, logging, metrics and
// rate limiting apply uniformly.
type Client struct {
	// Applications accesses the application registry.
	Applications *application.Client

	// Inventory accesses managed objects and the binary repository.
	Inventory *inventory.Client

	// Identity accesses external id mappings.
	Identity *identity.Client

	// Simulators accesses the device simulator service.
	Simulators *simulator.Client

	// SmartRules accesses the smart rule service.
	SmartRules *smartrule.Client

	httpClient *httpclient.Client
}

// ClientConfig holds configuration for the aggregate client.
type ClientConfig struct {
	// BaseURL is the platform base URL (e.g. "https://acme.iot.example.com").
	BaseURL string

	// Tenant, Username and Password configure basic authentication as
	// "tenant/username". Ignored when Token is set.
	Tenant   string
	Username string
	Password string

	// Token configures bearer token authentication. Takes precedence over
	// basic credentials.
	Token string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *http.Client

	// InsecureSkipVerify disables TLS certificate verification. Only for
	// development tenants with self-signed certificates.
	InsecureSkipVerify bool

	// RateLimitPerMinute sets the request budget (defaults to
	// DefaultRateLimit; negative disables throttling).
	RateLimitPerMinute int

	// MaxRetries enables transport-level retries for failed requests.
	// Zero (the default) leaves failures to surface unchanged; the
	// device-simulator surface carries its own fixed retry loop either way.
	MaxRetries int

	// RetryWaitTime sets the initial wait between transport-level retries.
	RetryWaitTime time.Duration

	// Timeout sets the HTTP client timeout.
	Timeout time.Duration

	// Logger receives structured diagnostics (defaults to a no-op logger).
	Logger observability.Logger

	// Metrics receives request metrics (defaults to a no-op recorder).
	Metrics observability.MetricsRecorder
}

// New creates a client with basic authentication and default settings.
func New(baseURL, tenant, username, password string) (*Client, error) {
	return NewWithConfig(ClientConfig{
		BaseURL:  baseURL,
		Tenant:   tenant,
		Username: username,
		Password: password,
	})
}

// NewWithConfig creates a client from a full configuration.
func NewWithConfig(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if cfg.Token == "" && (cfg.Username == "" || cfg.Password == "") {
		return nil, errors.New("either a token or username and password are required")
	}

	if cfg.RateLimitPerMinute == 0 {
		cfg.RateLimitPerMinute = DefaultRateLimit
	}
	if cfg.RetryWaitTime == 0 {
		cfg.RetryWaitTime = DefaultRetryWaitTime
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NoopLogger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NoopMetricsRecorder()
	}

	// First middleware is outermost: observe everything, throttle before
	// sending, authenticate last so retried requests re-carry credentials.
	middlewares := []httpclient.Middleware{
		middleware.Observability(logger, metrics),
	}

	if cfg.RateLimitPerMinute > 0 {
		middlewares = append(middlewares, middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: ratelimit.NewRateLimiter(cfg.RateLimitPerMinute),
			Logger:  logger,
			Metrics: metrics,
		}))
	}

	if cfg.MaxRetries > 0 {
		middlewares = append(middlewares, middleware.Retry(middleware.RetryConfig{
			MaxRetries:  cfg.MaxRetries,
			InitialWait: cfg.RetryWaitTime,
			Logger:      logger,
			Metrics:     metrics,
		}))
	}

	if cfg.Token != "" {
		middlewares = append(middlewares, middleware.BearerAuth(cfg.Token))
	} else {
		middlewares = append(middlewares, middleware.BasicAuth(cfg.Tenant, cfg.Username, cfg.Password))
	}

	if cfg.InsecureSkipVerify {
		middlewares = append(middlewares, middleware.TLSConfig(middleware.InsecureSkipVerify()))
	}

	opts := []httpclient.Option{
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithMiddleware(middlewares...),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, httpclient.WithHTTPClient(cfg.HTTPClient))
	}

	httpClient := httpclient.New(opts...)

	applications, err := application.New(&application.Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create application client")
	}

	inventoryClient, err := inventory.New(&inventory.Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create inventory client")
	}

	identityClient, err := identity.New(&identity.Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create identity client")
	}

	simulators, err := simulator.New(&simulator.Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
		Identity:   identityClient,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create simulator client")
	}

	smartRules, err := smartrule.New(&smartrule.Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smart rule client")
	}

	return &Client{
		Applications: applications,
		Inventory:    inventoryClient,
		Identity:     identityClient,
		Simulators:   simulators,
		SmartRules:   smartRules,
		httpClient:   httpClient,
	}, nil
}

// InvalidateCaches drops every cache the client holds: the application list
// and all cached external id lookups.
func (c *Client) InvalidateCaches() {
	c.Applications.InvalidateCache()
	c.Identity.InvalidateCache()
}

// HTTPClient exposes the configured HTTP client for callers that need to hit
// platform endpoints this SDK does not cover.
func (c *Client) HTTPClient() *httpclient.Client {
	return c.httpClient
}
