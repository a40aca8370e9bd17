package identity

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/devicecloud-io/go-devicecloud/internal/httpclient"
	"github.com/devicecloud-io/go-devicecloud/internal/response"
	"github.com/devicecloud-io/go-devicecloud/observability"
)

const (
	globalIDsPath   = "/identity/globalIds"
	externalIDsPath = "/identity/externalIds"
)

// Client accesses the platform's identity service.
//
// ListExternalIDs is best-effort by contract: lookup failures are logged and
// yield an empty slice, never an error. Successful lookups are cached per
// managed object id until InvalidateCache.
type Client struct {
	http    httpclient.Doer
	baseURL string
	logger  observability.Logger

	mu    sync.RWMutex
	cache map[string][]ExternalID
}

// Config holds configuration for the identity client.
type Config struct {
	// BaseURL is the platform base URL.
	BaseURL string

	// HTTPClient executes the requests. Defaults to a plain http.Client
	// with a 30s timeout.
	HTTPClient httpclient.Doer

	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger observability.Logger
}

// New creates a new identity client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	httpDoer := cfg.HTTPClient
	if httpDoer == nil {
		httpDoer = httpclient.New()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NoopLogger()
	}

	return &Client{
		http:    httpDoer,
		baseURL: cfg.BaseURL,
		logger:  logger,
		cache:   make(map[string][]ExternalID),
	}, nil
}

// ListExternalIDs returns the external ids registered for a managed object.
// Results are cached per id. A failed lookup is logged at Warn and returns
// an empty slice with a nil error; callers enumerate what the identity
// service can currently answer for.
func (c *Client) ListExternalIDs(ctx context.Context, managedObjectID string) ([]ExternalID, error) {
	if managedObjectID == "" {
		return nil, errors.New("managed object id is required")
	}

	c.mu.RLock()
	ids, ok := c.cache[managedObjectID]
	c.mu.RUnlock()
	if ok {
		return ids, nil
	}

	listURL := c.baseURL + globalIDsPath + "/" + managedObjectID + "/externalIds"

	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("external id lookup failed",
			observability.Field{Key: "managed_object_id", Value: managedObjectID},
			observability.Field{Key: "error", Value: err.Error()})
		return []ExternalID{}, nil
	}

	collection, err := response.Decode[externalIDCollection](resp)
	if err != nil {
		c.logger.Warn("external id lookup failed",
			observability.Field{Key: "managed_object_id", Value: managedObjectID},
			observability.Field{Key: "error", Value: err.Error()})
		return []ExternalID{}, nil
	}

	// Only successes enter the cache: a transient identity-service outage
	// must not pin empty results.
	c.mu.Lock()
	c.cache[managedObjectID] = collection.ExternalIDs
	c.mu.Unlock()

	return collection.ExternalIDs, nil
}

// GetExternalID resolves one external id to its record. Unlike
// ListExternalIDs this propagates failures: callers use it when they need a
// definitive resolve-or-error answer.
func (c *Client) GetExternalID(ctx context.Context, idType, idValue string) (*ExternalID, error) {
	if idType == "" || idValue == "" {
		return nil, errors.New("external id type and value are required")
	}

	getURL := c.baseURL + externalIDsPath + "/" +
		url.PathEscape(idType) + "/" + url.PathEscape(idValue)

	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get external id %s/%s", idType, idValue)
	}

	return response.Decode[ExternalID](resp)
}

// CreateExternalID registers an external id for a managed object and drops
// that object's cache entry.
func (c *Client) CreateExternalID(ctx context.Context, managedObjectID string, ext *ExternalID) (*ExternalID, error) {
	if managedObjectID == "" {
		return nil, errors.New("managed object id is required")
	}
	if ext == nil {
		return nil, errors.New("external id is required")
	}

	createURL := c.baseURL + globalIDsPath + "/" + managedObjectID + "/externalIds"

	req, err := httpclient.NewJSONRequest(ctx, http.MethodPost, createURL, ext)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create external id for %s", managedObjectID)
	}

	created, err := response.Decode[ExternalID](resp)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	delete(c.cache, managedObjectID)
	c.mu.Unlock()

	return created, nil
}

// InvalidateCache drops every cached external id listing.
func (c *Client) InvalidateCache() {
	c.mu.Lock()
	c.cache = make(map[string][]ExternalID)
	c.mu.Unlock()
}
