package application

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/devicecloud-io/go-devicecloud/internal/httpclient"
	"github.com/devicecloud-io/go-devicecloud/internal/response"
	"github.com/devicecloud-io/go-devicecloud/observability"
)

const applicationsPath = "/application/applications"

// Client accesses the platform's application registry.
//
// ListApplications memoizes its result: the first call fetches from the
// platform, later calls serve the cached slice until a mutating call or
// InvalidateCache drops it.
type Client struct {
	http    httpclient.Doer
	baseURL string
	logger  observability.Logger

	mu     sync.RWMutex
	cached []Application
	valid  bool
}

// Config holds configuration for the application client.
type Config struct {
	// BaseURL is the platform base URL.
	BaseURL string

	// HTTPClient executes the requests. Defaults to a plain http.Client
	// with a 30s timeout.
	HTTPClient httpclient.Doer

	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger observability.Logger
}

// New creates a new application client.
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
	}, nil
}

// ListApplications returns the tenant's applications, serving from the cache
// when one is present. The returned slice is a copy; callers may modify it.
func (c *Client) ListApplications(ctx context.Context) ([]Application, error) {
	c.mu.RLock()
	if c.valid {
		apps := make([]Application, len(c.cached))
		copy(apps, c.cached)
		c.mu.RUnlock()
		return apps, nil
	}
	c.mu.RUnlock()

	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, c.baseURL+applicationsPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list applications")
	}

	collection, err := response.Decode[applicationCollection](resp)
	if err != nil {
		return nil, err
	}

	// Concurrent fetches may race here; the last one wins, which is fine
	// since each holds a complete fresh listing.
	c.mu.Lock()
	c.cached = collection.Applications
	c.valid = true
	c.mu.Unlock()

	apps := make([]Application, len(collection.Applications))
	copy(apps, collection.Applications)
	return apps, nil
}

// FindByName returns the application with the given name, or nil when no
// application matches. It goes through the list cache.
func (c *Client) FindByName(ctx context.Context, name string) (*Application, error) {
	if name == "" {
		return nil, errors.New("application name is required")
	}

	apps, err := c.ListApplications(ctx)
	if err != nil {
		return nil, err
	}

	for i := range apps {
		if apps[i].Name == name {
			return &apps[i], nil
		}
	}
	return nil, nil
}

// GetApplication retrieves an application by id.
func (c *Client) GetApplication(ctx context.Context, id string) (*Application, error) {
	if id == "" {
		return nil, errors.New("application id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, c.baseURL+applicationsPath+"/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get application %s", id)
	}

	return response.Decode[Application](resp)
}

// CreateApplication registers a new application and invalidates the list
// cache.
func (c *Client) CreateApplication(ctx context.Context, app *Application) (*Application, error) {
	if app == nil {
		return nil, errors.New("application is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodPost, c.baseURL+applicationsPath, app)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create application")
	}

	created, err := response.Decode[Application](resp)
	if err != nil {
		return nil, err
	}

	c.InvalidateCache()
	return created, nil
}

// UpdateApplication applies a partial update to an application and
// invalidates the list cache.
func (c *Client) UpdateApplication(ctx context.Context, id string, app *Application) (*Application, error) {
	if id == "" {
		return nil, errors.New("application id is required")
	}
	if app == nil {
		return nil, errors.New("application is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodPut, c.baseURL+applicationsPath+"/"+id, app)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update application %s", id)
	}

	updated, err := response.Decode[Application](resp)
	if err != nil {
		return nil, err
	}

	c.InvalidateCache()
	return updated, nil
}

// DeleteApplication removes an application and invalidates the list cache.
func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("application id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodDelete, c.baseURL+applicationsPath+"/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to delete application %s", id)
	}

	if err := response.Discard(resp); err != nil {
		return err
	}

	c.InvalidateCache()
	return nil
}

// InvalidateCache drops the memoized application list. The next
// ListApplications call fetches a fresh listing.
func (c *Client) InvalidateCache() {
	c.mu.Lock()
	c.cached = nil
	c.valid = false
	c.mu.Unlock()
}

// ListBinaries returns the attachments uploaded to an application.
func (c *Client) ListBinaries(ctx context.Context, appID string) ([]Binary, error) {
	if appID == "" {
		return nil, errors.New("application id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, c.binariesURL(appID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list binaries of application %s", appID)
	}

	collection, err := response.Decode[binaryCollection](resp)
	if err != nil {
		return nil, err
	}
	return collection.Attachments, nil
}

// UploadBinary attaches a file to an application, e.g. a hosted
// application's zip archive.
func (c *Client) UploadBinary(ctx context.Context, appID, filename string, content io.Reader) (*Binary, error) {
	if appID == "" {
		return nil, errors.New("application id is required")
	}
	if filename == "" {
		return nil, errors.New("filename is required")
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read binary content")
	}

	req, err := httpclient.NewMultipartRequest(ctx, c.binariesURL(appID), httpclient.Part{
		Name:     "file",
		Filename: filename,
		Content:  bytes.NewReader(data),
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upload binary to application %s", appID)
	}

	return response.Decode[Binary](resp)
}

// DeleteBinary removes an attachment from an application.
func (c *Client) DeleteBinary(ctx context.Context, appID, binaryID string) error {
	if appID == "" {
		return errors.New("application id is required")
	}
	if binaryID == "" {
		return errors.New("binary id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodDelete, c.binariesURL(appID)+"/"+binaryID, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to delete binary %s of application %s", binaryID, appID)
	}

	return response.Discard(resp)
}

func (c *Client) binariesURL(appID string) string {
	return c.baseURL + applicationsPath + "/" + appID + "/binaries"
}
