package smartrule

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/devicecloud-io/go-devicecloud/internal/httpclient"
	"github.com/devicecloud-io/go-devicecloud/internal/response"
	"github.com/devicecloud-io/go-devicecloud/observability"
)

const (
	smartRulesPath       = "/service/smartrule/smartrules"
	managedObjectsPrefix = "/service/smartrule/managedObjects"
)

// Client accesses the smart rule service.
type Client struct {
	http    httpclient.Doer
	baseURL string
	logger  observability.Logger
}

// Config holds configuration for the smart rule client.
type Config struct {
	// BaseURL is the platform base URL.
	BaseURL string

	// HTTPClient executes the requests. Defaults to a plain http.Client
	// with a 30s timeout.
	HTTPClient httpclient.Doer

	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger observability.Logger
}

// New creates a new smart rule client.
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

// ListSmartRules returns all tenant-wide smart rules.
func (c *Client) ListSmartRules(ctx context.Context) ([]SmartRule, error) {
	return c.list(ctx, c.baseURL+smartRulesPath)
}

// ListForManagedObject returns the smart rules attached to a managed object.
func (c *Client) ListForManagedObject(ctx context.Context, managedObjectID string) ([]SmartRule, error) {
	if managedObjectID == "" {
		return nil, errors.New("managed object id is required")
	}
	return c.list(ctx, c.baseURL+managedObjectsPrefix+"/"+managedObjectID+"/smartrules")
}

func (c *Client) list(ctx context.Context, listURL string) ([]SmartRule, error) {
	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list smart rules")
	}

	collection, err := response.Decode[smartRuleCollection](resp)
	if err != nil {
		return nil, err
	}
	return collection.Rules, nil
}

// GetSmartRule retrieves a smart rule by id.
func (c *Client) GetSmartRule(ctx context.Context, id string) (*SmartRule, error) {
	if id == "" {
		return nil, errors.New("smart rule id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, c.baseURL+smartRulesPath+"/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get smart rule %s", id)
	}

	return response.Decode[SmartRule](resp)
}

// CreateSmartRule creates a tenant-wide smart rule.
func (c *Client) CreateSmartRule(ctx context.Context, rule *SmartRule) (*SmartRule, error) {
	if rule == nil {
		return nil, errors.New("smart rule is required")
	}
	return c.create(ctx, c.baseURL+smartRulesPath, rule)
}

// CreateForManagedObject creates a smart rule attached to a managed object.
func (c *Client) CreateForManagedObject(ctx context.Context, managedObjectID string, rule *SmartRule) (*SmartRule, error) {
	if managedObjectID == "" {
		return nil, errors.New("managed object id is required")
	}
	if rule == nil {
		return nil, errors.New("smart rule is required")
	}
	return c.create(ctx, c.baseURL+managedObjectsPrefix+"/"+managedObjectID+"/smartrules", rule)
}

func (c *Client) create(ctx context.Context, createURL string, rule *SmartRule) (*SmartRule, error) {
	req, err := httpclient.NewJSONRequest(ctx, http.MethodPost, createURL, rule)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smart rule")
	}

	return response.Decode[SmartRule](resp)
}

// UpdateSmartRule replaces a smart rule definition.
func (c *Client) UpdateSmartRule(ctx context.Context, id string, rule *SmartRule) (*SmartRule, error) {
	if id == "" {
		return nil, errors.New("smart rule id is required")
	}
	if rule == nil {
		return nil, errors.New("smart rule is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodPut, c.baseURL+smartRulesPath+"/"+id, rule)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update smart rule %s", id)
	}

	return response.Decode[SmartRule](resp)
}

// DeleteSmartRule removes a smart rule.
func (c *Client) DeleteSmartRule(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("smart rule id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodDelete, c.baseURL+smartRulesPath+"/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to delete smart rule %s", id)
	}

	return response.Discard(resp)
}
