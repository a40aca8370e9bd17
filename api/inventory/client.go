package inventory

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/devicecloud-io/go-devicecloud/internal/httpclient"
	"github.com/devicecloud-io/go-devicecloud/internal/response"
	"github.com/devicecloud-io/go-devicecloud/observability"
)

const (
	managedObjectsPath = "/inventory/managedObjects"
	binariesPath       = "/inventory/binaries"

	// DefaultPageSize is the page size requested when the caller does not
	// specify one.
	DefaultPageSize = 100
)

// Client accesses the platform's inventory: managed objects and the binary
// repository.
type Client struct {
	http    httpclient.Doer
	baseURL string
	logger  observability.Logger
}

// Config holds configuration for the inventory client.
type Config struct {
	// BaseURL is the platform base URL (e.g. "https://acme.iot.example.com").
	BaseURL string

	// HTTPClient executes the requests. Defaults to a plain http.Client
	// with a 30s timeout; the aggregate client injects its middleware
	// chain here.
	HTTPClient httpclient.Doer

	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger observability.Logger
}

// New creates a new inventory client.
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

// ListOptions narrows a managed object listing.
type ListOptions struct {
	// PageSize overrides DefaultPageSize.
	PageSize int

	// Type filters on the managed object type.
	Type string

	// FragmentType filters on objects carrying the named fragment.
	FragmentType string

	// Query is a platform inventory query expression.
	Query string
}

func (o *ListOptions) values() url.Values {
	values := url.Values{}

	pageSize := DefaultPageSize
	if o != nil && o.PageSize > 0 {
		pageSize = o.PageSize
	}
	values.Set("pageSize", strconv.Itoa(pageSize))

	if o == nil {
		return values
	}
	if o.Type != "" {
		values.Set("type", o.Type)
	}
	if o.FragmentType != "" {
		values.Set("fragmentType", o.FragmentType)
	}
	if o.Query != "" {
		values.Set("query", o.Query)
	}
	return values
}

// ListManagedObjects retrieves one page of managed objects.
func (c *Client) ListManagedObjects(ctx context.Context, opts *ListOptions) (*ManagedObjectPage, error) {
	listURL := c.baseURL + managedObjectsPath + "?" + opts.values().Encode()
	return c.fetchPage(ctx, listURL)
}

// ListAllManagedObjects retrieves every page of a managed object listing by
// following the collection's next links.
func (c *Client) ListAllManagedObjects(ctx context.Context, opts *ListOptions) ([]ManagedObject, error) {
	var all []ManagedObject

	pageURL := c.baseURL + managedObjectsPath + "?" + opts.values().Encode()
	for pageURL != "" {
		page, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		if len(page.ManagedObjects) == 0 {
			break
		}
		all = append(all, page.ManagedObjects...)
		pageURL = page.Next
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (*ManagedObjectPage, error) {
	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list managed objects")
	}

	collection, err := response.Decode[managedObjectCollection](resp)
	if err != nil {
		return nil, err
	}

	return &ManagedObjectPage{
		ManagedObjects: collection.ManagedObjects,
		Next:           collection.Next,
		Statistics:     collection.Statistics,
	}, nil
}

// GetManagedObject retrieves a managed object by id.
func (c *Client) GetManagedObject(ctx context.Context, id string) (*ManagedObject, error) {
	if id == "" {
		return nil, errors.New("managed object id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, c.baseURL+managedObjectsPath+"/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get managed object %s", id)
	}

	return response.Decode[ManagedObject](resp)
}

// CreateManagedObject creates a new managed object and returns the
// platform's stored representation.
func (c *Client) CreateManagedObject(ctx context.Context, mo *ManagedObject) (*ManagedObject, error) {
	if mo == nil {
		return nil, errors.New("managed object is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodPost, c.baseURL+managedObjectsPath, mo)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create managed object")
	}

	return response.Decode[ManagedObject](resp)
}

// UpdateManagedObject applies a partial update to a managed object. Only the
// fields and fragments present in mo are touched; the platform merges them
// into the stored record.
func (c *Client) UpdateManagedObject(ctx context.Context, id string, mo *ManagedObject) (*ManagedObject, error) {
	if id == "" {
		return nil, errors.New("managed object id is required")
	}
	if mo == nil {
		return nil, errors.New("managed object is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodPut, c.baseURL+managedObjectsPath+"/"+id, mo)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update managed object %s", id)
	}

	return response.Decode[ManagedObject](resp)
}

// DeleteManagedObject deletes a managed object by id.
func (c *Client) DeleteManagedObject(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("managed object id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodDelete, c.baseURL+managedObjectsPath+"/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to delete managed object %s", id)
	}

	return response.Discard(resp)
}

// UploadBinary stores content in the inventory binary repository. meta
// provides the file name, type and content type; the returned Binary carries
// the id and self link assigned by the platform.
func (c *Client) UploadBinary(ctx context.Context, meta *Binary, content io.Reader) (*Binary, error) {
	if meta == nil || meta.Name == "" {
		return nil, errors.New("binary name is required")
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read binary content")
	}

	objectPart, err := httpclient.JSONPart("object", meta)
	if err != nil {
		return nil, err
	}

	req, err := httpclient.NewMultipartRequest(ctx, c.baseURL+binariesPath,
		objectPart,
		httpclient.Part{Name: "filesize", Content: strings.NewReader(strconv.Itoa(len(data)))},
		httpclient.Part{
			Name:        "file",
			Filename:    meta.Name,
			ContentType: meta.ContentType,
			Content:     bytes.NewReader(data),
		},
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upload binary %s", meta.Name)
	}

	return response.Decode[Binary](resp)
}

// DownloadBinary streams the content of a stored binary. The caller owns the
// returned reader and must close it. The second return value is the stored
// content type.
func (c *Client) DownloadBinary(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if id == "" {
		return nil, "", errors.New("binary id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+binariesPath+"/"+id, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to download binary %s", id)
	}

	if !response.Success(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, "", response.Error(resp)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// ReplaceBinary overwrites the content of a stored binary, keeping its id
// and metadata. contentType may be empty to keep the stored one.
func (c *Client) ReplaceBinary(ctx context.Context, id string, contentType string, content io.Reader) (*Binary, error) {
	if id == "" {
		return nil, errors.New("binary id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+binariesPath+"/"+id, content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to replace binary %s", id)
	}

	return response.Decode[Binary](resp)
}

// DeleteBinary removes a stored binary and its metadata.
func (c *Client) DeleteBinary(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("binary id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodDelete, c.baseURL+binariesPath+"/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to delete binary %s", id)
	}

	return response.Discard(resp)
}
