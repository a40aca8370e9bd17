package simulator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/devicecloud-io/go-devicecloud/api/identity"
	"github.com/devicecloud-io/go-devicecloud/internal/httpclient"
	"github.com/devicecloud-io/go-devicecloud/internal/response"
	"github.com/devicecloud-io/go-devicecloud/internal/retry"
	"github.com/devicecloud-io/go-devicecloud/observability"
)

const (
	simulatorsPath = "/service/device-simulator/simulators"

	// The simulator service intermittently rejects writes while its backend
	// provisions devices, so create and update retry this many times with a
	// fixed pause in between.
	writeAttempts = 5

	// deviceIdentityType is the external id type under which the backend
	// registers the device objects it derives from a simulator.
	deviceIdentityType = "c8y_DeviceSimulator"
)

// IdentityResolver resolves external ids to managed objects. The identity
// client satisfies it.
type IdentityResolver interface {
	GetExternalID(ctx context.Context, idType, idValue string) (*identity.ExternalID, error)
}

// Client accesses the device simulator service.
type Client struct {
	http     httpclient.Doer
	baseURL  string
	logger   observability.Logger
	identity IdentityResolver

	retryWait   time.Duration
	settleDelay time.Duration
}

// Config holds configuration for the simulator client.
type Config struct {
	// BaseURL is the platform base URL.
	BaseURL string

	// HTTPClient executes the requests. Defaults to a plain http.Client
	// with a 30s timeout.
	HTTPClient httpclient.Doer

	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger observability.Logger

	// Identity resolves the external ids of derived devices. Required only
	// for CreateAndAwaitDevices.
	Identity IdentityResolver
}

// New creates a new simulator client.
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
		http:        httpDoer,
		baseURL:     cfg.BaseURL,
		logger:      logger,
		identity:    cfg.Identity,
		retryWait:   time.Second,
		settleDelay: time.Second,
	}, nil
}

// ListSimulators returns all simulator definitions. The service responds
// with a bare JSON array, not the collection envelope the core APIs use.
func (c *Client) ListSimulators(ctx context.Context) ([]Simulator, error) {
	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, c.baseURL+simulatorsPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list simulators")
	}

	simulators, err := response.Decode[[]Simulator](resp)
	if err != nil {
		return nil, err
	}
	return *simulators, nil
}

// GetSimulator retrieves a simulator definition by id.
func (c *Client) GetSimulator(ctx context.Context, id string) (*Simulator, error) {
	if id == "" {
		return nil, errors.New("simulator id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodGet, c.baseURL+simulatorsPath+"/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get simulator %s", id)
	}

	return response.Decode[Simulator](resp)
}

// CreateSimulator creates a simulator definition, retrying transient
// rejections from the service.
func (c *Client) CreateSimulator(ctx context.Context, sim *Simulator) (*Simulator, error) {
	if sim == nil {
		return nil, errors.New("simulator is required")
	}

	var created *Simulator
	err := retry.Do(ctx, writeAttempts, c.retryWait, func(ctx context.Context) error {
		req, err := httpclient.NewJSONRequest(ctx, http.MethodPost, c.baseURL+simulatorsPath, sim)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}

		created, err = response.Decode[Simulator](resp)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create simulator")
	}

	return created, nil
}

// UpdateSimulator replaces a simulator definition, retrying transient
// rejections from the service.
func (c *Client) UpdateSimulator(ctx context.Context, id string, sim *Simulator) (*Simulator, error) {
	if id == "" {
		return nil, errors.New("simulator id is required")
	}
	if sim == nil {
		return nil, errors.New("simulator is required")
	}

	var updated *Simulator
	err := retry.Do(ctx, writeAttempts, c.retryWait, func(ctx context.Context) error {
		req, err := httpclient.NewJSONRequest(ctx, http.MethodPut, c.baseURL+simulatorsPath+"/"+id, sim)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}

		updated, err = response.Decode[Simulator](resp)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update simulator %s", id)
	}

	return updated, nil
}

// DeleteSimulator removes a simulator definition and its derived devices.
func (c *Client) DeleteSimulator(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("simulator id is required")
	}

	req, err := httpclient.NewJSONRequest(ctx, http.MethodDelete, c.baseURL+simulatorsPath+"/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to delete simulator %s", id)
	}

	return response.Discard(resp)
}

// CreateAndAwaitDevices creates a simulator, waits for the backend to settle,
// then resolves the device managed objects the backend derived, one per
// instance. Devices whose identities cannot be resolved yet are logged and
// skipped, so the returned slice may be shorter than the instance count.
func (c *Client) CreateAndAwaitDevices(ctx context.Context, sim *Simulator) (*Simulator, []identity.Source, error) {
	if c.identity == nil {
		return nil, nil, errors.New("identity resolver is required to await devices")
	}

	created, err := c.CreateSimulator(ctx, sim)
	if err != nil {
		return nil, nil, err
	}

	// The backend registers device identities asynchronously; give it a
	// moment before polling.
	select {
	case <-time.After(c.settleDelay):
	case <-ctx.Done():
		return created, nil, errors.Wrap(ctx.Err(), "cancelled while waiting for simulator devices")
	}

	instances := created.Instances
	if instances < 1 {
		instances = 1
	}

	devices := make([]identity.Source, 0, instances)
	for n := 1; n <= instances; n++ {
		idValue := fmt.Sprintf("%s_%d", created.ID, n)

		ext, err := c.identity.GetExternalID(ctx, deviceIdentityType, idValue)
		if err != nil {
			c.logger.Warn("simulator device not resolvable yet",
				observability.Field{Key: "simulator_id", Value: created.ID},
				observability.Field{Key: "external_id", Value: idValue},
				observability.Field{Key: "error", Value: err.Error()})
			continue
		}
		if ext.ManagedObject == nil {
			c.logger.Warn("simulator device identity has no managed object",
				observability.Field{Key: "simulator_id", Value: created.ID},
				observability.Field{Key: "external_id", Value: idValue})
			continue
		}

		devices = append(devices, *ext.ManagedObject)
	}

	return created, devices, nil
}
