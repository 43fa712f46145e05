package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Awatif2003/marinesafe/core"
	"github.com/Awatif2003/marinesafe/transport"
)

const (
	weatherPath    = "/weather"
	locationsPath  = "/locations"
	alertsPath     = "/alerts"
	iotDataPath    = "/iot/data"
	iotHealthPath  = "/iot/health"
	createUserPath = "/create-user"
)

// Doer is the executor surface the client needs; satisfied by
// *transport.Executor.
type Doer interface {
	Execute(ctx context.Context, req transport.Request) (transport.Response, error)
	AuthenticatedDo(ctx context.Context, req transport.Request) (transport.Response, error)
}

type ActiveEndpoint interface {
	Active() string
}

// Client performs the domain calls. The active URL and the stored token are
// re-resolved on every call; nothing is cached across calls.
type Client struct {
	doer     Doer
	endpoint ActiveEndpoint
	observer *core.Observer
	now      func() time.Time
}

type ClientOption func(*Client)

func WithObserver(observer *core.Observer) ClientOption {
	return func(c *Client) {
		c.observer = observer
	}
}

func WithNowFunc(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func New(doer Doer, endpoint ActiveEndpoint, options ...ClientOption) (*Client, error) {
	if doer == nil {
		return nil, core.NewBadInputError("client: request executor is required", nil)
	}
	if endpoint == nil {
		return nil, core.NewBadInputError("client: active endpoint source is required", nil)
	}
	c := &Client{
		doer:     doer,
		endpoint: endpoint,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Weather fetches the current observations. Any surfaced failure degrades
// to flagged fallback data instead of leaving the caller empty-handed;
// an invalidated token is the one error propagated, since only a fresh
// login can fix it.
func (c *Client) Weather(ctx context.Context) (core.Result[[]core.WeatherObservation], error) {
	return fetchList(ctx, c, "weather", weatherPath, fallbackWeather)
}

func (c *Client) Locations(ctx context.Context) (core.Result[[]core.LocationFix], error) {
	return fetchList(ctx, c, "locations", locationsPath, fallbackLocations)
}

func (c *Client) Alerts(ctx context.Context) (core.Result[[]core.Alert], error) {
	return fetchList(ctx, c, "alerts", alertsPath, fallbackAlerts)
}

func (c *Client) CreateAlert(ctx context.Context, input core.AlertInput) (core.Alert, error) {
	if strings.TrimSpace(input.Message) == "" {
		return core.Alert{}, core.NewBadInputError("client: alert message is required", nil)
	}
	body, err := json.Marshal(input)
	if err != nil {
		return core.Alert{}, core.NewBadInputError("client: encode alert", nil)
	}

	startedAt := c.now()
	res, err := c.doer.AuthenticatedDo(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    c.endpoint.Active() + alertsPath,
		Body:   body,
	})
	c.observe(ctx, startedAt, "create_alert", err)
	if err != nil {
		return core.Alert{}, err
	}

	var created core.Alert
	if decodeErr := json.Unmarshal(res.Body, &created); decodeErr != nil {
		return core.Alert{}, core.NewBadInputError("client: malformed created alert response", nil)
	}
	return created, nil
}

func (c *Client) AlertByID(ctx context.Context, alertID string) (core.Alert, error) {
	alertID = strings.TrimSpace(alertID)
	if alertID == "" {
		return core.Alert{}, core.NewBadInputError("client: alert id is required", nil)
	}

	startedAt := c.now()
	res, err := c.doer.AuthenticatedDo(ctx, transport.Request{
		Method: http.MethodGet,
		URL:    c.endpoint.Active() + alertsPath + "/" + url.PathEscape(alertID),
	})
	c.observe(ctx, startedAt, "alert_by_id", err)
	if err != nil {
		return core.Alert{}, err
	}

	// The backend wraps single alerts as {"alert": {...}} or returns the
	// object directly.
	var wrapped struct {
		Alert *core.Alert `json:"alert"`
	}
	if decodeErr := json.Unmarshal(res.Body, &wrapped); decodeErr == nil && wrapped.Alert != nil {
		return *wrapped.Alert, nil
	}
	var alert core.Alert
	if decodeErr := json.Unmarshal(res.Body, &alert); decodeErr != nil {
		return core.Alert{}, core.NewBadInputError("client: malformed alert response", nil)
	}
	return alert, nil
}

func (c *Client) AcknowledgeAlert(ctx context.Context, alertID string, responseMessage string) (map[string]any, error) {
	alertID = strings.TrimSpace(alertID)
	if alertID == "" {
		return nil, core.NewBadInputError("client: alert id is required", nil)
	}
	body, err := json.Marshal(map[string]string{"responseMessage": responseMessage})
	if err != nil {
		return nil, core.NewBadInputError("client: encode acknowledgement", nil)
	}

	startedAt := c.now()
	res, err := c.doer.AuthenticatedDo(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    c.endpoint.Active() + alertsPath + "/" + url.PathEscape(alertID) + "/acknowledge",
		Body:   body,
	})
	c.observe(ctx, startedAt, "acknowledge_alert", err)
	if err != nil {
		return nil, err
	}
	return decodeObject(res.Body)
}

func (c *Client) SubmitIoTData(ctx context.Context, payload map[string]any) (map[string]any, error) {
	if len(payload) == 0 {
		return nil, core.NewBadInputError("client: iot payload is required", nil)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, core.NewBadInputError("client: encode iot payload", nil)
	}

	startedAt := c.now()
	res, err := c.doer.AuthenticatedDo(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    c.endpoint.Active() + iotDataPath,
		Body:   body,
	})
	c.observe(ctx, startedAt, "submit_iot_data", err)
	if err != nil {
		return nil, err
	}
	return decodeObject(res.Body)
}

func (c *Client) CreateUser(ctx context.Context) (map[string]any, error) {
	startedAt := c.now()
	res, err := c.doer.AuthenticatedDo(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    c.endpoint.Active() + createUserPath,
	})
	c.observe(ctx, startedAt, "create_user", err)
	if err != nil {
		return nil, err
	}
	return decodeObject(res.Body)
}

// CheckAPIStatus probes the active endpoint's root path without auth.
func (c *Client) CheckAPIStatus(ctx context.Context) error {
	return c.probe(ctx, "/")
}

func (c *Client) CheckIoTHealth(ctx context.Context) error {
	return c.probe(ctx, iotHealthPath)
}

func (c *Client) probe(ctx context.Context, path string) error {
	res, err := c.doer.Execute(ctx, transport.Request{
		Method:  http.MethodGet,
		URL:     c.endpoint.Active() + path,
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		return err
	}
	if !res.Success() {
		return core.NewHTTPError(res.StatusCode, "probe failed", map[string]any{"path": path})
	}
	return nil
}

func fetchList[T any](
	ctx context.Context,
	c *Client,
	operation string,
	path string,
	fallback func(time.Time) []T,
) (core.Result[[]T], error) {
	startedAt := c.now()
	res, err := c.doer.AuthenticatedDo(ctx, transport.Request{
		Method: http.MethodGet,
		URL:    c.endpoint.Active() + path,
		Headers: map[string]string{
			"Accept": "application/json",
		},
	})
	c.observe(ctx, startedAt, operation, err)
	if err != nil {
		if core.IsAuthRequired(err) {
			return core.Result[[]T]{}, err
		}
		return core.Degraded(err.Error(), fallback(c.now())), nil
	}

	items, decodeErr := decodeList[T](res.Body)
	if decodeErr != nil {
		return core.Degraded(decodeErr.Error(), fallback(c.now())), nil
	}
	return core.Ok(items), nil
}

func (c *Client) observe(ctx context.Context, startedAt time.Time, operation string, err error) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(ctx, startedAt, operation, err, map[string]any{
		"endpoint": c.endpoint.Active(),
	})
}
