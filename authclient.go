// Package marinesafe is the network resilience and session layer for the
// marine-safety client: it selects a reachable backend, retries transient
// transport failures, and keeps the bearer-token session consistent with
// what the server last said.
package marinesafe

import (
	"context"
	"net/http"

	"github.com/Awatif2003/marinesafe/client"
	"github.com/Awatif2003/marinesafe/core"
	"github.com/Awatif2003/marinesafe/endpoint"
	"github.com/Awatif2003/marinesafe/session"
	"github.com/Awatif2003/marinesafe/transport"
)

// AuthClient bundles the executor, endpoint selector, session manager, and
// domain client behind one wiring entry point. It is the service both the
// command and query handlers operate on.
type AuthClient struct {
	runtime  *core.Runtime
	executor *transport.Executor
	selector *endpoint.Selector
	session  *session.Manager
	client   *client.Client
}

// NewAuthClient wires the full client from configuration and runtime
// options. The HTTP doer defaults to a plain http.Client; pass
// WithHTTPDoer to override it in tests.
func NewAuthClient(cfg Config, opts ...Option) (*AuthClient, error) {
	builder := clientBuilder{}
	runtimeOptions := make([]core.Option, 0, len(opts))
	for _, opt := range opts {
		if opt.runtime != nil {
			runtimeOptions = append(runtimeOptions, opt.runtime)
		}
		if opt.client != nil {
			opt.client(&builder)
		}
	}

	runtime, err := core.NewRuntime(cfg, runtimeOptions...)
	if err != nil {
		return nil, err
	}

	doer := builder.httpDoer
	if doer == nil {
		doer = &http.Client{}
	}

	executorOptions := []transport.ExecutorOption{
		transport.WithRetryPolicy(runtime.Config.RetryPolicy()),
		transport.WithWaitFunc(runtime.Wait),
		transport.WithObserver(runtime.Observer),
		transport.WithDefaultTimeout(runtime.Config.RequestTimeout()),
	}
	if builder.disallowUnauthenticated401 {
		executorOptions = append(executorOptions, transport.WithAllowUnauthenticated401(false))
	}
	executor := transport.NewExecutor(doer, runtime.TokenStore, executorOptions...)

	selector, err := endpoint.NewSelector(runtime.Config, executor, runtime.SelectionStore,
		endpoint.WithObserver(runtime.Observer),
		endpoint.WithWaitFunc(runtime.Wait),
	)
	if err != nil {
		return nil, err
	}

	manager, err := session.NewManager(runtime.Config, executor, selector, runtime.TokenStore, runtime.ProfileStore,
		session.WithObserver(runtime.Observer),
	)
	if err != nil {
		return nil, err
	}

	domainClient, err := client.New(executor, selector,
		client.WithObserver(runtime.Observer),
	)
	if err != nil {
		return nil, err
	}

	return &AuthClient{
		runtime:  runtime,
		executor: executor,
		selector: selector,
		session:  manager,
		client:   domainClient,
	}, nil
}

// Setup wires the client and runs endpoint initialization plus the startup
// session reconciliation. Initialization is fail-open: an unreachable fleet
// leaves the configured first candidate active and Setup still succeeds.
func Setup(ctx context.Context, cfg Config, opts ...Option) (*AuthClient, error) {
	authClient, err := NewAuthClient(cfg, opts...)
	if err != nil {
		return nil, err
	}
	authClient.Initialize(ctx)
	authClient.LoadSession(ctx)
	return authClient, nil
}

func (a *AuthClient) Initialize(ctx context.Context) {
	a.selector.Initialize(ctx)
}

func (a *AuthClient) LoadSession(ctx context.Context) core.Session {
	return a.session.Load(ctx)
}

func (a *AuthClient) Login(ctx context.Context, username string, password string) (core.Session, error) {
	return a.session.Login(ctx, username, password)
}

func (a *AuthClient) Logout(ctx context.Context) core.Session {
	return a.session.Logout(ctx)
}

func (a *AuthClient) Status() core.Session {
	return a.session.Status()
}

func (a *AuthClient) Active() string {
	return a.selector.Active()
}

func (a *AuthClient) Candidates() []string {
	return a.selector.Candidates()
}

func (a *AuthClient) SetActive(ctx context.Context, url string) {
	a.selector.SetActive(ctx, url)
}

func (a *AuthClient) HealthCheck(ctx context.Context) (string, error) {
	return a.selector.HealthCheck(ctx)
}

func (a *AuthClient) TestAllConnections(ctx context.Context) []core.ProbeResult {
	return a.selector.TestAllConnections(ctx)
}

func (a *AuthClient) Weather(ctx context.Context) (core.Result[[]core.WeatherObservation], error) {
	return a.client.Weather(ctx)
}

func (a *AuthClient) Locations(ctx context.Context) (core.Result[[]core.LocationFix], error) {
	return a.client.Locations(ctx)
}

func (a *AuthClient) Alerts(ctx context.Context) (core.Result[[]core.Alert], error) {
	return a.client.Alerts(ctx)
}

func (a *AuthClient) AlertByID(ctx context.Context, alertID string) (core.Alert, error) {
	return a.client.AlertByID(ctx, alertID)
}

func (a *AuthClient) CreateAlert(ctx context.Context, input core.AlertInput) (core.Alert, error) {
	return a.client.CreateAlert(ctx, input)
}

func (a *AuthClient) AcknowledgeAlert(ctx context.Context, alertID string, responseMessage string) (map[string]any, error) {
	return a.client.AcknowledgeAlert(ctx, alertID, responseMessage)
}

func (a *AuthClient) SubmitIoTData(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return a.client.SubmitIoTData(ctx, payload)
}

func (a *AuthClient) CreateUser(ctx context.Context) (map[string]any, error) {
	return a.client.CreateUser(ctx)
}

func (a *AuthClient) CheckAPIStatus(ctx context.Context) error {
	return a.client.CheckAPIStatus(ctx)
}

func (a *AuthClient) CheckIoTHealth(ctx context.Context) error {
	return a.client.CheckIoTHealth(ctx)
}

// Runtime exposes the resolved runtime for hosts that need the logger,
// metrics recorder, or final configuration.
func (a *AuthClient) Runtime() *core.Runtime {
	return a.runtime
}

type clientBuilder struct {
	httpDoer                   transport.HTTPDoer
	disallowUnauthenticated401 bool
}

// Option configures either the core runtime or the transport wiring.
type Option struct {
	runtime core.Option
	client  func(*clientBuilder)
}

func runtimeOption(opt core.Option) Option {
	return Option{runtime: opt}
}

// WithHTTPDoer overrides the HTTP client used by the request executor.
func WithHTTPDoer(doer transport.HTTPDoer) Option {
	return Option{client: func(b *clientBuilder) {
		b.httpDoer = doer
	}}
}

// WithStrictUnauthenticated401 makes unauthenticated 401 responses surface
// as HTTP errors instead of passing the body through.
func WithStrictUnauthenticated401() Option {
	return Option{client: func(b *clientBuilder) {
		b.disallowUnauthenticated401 = true
	}}
}
