package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Awatif2003/marinesafe/core"
	"github.com/Awatif2003/marinesafe/transport"
)

const loginPath = "/login"

// Doer issues one request with a deadline; satisfied by *transport.Executor.
// Login goes out directly, without the authenticated retry loop: retrying a
// credential submission cannot change a rejection, and a transport failure
// is surfaced to the user instead.
type Doer interface {
	Execute(ctx context.Context, req transport.Request) (transport.Response, error)
}

// ActiveEndpoint reports the base URL all outgoing calls use right now.
type ActiveEndpoint interface {
	Active() string
}

// Manager is the authentication state machine:
// Unauthenticated → Authenticating → Authenticated, with logout or a forced
// invalidation returning to Unauthenticated.
type Manager struct {
	mu    sync.RWMutex
	state core.SessionState
	user  *core.UserProfile

	doer         Doer
	endpoint     ActiveEndpoint
	tokens       core.TokenStore
	profiles     core.ProfileStore
	observer     *core.Observer
	loginTimeout time.Duration
}

type ManagerOption func(*Manager)

func WithObserver(observer *core.Observer) ManagerOption {
	return func(m *Manager) {
		m.observer = observer
	}
}

func NewManager(
	cfg core.Config,
	doer Doer,
	endpoint ActiveEndpoint,
	tokens core.TokenStore,
	profiles core.ProfileStore,
	options ...ManagerOption,
) (*Manager, error) {
	if doer == nil {
		return nil, core.NewBadInputError("session: request executor is required", nil)
	}
	if endpoint == nil {
		return nil, core.NewBadInputError("session: active endpoint source is required", nil)
	}
	if tokens == nil || profiles == nil {
		return nil, core.NewBadInputError("session: token and profile stores are required", nil)
	}

	manager := &Manager{
		state:        core.StateUnauthenticated,
		doer:         doer,
		endpoint:     endpoint,
		tokens:       tokens,
		profiles:     profiles,
		loginTimeout: cfg.LoginTimeout(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(manager)
	}
	return manager, nil
}

// Load performs startup reconciliation: a persisted token and profile
// together restore the authenticated state without a network round trip.
// Store failures are logged and leave the session unauthenticated.
func (m *Manager) Load(ctx context.Context) core.Session {
	_, tokenFound, tokenErr := m.tokens.Get(ctx)
	if tokenErr != nil {
		m.logWarn(ctx, "session: failed to load persisted token", map[string]any{"error": tokenErr.Error()})
	}
	profile, profileFound, profileErr := m.profiles.Get(ctx)
	if profileErr != nil {
		m.logWarn(ctx, "session: failed to load persisted profile", map[string]any{"error": profileErr.Error()})
	}

	m.mu.Lock()
	if tokenErr == nil && profileErr == nil && tokenFound && profileFound {
		m.state = core.StateAuthenticated
		m.user = &profile
	} else {
		m.state = core.StateUnauthenticated
		m.user = nil
	}
	m.mu.Unlock()

	return m.Status()
}

// Login submits the credentials against the active endpoint with the
// extended login timeout. A response token is persisted when present; its
// absence leaves any stored token untouched, since the backend may be using
// a cookie/session mechanism instead.
func (m *Manager) Login(ctx context.Context, username string, password string) (core.Session, error) {
	startedAt := time.Now().UTC()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return m.Status(), core.NewBadInputError("session: username and password are required", nil)
	}

	m.setState(core.StateAuthenticating, nil)

	body, err := json.Marshal(core.LoginRequest{Username: username, Password: password})
	if err != nil {
		m.setState(core.StateUnauthenticated, nil)
		return m.Status(), core.NewBadInputError("session: encode login request", nil)
	}

	res, err := m.doer.Execute(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    m.endpoint.Active() + loginPath,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body:    body,
		Timeout: m.loginTimeout,
	})
	if err != nil {
		m.setState(core.StateUnauthenticated, nil)
		m.observe(ctx, startedAt, err)
		return m.Status(), err
	}

	var loginRes core.LoginResponse
	if decodeErr := json.Unmarshal(res.Body, &loginRes); decodeErr != nil && res.Success() {
		m.setState(core.StateUnauthenticated, nil)
		failure := core.NewHTTPError(res.StatusCode, "session: malformed login response", nil)
		m.observe(ctx, startedAt, failure)
		return m.Status(), failure
	}

	if !res.Success() || !loginRes.Success {
		m.setState(core.StateUnauthenticated, nil)
		failure := invalidCredentialsError(res.StatusCode, loginRes.Message)
		m.observe(ctx, startedAt, failure)
		return m.Status(), failure
	}

	if token := strings.TrimSpace(loginRes.Token); token != "" {
		if setErr := m.tokens.Set(ctx, token); setErr != nil {
			m.logWarn(ctx, "session: failed to persist token", map[string]any{"error": setErr.Error()})
		}
	}

	profile := core.MergeProfile(username, loginRes.Username, loginRes.User)
	if setErr := m.profiles.Set(ctx, profile); setErr != nil {
		m.logWarn(ctx, "session: failed to persist profile", map[string]any{"error": setErr.Error()})
	}

	m.setState(core.StateAuthenticated, &profile)
	m.observe(ctx, startedAt, nil)
	return m.Status(), nil
}

// Logout removes the persisted credentials best-effort and transitions to
// Unauthenticated unconditionally.
func (m *Manager) Logout(ctx context.Context) core.Session {
	if err := m.tokens.Remove(ctx); err != nil {
		m.logWarn(ctx, "session: failed to remove token on logout", map[string]any{"error": err.Error()})
	}
	if err := m.profiles.Remove(ctx); err != nil {
		m.logWarn(ctx, "session: failed to remove profile on logout", map[string]any{"error": err.Error()})
	}
	m.setState(core.StateUnauthenticated, nil)
	return m.Status()
}

// Invalidate forces the session back to Unauthenticated after the transport
// observed a rejected token.
func (m *Manager) Invalidate(ctx context.Context) core.Session {
	m.setState(core.StateUnauthenticated, nil)
	return m.Status()
}

func (m *Manager) Status() core.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session := core.Session{
		State:         m.state,
		Authenticated: m.state == core.StateAuthenticated,
	}
	if m.user != nil {
		user := *m.user
		session.User = &user
	}
	return session
}

func (m *Manager) setState(state core.SessionState, user *core.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.user = user
}

func (m *Manager) observe(ctx context.Context, startedAt time.Time, err error) {
	if m.observer == nil {
		return
	}
	m.observer.ObserveOperation(ctx, startedAt, "login", err, nil)
}

func (m *Manager) logWarn(ctx context.Context, message string, fields map[string]any) {
	if m.observer == nil {
		return
	}
	m.observer.LogWarn(ctx, message, fields)
}
