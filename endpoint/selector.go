package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Awatif2003/marinesafe/core"
	"github.com/Awatif2003/marinesafe/transport"
)

const healthPath = "/health"

// Prober issues one bounded request; satisfied by *transport.Executor.
type Prober interface {
	Execute(ctx context.Context, req transport.Request) (transport.Response, error)
}

// Selector holds the ordered candidate list and the currently active URL.
// The candidate list is immutable after construction; the active URL is
// process-wide shared state mutated only through SetActive.
type Selector struct {
	mu     sync.RWMutex
	active string

	candidates        []string
	prober            Prober
	selections        core.SelectionStore
	observer          *core.Observer
	wait              core.WaitFunc
	initPolicy        core.RetryPolicy
	probeTimeout      time.Duration
	diagnosticTimeout time.Duration
}

type SelectorOption func(*Selector)

func WithObserver(observer *core.Observer) SelectorOption {
	return func(s *Selector) {
		s.observer = observer
	}
}

func WithWaitFunc(wait core.WaitFunc) SelectorOption {
	return func(s *Selector) {
		if wait != nil {
			s.wait = wait
		}
	}
}

func WithInitializeRetryPolicy(policy core.RetryPolicy) SelectorOption {
	return func(s *Selector) {
		s.initPolicy = policy
	}
}

func NewSelector(cfg core.Config, prober Prober, selections core.SelectionStore, options ...SelectorOption) (*Selector, error) {
	candidates := cfg.CandidateEndpoints()
	if len(candidates) == 0 {
		return nil, core.NewBadInputError("endpoint: at least one candidate url is required", nil)
	}
	if prober == nil {
		return nil, core.NewBadInputError("endpoint: prober is required", nil)
	}
	if selections == nil {
		return nil, core.NewBadInputError("endpoint: selection store is required", nil)
	}

	selector := &Selector{
		active:            candidates[0],
		candidates:        candidates,
		prober:            prober,
		selections:        selections,
		wait:              core.WaitWithContext,
		initPolicy:        cfg.RetryPolicy(),
		probeTimeout:      cfg.ProbeTimeout(),
		diagnosticTimeout: cfg.DiagnosticTimeout(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(selector)
	}
	return selector, nil
}

func (s *Selector) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Selector) Candidates() []string {
	return append([]string(nil), s.candidates...)
}

// SetActive accepts only members of the candidate list; anything else is
// logged and ignored. The change is persisted best-effort: a storage
// failure keeps the in-memory selection.
func (s *Selector) SetActive(ctx context.Context, url string) {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if !s.isCandidate(url) {
		s.logError(ctx, "endpoint: rejected non-candidate url", map[string]any{"url": url})
		return
	}

	s.mu.Lock()
	changed := s.active != url
	s.active = url
	s.mu.Unlock()

	if err := s.selections.Set(ctx, url); err != nil {
		s.logError(ctx, "endpoint: failed to persist active url", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
	}
	if changed {
		s.logInfo(ctx, "endpoint: active url changed", map[string]any{"url": url})
	}
}

// HealthCheck probes each candidate in list order until one responds
// successfully. The first healthy candidate becomes active when it differs
// from the current selection. All candidates failing yields an
// endpoints-unreachable error wrapping the last probe error.
func (s *Selector) HealthCheck(ctx context.Context) (string, error) {
	var lastErr error
	for _, candidate := range s.candidates {
		res, err := s.prober.Execute(ctx, transport.Request{
			Method:  http.MethodGet,
			URL:     candidate + healthPath,
			Headers: map[string]string{"Content-Type": "application/json"},
			Timeout: s.probeTimeout,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if !res.Success() {
			lastErr = core.NewHTTPError(res.StatusCode, "health check failed", map[string]any{"url": candidate})
			continue
		}
		if s.Active() != candidate {
			s.SetActive(ctx, candidate)
		}
		return candidate, nil
	}
	return "", core.NewEndpointsUnreachableError(lastErr, map[string]any{
		"candidates": len(s.candidates),
	})
}

// Initialize restores the persisted selection and confirms connectivity
// with bounded retries. It never fails: when every attempt is exhausted the
// process continues with the current selection, prioritizing availability
// over confirmed connectivity.
func (s *Selector) Initialize(ctx context.Context) {
	startedAt := time.Now().UTC()

	stored, found, err := s.selections.Get(ctx)
	if err != nil {
		s.logWarn(ctx, "endpoint: failed to load persisted url", map[string]any{"error": err.Error()})
	}
	stored = strings.TrimRight(strings.TrimSpace(stored), "/")
	if found && s.isCandidate(stored) {
		s.mu.Lock()
		s.active = stored
		s.mu.Unlock()
	}

	attempts := s.initPolicy.Attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if _, err := s.HealthCheck(ctx); err == nil {
			s.observe(ctx, startedAt, nil)
			return
		} else {
			lastErr = err
		}
		if attempt == attempts {
			break
		}
		if waitErr := s.wait(ctx, s.initPolicy.Delay(attempt)); waitErr != nil {
			lastErr = waitErr
			break
		}
	}

	s.logWarn(ctx, "endpoint: initialization could not confirm connectivity, continuing", map[string]any{
		"active": s.Active(),
		"error":  fmt.Sprint(lastErr),
	})
	s.observe(ctx, startedAt, nil)
}

// TestAllConnections probes every candidate independently and returns one
// record per candidate. Diagnostics only; the active selection is never
// mutated here.
func (s *Selector) TestAllConnections(ctx context.Context) []core.ProbeResult {
	results := make([]core.ProbeResult, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		res, err := s.prober.Execute(ctx, transport.Request{
			Method:  http.MethodGet,
			URL:     candidate + healthPath,
			Headers: map[string]string{"Content-Type": "application/json"},
			Timeout: s.diagnosticTimeout,
		})
		switch {
		case err != nil:
			results = append(results, core.ProbeResult{
				URL:    candidate,
				Detail: err.Error(),
			})
		case !res.Success():
			results = append(results, core.ProbeResult{
				URL:    candidate,
				Detail: fmt.Sprintf("HTTP %d", res.StatusCode),
			})
		default:
			results = append(results, core.ProbeResult{
				URL:       candidate,
				Healthy:   true,
				LatencyMS: res.Duration.Milliseconds(),
			})
		}
	}
	return results
}

func (s *Selector) isCandidate(url string) bool {
	for _, candidate := range s.candidates {
		if candidate == url {
			return true
		}
	}
	return false
}

func (s *Selector) observe(ctx context.Context, startedAt time.Time, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(ctx, startedAt, "endpoint_initialize", err, map[string]any{
		"active": s.Active(),
	})
}

func (s *Selector) logInfo(ctx context.Context, message string, fields map[string]any) {
	if s.observer == nil {
		return
	}
	s.observer.LogInfo(ctx, message, fields)
}

func (s *Selector) logWarn(ctx context.Context, message string, fields map[string]any) {
	if s.observer == nil {
		return
	}
	s.observer.LogWarn(ctx, message, fields)
}

func (s *Selector) logError(ctx context.Context, message string, fields map[string]any) {
	if s.observer == nil {
		return
	}
	s.observer.LogError(ctx, message, fields)
}
