package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Awatif2003/marinesafe/core"
)

const defaultClientTimeout = 20 * time.Second
const defaultResponseBodyLimit int64 = 10 << 20 // 10 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Request struct {
	Method  string
	URL     string
	Query   map[string]string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func (r Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Executor issues requests with a per-call deadline and runs the bounded
// retry loop for authenticated calls. It is stateless between calls; the
// attempt counter is local to one invocation.
type Executor struct {
	client               HTTPDoer
	tokens               core.TokenStore
	policy               core.RetryPolicy
	wait                 core.WaitFunc
	observer             *core.Observer
	defaultTimeout       time.Duration
	maxResponseBodyBytes int64

	// allowUnauthenticated401 preserves the backend contract for endpoints
	// that accept unauthenticated reads: a 401 issued when no token was
	// attached is returned as a plain response instead of an error. See
	// DESIGN.md for the security note on this decision.
	allowUnauthenticated401 bool
}

type ExecutorOption func(*Executor)

func WithRetryPolicy(policy core.RetryPolicy) ExecutorOption {
	return func(e *Executor) {
		e.policy = policy
	}
}

func WithWaitFunc(wait core.WaitFunc) ExecutorOption {
	return func(e *Executor) {
		if wait != nil {
			e.wait = wait
		}
	}
}

func WithObserver(observer *core.Observer) ExecutorOption {
	return func(e *Executor) {
		e.observer = observer
	}
}

func WithDefaultTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		if timeout > 0 {
			e.defaultTimeout = timeout
		}
	}
}

func WithMaxResponseBodyBytes(limit int64) ExecutorOption {
	return func(e *Executor) {
		if limit > 0 {
			e.maxResponseBodyBytes = limit
		}
	}
}

func WithAllowUnauthenticated401(allow bool) ExecutorOption {
	return func(e *Executor) {
		e.allowUnauthenticated401 = allow
	}
}

func NewExecutor(client HTTPDoer, tokens core.TokenStore, options ...ExecutorOption) *Executor {
	if client == nil {
		client = &http.Client{}
	}
	executor := &Executor{
		client:                  client,
		tokens:                  tokens,
		policy:                  core.DefaultRetryPolicy(),
		wait:                    core.WaitWithContext,
		defaultTimeout:          defaultClientTimeout,
		maxResponseBodyBytes:    defaultResponseBodyLimit,
		allowUnauthenticated401: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(executor)
	}
	return executor
}

// Execute issues one request with a cancellation deadline. The response is
// returned whatever its status code; only transport-level outcomes become
// errors, classified as timeout or transport failure.
func (e *Executor) Execute(ctx context.Context, req Request) (Response, error) {
	if e == nil || e.client == nil {
		return Response{}, core.NewBadInputError("transport: executor requires an http client", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	parsedURL, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil {
		return Response{}, core.NewBadInputError(
			"transport: invalid request url",
			map[string]any{"url": strings.TrimSpace(req.URL)},
		)
	}
	if parsedURL.String() == "" {
		return Response{}, core.NewBadInputError("transport: request url is required", nil)
	}

	query := parsedURL.Query()
	for key, value := range req.Query {
		if strings.TrimSpace(key) == "" {
			continue
		}
		query.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	parsedURL.RawQuery = query.Encode()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	requestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, method, parsedURL.String(), bytes.NewReader(req.Body))
	if err != nil {
		return Response{}, core.NewBadInputError(
			"transport: create http request",
			map[string]any{"method": method, "url": parsedURL.String()},
		)
	}
	for key, value := range req.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), value)
	}

	startedAt := time.Now().UTC()
	httpRes, err := e.client.Do(httpReq)
	if err != nil {
		return Response{}, classifyTransportError(err, requestCtx, method, parsedURL.String(), timeout)
	}
	defer httpRes.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpRes.Body, e.maxResponseBodyBytes+1))
	if err != nil {
		return Response{}, classifyTransportError(err, requestCtx, method, parsedURL.String(), timeout)
	}
	if int64(len(body)) > e.maxResponseBodyBytes {
		return Response{}, core.NewTransportError(
			fmt.Errorf("response body exceeds limit of %d bytes", e.maxResponseBodyBytes),
			"transport: read response body",
			map[string]any{"status_code": httpRes.StatusCode, "url": parsedURL.String()},
		)
	}

	return Response{
		StatusCode: httpRes.StatusCode,
		Headers:    flattenHeaders(httpRes.Header),
		Body:       body,
		Duration:   time.Since(startedAt),
	}, nil
}

// AuthenticatedDo wraps Execute in the bounded retry loop. The stored token
// is re-read from persistence on every attempt so a concurrent removal is
// observed. Application-level rejections are surfaced immediately; only
// transport-level failures retry, with linear backoff between attempts.
func (e *Executor) AuthenticatedDo(ctx context.Context, req Request) (Response, error) {
	if e == nil {
		return Response{}, core.NewBadInputError("transport: executor is required", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	startedAt := time.Now().UTC()
	attempts := e.policy.Attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		token, attached := e.currentToken(ctx)

		attemptReq := req
		attemptReq.Headers = mergeHeaders(req.Headers, token, attached)

		res, err := e.Execute(ctx, attemptReq)
		if err == nil {
			outcome, outcomeErr := e.resolveResponse(ctx, attemptReq, res, attached)
			e.observe(ctx, startedAt, attemptReq, attempt, outcomeErr)
			return outcome, outcomeErr
		}
		if !core.IsRetryable(err) {
			e.observe(ctx, startedAt, attemptReq, attempt, err)
			return Response{}, err
		}

		lastErr = err
		if attempt == attempts {
			break
		}
		if waitErr := e.wait(ctx, e.policy.Delay(attempt)); waitErr != nil {
			wrapped := core.NewTransportError(waitErr, "transport: retry wait interrupted", map[string]any{
				"attempt": attempt,
				"url":     req.URL,
			})
			e.observe(ctx, startedAt, req, attempt, wrapped)
			return Response{}, wrapped
		}
	}

	e.observe(ctx, startedAt, req, attempts, lastErr)
	return Response{}, lastErr
}

func (e *Executor) resolveResponse(ctx context.Context, req Request, res Response, tokenAttached bool) (Response, error) {
	if res.Success() {
		return res, nil
	}
	if res.StatusCode == http.StatusUnauthorized {
		if tokenAttached {
			if removeErr := e.tokens.Remove(ctx); removeErr != nil {
				e.logWarn(ctx, "transport: failed to remove invalidated token", map[string]any{
					"error": removeErr.Error(),
				})
			}
			return Response{}, core.NewAuthRequiredError(
				"transport: authentication required",
				map[string]any{"url": req.URL},
			)
		}
		if e.allowUnauthenticated401 {
			return res, nil
		}
	}
	return Response{}, core.NewHTTPError(res.StatusCode, serverMessage(res.Body), map[string]any{
		"url":    req.URL,
		"method": req.Method,
	})
}

func (e *Executor) currentToken(ctx context.Context) (string, bool) {
	if e.tokens == nil {
		return "", false
	}
	token, found, err := e.tokens.Get(ctx)
	if err != nil {
		// Losing the token must never fail the request.
		e.logWarn(ctx, "transport: token read failed, proceeding without token", map[string]any{
			"error": err.Error(),
		})
		return "", false
	}
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func (e *Executor) observe(ctx context.Context, startedAt time.Time, req Request, attempt int, err error) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveOperation(ctx, startedAt, "request", err, map[string]any{
		"method":   strings.TrimSpace(strings.ToUpper(req.Method)),
		"url":      req.URL,
		"attempts": attempt,
	})
}

func (e *Executor) logWarn(ctx context.Context, message string, fields map[string]any) {
	if e.observer == nil {
		return
	}
	e.observer.LogWarn(ctx, message, fields)
}

func mergeHeaders(base map[string]string, token string, attached bool) map[string]string {
	merged := make(map[string]string, len(base)+2)
	merged["Content-Type"] = "application/json"
	for key, value := range base {
		merged[key] = value
	}
	if attached {
		merged["Authorization"] = "Bearer " + token
	}
	return merged
}

func flattenHeaders(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			flat[key] = ""
			continue
		}
		flat[key] = strings.Join(values, ",")
	}
	return flat
}
