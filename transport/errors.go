package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Awatif2003/marinesafe/core"
)

// classifyTransportError separates a deadline firing from every other
// connection-level failure. The two surface differently to users: a timeout
// produces "network error, try again", never "invalid credentials".
func classifyTransportError(err error, requestCtx context.Context, method string, url string, timeout time.Duration) error {
	metadata := map[string]any{
		"method": method,
		"url":    url,
	}
	if errors.Is(err, context.DeadlineExceeded) || requestCtx.Err() == context.DeadlineExceeded {
		metadata["timeout_ms"] = timeout.Milliseconds()
		return core.NewTimeoutError(fmt.Sprintf("transport: request timeout after %s", timeout), metadata)
	}
	return core.NewTransportError(err, "transport: execute http request", metadata)
}

// serverMessage extracts the backend's error message from a non-success
// body, falling back to the raw body when it is not the JSON envelope.
func serverMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(envelope.Error); msg != "" {
			return msg
		}
	}
	const maxRawMessage = 256
	if len(trimmed) > maxRawMessage {
		trimmed = trimmed[:maxRawMessage]
	}
	return trimmed
}
