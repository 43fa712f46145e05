package core

import (
	"fmt"
	"net/http"
	"testing"
)

func TestErrorClassificationPredicates(t *testing.T) {
	timeout := NewTimeoutError("request timed out", nil)
	transportFailure := NewTransportError(fmt.Errorf("connection refused"), "request failed", nil)
	httpErr := NewHTTPError(http.StatusBadGateway, "bad gateway", nil)
	authErr := NewAuthRequiredError("session expired", nil)
	unreachable := NewEndpointsUnreachableError(fmt.Errorf("all probes failed"), nil)

	if !IsTimeout(timeout) || IsTimeout(transportFailure) {
		t.Fatalf("timeout predicate misclassified")
	}
	if !IsTransportFailure(transportFailure) || IsTransportFailure(timeout) {
		t.Fatalf("transport predicate misclassified")
	}
	if !IsHTTPError(httpErr) || IsHTTPError(authErr) {
		t.Fatalf("http predicate misclassified")
	}
	if !IsAuthRequired(authErr) || IsAuthRequired(httpErr) {
		t.Fatalf("auth predicate misclassified")
	}
	if !IsEndpointsUnreachable(unreachable) {
		t.Fatalf("unreachable predicate misclassified")
	}
}

func TestIsRetryable_OnlyTransientTransportOutcomes(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"timeout", NewTimeoutError("deadline", nil), true},
		{"transport", NewTransportError(fmt.Errorf("reset"), "failed", nil), true},
		{"http 500", NewHTTPError(http.StatusInternalServerError, "boom", nil), false},
		{"auth required", NewAuthRequiredError("expired", nil), false},
		{"unreachable", NewEndpointsUnreachableError(fmt.Errorf("down"), nil), false},
		{"bad input", NewBadInputError("missing field", nil), false},
		{"plain error", fmt.Errorf("opaque"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.retryable {
			t.Fatalf("%s: expected retryable=%v got %v", tc.name, tc.retryable, got)
		}
	}
}

func TestHTTPStatusOf(t *testing.T) {
	if got := HTTPStatusOf(NewHTTPError(http.StatusNotFound, "missing", nil)); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got)
	}
	if got := HTTPStatusOf(NewAuthRequiredError("expired", nil)); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
	if got := HTTPStatusOf(fmt.Errorf("opaque")); got != 0 {
		t.Fatalf("expected 0 for unclassified error, got %d", got)
	}
}

func TestNewHTTPError_FallsBackToStatusText(t *testing.T) {
	err := NewHTTPError(http.StatusBadGateway, "", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if msg := err.Error(); msg == "" {
		t.Fatalf("expected a message derived from the status text")
	}
}
