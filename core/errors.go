package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ClientErrorBadInput             = "CLIENT_BAD_INPUT"
	ClientErrorTimeout              = "CLIENT_TIMEOUT"
	ClientErrorTransportFailure     = "CLIENT_TRANSPORT_FAILURE"
	ClientErrorHTTP                 = "CLIENT_HTTP_ERROR"
	ClientErrorAuthRequired         = "CLIENT_AUTH_REQUIRED"
	ClientErrorEndpointsUnreachable = "CLIENT_ENDPOINTS_UNREACHABLE"
	ClientErrorInternal             = "CLIENT_INTERNAL_ERROR"
)

// NewTimeoutError reports a request cancelled by its own deadline. Distinct
// from other transport failures so callers can present it separately.
func NewTimeoutError(message string, metadata map[string]any) error {
	return clientError(message, goerrors.CategoryExternal, http.StatusGatewayTimeout, ClientErrorTimeout, metadata)
}

func NewTransportError(source error, message string, metadata map[string]any) error {
	return clientWrapError(source, goerrors.CategoryExternal, message, http.StatusBadGateway, ClientErrorTransportFailure, metadata)
}

// NewHTTPError reports a non-success response other than a handled 401.
// The status comes from the backend and is preserved as the error code.
func NewHTTPError(status int, message string, metadata map[string]any) error {
	if status <= 0 {
		status = http.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(status)
	}
	return clientError(message, goerrors.CategoryOperation, status, ClientErrorHTTP, metadata)
}

// NewAuthRequiredError reports a 401 observed while a bearer token was
// attached. The stored token has already been invalidated as a side effect.
func NewAuthRequiredError(message string, metadata map[string]any) error {
	return clientError(message, goerrors.CategoryAuth, http.StatusUnauthorized, ClientErrorAuthRequired, metadata)
}

func NewEndpointsUnreachableError(source error, metadata map[string]any) error {
	return clientWrapError(
		source,
		goerrors.CategoryExternal,
		"core: all endpoints unreachable",
		http.StatusServiceUnavailable,
		ClientErrorEndpointsUnreachable,
		metadata,
	)
}

func NewBadInputError(message string, metadata map[string]any) error {
	return clientError(message, goerrors.CategoryBadInput, http.StatusBadRequest, ClientErrorBadInput, metadata)
}

func IsTimeout(err error) bool {
	return textCodeOf(err) == ClientErrorTimeout
}

func IsTransportFailure(err error) bool {
	return textCodeOf(err) == ClientErrorTransportFailure
}

func IsAuthRequired(err error) bool {
	return textCodeOf(err) == ClientErrorAuthRequired
}

func IsHTTPError(err error) bool {
	return textCodeOf(err) == ClientErrorHTTP
}

func IsEndpointsUnreachable(err error) bool {
	return textCodeOf(err) == ClientErrorEndpointsUnreachable
}

// IsRetryable reports whether the transport retry loop may re-issue the
// request. Application-level rejections are final; only transport-level
// failures are retried.
func IsRetryable(err error) bool {
	switch textCodeOf(err) {
	case ClientErrorTimeout, ClientErrorTransportFailure:
		return true
	default:
		return false
	}
}

// HTTPStatusOf extracts the backend status carried by a client error,
// or 0 when the error carries none.
func HTTPStatusOf(err error) int {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return 0
	}
	return richErr.Code
}

func textCodeOf(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return ""
	}
	return strings.TrimSpace(richErr.TextCode)
}

func clientError(
	message string,
	category goerrors.Category,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func clientWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	if source == nil {
		return clientError(message, category, code, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
