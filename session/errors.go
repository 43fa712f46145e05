package session

import (
	"net/http"
	"strings"

	"github.com/Awatif2003/marinesafe/core"
)

// User-facing login error messages. A rejected credential and an unreachable
// backend must read differently.
const (
	MessageInvalidCredentials = "Invalid username or password."
	MessageNetworkError       = "Network error. Please try again later."
)

type LoginErrorKind string

const (
	KindInvalidCredentials LoginErrorKind = "invalid_credentials"
	KindNetwork            LoginErrorKind = "network"
)

// ClassifyLoginError buckets a Login failure for presentation: timeouts and
// connection-level failures are network errors, everything else reads as
// invalid credentials.
func ClassifyLoginError(err error) LoginErrorKind {
	if core.IsTimeout(err) || core.IsTransportFailure(err) || core.IsEndpointsUnreachable(err) {
		return KindNetwork
	}
	return KindInvalidCredentials
}

func UserMessage(err error) string {
	if ClassifyLoginError(err) == KindNetwork {
		return MessageNetworkError
	}
	return MessageInvalidCredentials
}

// invalidCredentialsError reports a login the backend rejected. This is an
// HTTP-class failure, not CLIENT_AUTH_REQUIRED: no stored token was attached
// or invalidated, the submitted credentials were simply wrong.
func invalidCredentialsError(status int, backendMessage string) error {
	message := strings.TrimSpace(backendMessage)
	if message == "" {
		message = "session: login failed"
	}
	if status == 0 || (status >= 200 && status < 300) {
		status = http.StatusUnauthorized
	}
	return core.NewHTTPError(status, message, map[string]any{"reason": "invalid_credentials"})
}
