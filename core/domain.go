package core

import (
	"strings"
	"time"
)

type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticating  SessionState = "authenticating"
	StateAuthenticated   SessionState = "authenticated"
)

// UserProfile is the persisted identity bag: the submitted username plus
// whatever fields the login response carried. No schema beyond Username.
type UserProfile struct {
	Username string         `json:"username"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// MergeProfile builds the profile persisted after a successful login: the
// submitted username, overridden by the response username when present,
// plus every field of the response user object.
func MergeProfile(submittedUsername string, responseUsername string, responseUser map[string]any) UserProfile {
	username := strings.TrimSpace(responseUsername)
	if username == "" {
		username = strings.TrimSpace(submittedUsername)
	}
	profile := UserProfile{Username: username}
	if len(responseUser) > 0 {
		profile.Fields = make(map[string]any, len(responseUser))
		for key, value := range responseUser {
			profile.Fields[key] = value
		}
	}
	return profile
}

// Session is a point-in-time snapshot of the authentication state machine.
// Invariant: Authenticated implies User is present.
type Session struct {
	State         SessionState
	Authenticated bool
	User          *UserProfile
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success  bool           `json:"success"`
	Token    string         `json:"token,omitempty"`
	Username string         `json:"username,omitempty"`
	User     map[string]any `json:"user,omitempty"`
	Message  string         `json:"message,omitempty"`
}

type WeatherObservation struct {
	ID          int     `json:"id"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Condition   string  `json:"condition"`
	Location    string  `json:"location"`
	Pressure    float64 `json:"pressure"`
	Visibility  float64 `json:"visibility"`
	Timestamp   string  `json:"timestamp"`
}

type LocationFix struct {
	ID        int     `json:"id"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
	Timestamp string  `json:"Timestamp"`
	BoatID    string  `json:"BoatID"`
	Address   string  `json:"address,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

type Alert struct {
	AlertID   any    `json:"AlertID"`
	AlertType string `json:"AlertType,omitempty"`
	Message   string `json:"Message"`
	AlertTime string `json:"AlertTime,omitempty"`
	BoatID    string `json:"BoatID,omitempty"`
	LCDStatus string `json:"LCDStatus,omitempty"`
	Severity  string `json:"Severity,omitempty"`
}

type AlertInput struct {
	AlertType string `json:"AlertType,omitempty"`
	Message   string `json:"Message"`
	BoatID    string `json:"BoatID,omitempty"`
	Severity  string `json:"Severity,omitempty"`
}

// ProbeResult is one diagnostics record per candidate endpoint. Probing all
// candidates never mutates the active selection.
type ProbeResult struct {
	URL       string
	Healthy   bool
	LatencyMS int64
	Detail    string
}

type ResultStatus string

const (
	ResultOK       ResultStatus = "ok"
	ResultDegraded ResultStatus = "degraded"
)

// Result is the tri-state read outcome: genuine backend data, or a
// clearly-flagged substitute when the backend was unreachable. Callers must
// be able to tell the two apart; a degraded result is never silently
// identical to a real one.
type Result[T any] struct {
	Status ResultStatus
	Data   T
	Reason string
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Status: ResultOK, Data: data}
}

func Degraded[T any](reason string, fallback T) Result[T] {
	return Result[T]{Status: ResultDegraded, Data: fallback, Reason: strings.TrimSpace(reason)}
}

func (r Result[T]) IsDegraded() bool {
	return r.Status == ResultDegraded
}

// Timestamp formatting shared by fallback data builders.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
