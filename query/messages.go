package query

import (
	"fmt"
	"strings"
)

const (
	TypeWeather         = "marinesafe.query.weather.list"
	TypeLocations       = "marinesafe.query.locations.list"
	TypeAlerts          = "marinesafe.query.alerts.list"
	TypeAlertByID       = "marinesafe.query.alerts.get"
	TypeSessionStatus   = "marinesafe.query.session.status"
	TypeTestConnections = "marinesafe.query.endpoints.test"
	TypeActiveEndpoint  = "marinesafe.query.endpoints.active"
)

type WeatherMessage struct{}

func (WeatherMessage) Type() string { return TypeWeather }

func (WeatherMessage) Validate() error { return nil }

type LocationsMessage struct{}

func (LocationsMessage) Type() string { return TypeLocations }

func (LocationsMessage) Validate() error { return nil }

type AlertsMessage struct{}

func (AlertsMessage) Type() string { return TypeAlerts }

func (AlertsMessage) Validate() error { return nil }

type AlertByIDMessage struct {
	AlertID string
}

func (AlertByIDMessage) Type() string { return TypeAlertByID }

func (m AlertByIDMessage) Validate() error {
	if strings.TrimSpace(m.AlertID) == "" {
		return fmt.Errorf("query: alert id is required")
	}
	return nil
}

type SessionStatusMessage struct{}

func (SessionStatusMessage) Type() string { return TypeSessionStatus }

func (SessionStatusMessage) Validate() error { return nil }

type TestConnectionsMessage struct{}

func (TestConnectionsMessage) Type() string { return TypeTestConnections }

func (TestConnectionsMessage) Validate() error { return nil }

type ActiveEndpointMessage struct{}

func (ActiveEndpointMessage) Type() string { return TypeActiveEndpoint }

func (ActiveEndpointMessage) Validate() error { return nil }
