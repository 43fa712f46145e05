package query

import (
	"context"

	"github.com/Awatif2003/marinesafe/core"
)

type WeatherReader interface {
	Weather(ctx context.Context) (core.Result[[]core.WeatherObservation], error)
}

type LocationReader interface {
	Locations(ctx context.Context) (core.Result[[]core.LocationFix], error)
}

type AlertReader interface {
	Alerts(ctx context.Context) (core.Result[[]core.Alert], error)
	AlertByID(ctx context.Context, alertID string) (core.Alert, error)
}

type SessionReader interface {
	Status() core.Session
}

type EndpointReader interface {
	Active() string
	TestAllConnections(ctx context.Context) []core.ProbeResult
}

type WeatherQuery struct {
	reader WeatherReader
}

func NewWeatherQuery(reader WeatherReader) *WeatherQuery {
	return &WeatherQuery{reader: reader}
}

func (q *WeatherQuery) Query(ctx context.Context, msg WeatherMessage) (core.Result[[]core.WeatherObservation], error) {
	if q == nil || q.reader == nil {
		return core.Result[[]core.WeatherObservation]{}, queryDependencyError("query: weather reader is required")
	}
	return q.reader.Weather(ctx)
}

type LocationsQuery struct {
	reader LocationReader
}

func NewLocationsQuery(reader LocationReader) *LocationsQuery {
	return &LocationsQuery{reader: reader}
}

func (q *LocationsQuery) Query(ctx context.Context, msg LocationsMessage) (core.Result[[]core.LocationFix], error) {
	if q == nil || q.reader == nil {
		return core.Result[[]core.LocationFix]{}, queryDependencyError("query: location reader is required")
	}
	return q.reader.Locations(ctx)
}

type AlertsQuery struct {
	reader AlertReader
}

func NewAlertsQuery(reader AlertReader) *AlertsQuery {
	return &AlertsQuery{reader: reader}
}

func (q *AlertsQuery) Query(ctx context.Context, msg AlertsMessage) (core.Result[[]core.Alert], error) {
	if q == nil || q.reader == nil {
		return core.Result[[]core.Alert]{}, queryDependencyError("query: alert reader is required")
	}
	return q.reader.Alerts(ctx)
}

type AlertByIDQuery struct {
	reader AlertReader
}

func NewAlertByIDQuery(reader AlertReader) *AlertByIDQuery {
	return &AlertByIDQuery{reader: reader}
}

func (q *AlertByIDQuery) Query(ctx context.Context, msg AlertByIDMessage) (core.Alert, error) {
	if q == nil || q.reader == nil {
		return core.Alert{}, queryDependencyError("query: alert reader is required")
	}
	return q.reader.AlertByID(ctx, msg.AlertID)
}

type SessionStatusQuery struct {
	reader SessionReader
}

func NewSessionStatusQuery(reader SessionReader) *SessionStatusQuery {
	return &SessionStatusQuery{reader: reader}
}

func (q *SessionStatusQuery) Query(ctx context.Context, msg SessionStatusMessage) (core.Session, error) {
	if q == nil || q.reader == nil {
		return core.Session{}, queryDependencyError("query: session reader is required")
	}
	return q.reader.Status(), nil
}

type TestConnectionsQuery struct {
	reader EndpointReader
}

func NewTestConnectionsQuery(reader EndpointReader) *TestConnectionsQuery {
	return &TestConnectionsQuery{reader: reader}
}

func (q *TestConnectionsQuery) Query(ctx context.Context, msg TestConnectionsMessage) ([]core.ProbeResult, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: endpoint reader is required")
	}
	return q.reader.TestAllConnections(ctx), nil
}

type ActiveEndpointQuery struct {
	reader EndpointReader
}

func NewActiveEndpointQuery(reader EndpointReader) *ActiveEndpointQuery {
	return &ActiveEndpointQuery{reader: reader}
}

func (q *ActiveEndpointQuery) Query(ctx context.Context, msg ActiveEndpointMessage) (string, error) {
	if q == nil || q.reader == nil {
		return "", queryDependencyError("query: endpoint reader is required")
	}
	return q.reader.Active(), nil
}
