package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/Awatif2003/marinesafe/core"
)

var (
	_ gocmd.Querier[WeatherMessage, core.Result[[]core.WeatherObservation]] = (*WeatherQuery)(nil)
	_ gocmd.Querier[LocationsMessage, core.Result[[]core.LocationFix]]      = (*LocationsQuery)(nil)
	_ gocmd.Querier[AlertsMessage, core.Result[[]core.Alert]]               = (*AlertsQuery)(nil)
	_ gocmd.Querier[AlertByIDMessage, core.Alert]                           = (*AlertByIDQuery)(nil)
	_ gocmd.Querier[SessionStatusMessage, core.Session]                     = (*SessionStatusQuery)(nil)
	_ gocmd.Querier[TestConnectionsMessage, []core.ProbeResult]             = (*TestConnectionsQuery)(nil)
	_ gocmd.Querier[ActiveEndpointMessage, string]                          = (*ActiveEndpointQuery)(nil)
)
