package marinesafe

import (
	"fmt"

	clientcommand "github.com/Awatif2003/marinesafe/command"
	clientquery "github.com/Awatif2003/marinesafe/query"
)

// CommandQueryService is the surface the facade dispatches onto; *AuthClient
// satisfies it.
type CommandQueryService interface {
	clientcommand.SessionService
	clientcommand.AlertService
	clientcommand.IoTService
	clientcommand.EndpointService
	clientquery.WeatherReader
	clientquery.LocationReader
	clientquery.AlertReader
	clientquery.SessionReader
	clientquery.EndpointReader
}

type Commands struct {
	Login            *clientcommand.LoginCommand
	Logout           *clientcommand.LogoutCommand
	CreateAlert      *clientcommand.CreateAlertCommand
	AcknowledgeAlert *clientcommand.AcknowledgeAlertCommand
	SubmitIoTData    *clientcommand.SubmitIoTDataCommand
	CreateUser       *clientcommand.CreateUserCommand
	SetEndpoint      *clientcommand.SetEndpointCommand
}

type Queries struct {
	Weather         *clientquery.WeatherQuery
	Locations       *clientquery.LocationsQuery
	Alerts          *clientquery.AlertsQuery
	AlertByID       *clientquery.AlertByIDQuery
	SessionStatus   *clientquery.SessionStatusQuery
	TestConnections *clientquery.TestConnectionsQuery
	ActiveEndpoint  *clientquery.ActiveEndpointQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("marinesafe: command/query service is required")
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		Login:            clientcommand.NewLoginCommand(service),
		Logout:           clientcommand.NewLogoutCommand(service),
		CreateAlert:      clientcommand.NewCreateAlertCommand(service),
		AcknowledgeAlert: clientcommand.NewAcknowledgeAlertCommand(service),
		SubmitIoTData:    clientcommand.NewSubmitIoTDataCommand(service),
		CreateUser:       clientcommand.NewCreateUserCommand(service),
		SetEndpoint:      clientcommand.NewSetEndpointCommand(service),
	}
	facade.queries = Queries{
		Weather:         clientquery.NewWeatherQuery(service),
		Locations:       clientquery.NewLocationsQuery(service),
		Alerts:          clientquery.NewAlertsQuery(service),
		AlertByID:       clientquery.NewAlertByIDQuery(service),
		SessionStatus:   clientquery.NewSessionStatusQuery(service),
		TestConnections: clientquery.NewTestConnectionsQuery(service),
		ActiveEndpoint:  clientquery.NewActiveEndpointQuery(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ CommandQueryService = (*AuthClient)(nil)
