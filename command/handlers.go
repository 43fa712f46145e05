package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/Awatif2003/marinesafe/core"
)

type SessionService interface {
	Login(ctx context.Context, username string, password string) (core.Session, error)
	Logout(ctx context.Context) core.Session
}

type AlertService interface {
	CreateAlert(ctx context.Context, input core.AlertInput) (core.Alert, error)
	AcknowledgeAlert(ctx context.Context, alertID string, responseMessage string) (map[string]any, error)
}

type IoTService interface {
	SubmitIoTData(ctx context.Context, payload map[string]any) (map[string]any, error)
	CreateUser(ctx context.Context) (map[string]any, error)
}

type EndpointService interface {
	SetActive(ctx context.Context, url string)
	Active() string
}

type LoginCommand struct {
	service SessionService
}

func NewLoginCommand(service SessionService) *LoginCommand {
	return &LoginCommand{service: service}
}

func (c *LoginCommand) Execute(ctx context.Context, msg LoginMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	out, err := c.service.Login(ctx, msg.Username, msg.Password)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type LogoutCommand struct {
	service SessionService
}

func NewLogoutCommand(service SessionService) *LogoutCommand {
	return &LogoutCommand{service: service}
}

func (c *LogoutCommand) Execute(ctx context.Context, msg LogoutMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	storeResult(ctx, c.service.Logout(ctx))
	return nil
}

type CreateAlertCommand struct {
	service AlertService
}

func NewCreateAlertCommand(service AlertService) *CreateAlertCommand {
	return &CreateAlertCommand{service: service}
}

func (c *CreateAlertCommand) Execute(ctx context.Context, msg CreateAlertMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: alert service is required")
	}
	out, err := c.service.CreateAlert(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type AcknowledgeAlertCommand struct {
	service AlertService
}

func NewAcknowledgeAlertCommand(service AlertService) *AcknowledgeAlertCommand {
	return &AcknowledgeAlertCommand{service: service}
}

func (c *AcknowledgeAlertCommand) Execute(ctx context.Context, msg AcknowledgeAlertMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: alert service is required")
	}
	out, err := c.service.AcknowledgeAlert(ctx, msg.AlertID, msg.ResponseMessage)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SubmitIoTDataCommand struct {
	service IoTService
}

func NewSubmitIoTDataCommand(service IoTService) *SubmitIoTDataCommand {
	return &SubmitIoTDataCommand{service: service}
}

func (c *SubmitIoTDataCommand) Execute(ctx context.Context, msg SubmitIoTDataMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: iot service is required")
	}
	out, err := c.service.SubmitIoTData(ctx, msg.Payload)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateUserCommand struct {
	service IoTService
}

func NewCreateUserCommand(service IoTService) *CreateUserCommand {
	return &CreateUserCommand{service: service}
}

func (c *CreateUserCommand) Execute(ctx context.Context, msg CreateUserMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: iot service is required")
	}
	out, err := c.service.CreateUser(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

// SetEndpointCommand stores the resulting active URL so callers can observe
// whether a non-candidate request was ignored.
type SetEndpointCommand struct {
	service EndpointService
}

func NewSetEndpointCommand(service EndpointService) *SetEndpointCommand {
	return &SetEndpointCommand{service: service}
}

func (c *SetEndpointCommand) Execute(ctx context.Context, msg SetEndpointMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: endpoint service is required")
	}
	c.service.SetActive(ctx, msg.URL)
	storeResult(ctx, c.service.Active())
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
