package command

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Awatif2003/marinesafe/core"
)

const (
	TypeLogin            = "marinesafe.command.session.login"
	TypeLogout           = "marinesafe.command.session.logout"
	TypeCreateAlert      = "marinesafe.command.alert.create"
	TypeAcknowledgeAlert = "marinesafe.command.alert.acknowledge"
	TypeSubmitIoTData    = "marinesafe.command.iot.submit"
	TypeCreateUser       = "marinesafe.command.user.create"
	TypeSetEndpoint      = "marinesafe.command.endpoint.set"
)

type LoginMessage struct {
	Username string
	Password string
}

func (LoginMessage) Type() string { return TypeLogin }

func (m LoginMessage) Validate() error {
	if strings.TrimSpace(m.Username) == "" {
		return fmt.Errorf("command: username is required")
	}
	if strings.TrimSpace(m.Password) == "" {
		return fmt.Errorf("command: password is required")
	}
	return nil
}

type LogoutMessage struct{}

func (LogoutMessage) Type() string { return TypeLogout }

func (LogoutMessage) Validate() error { return nil }

type CreateAlertMessage struct {
	Input core.AlertInput
}

func (CreateAlertMessage) Type() string { return TypeCreateAlert }

func (m CreateAlertMessage) Validate() error {
	if strings.TrimSpace(m.Input.Message) == "" {
		return fmt.Errorf("command: alert message is required")
	}
	return nil
}

type AcknowledgeAlertMessage struct {
	AlertID         string
	ResponseMessage string
}

func (AcknowledgeAlertMessage) Type() string { return TypeAcknowledgeAlert }

func (m AcknowledgeAlertMessage) Validate() error {
	if strings.TrimSpace(m.AlertID) == "" {
		return fmt.Errorf("command: alert id is required")
	}
	return nil
}

type SubmitIoTDataMessage struct {
	Payload map[string]any
}

func (SubmitIoTDataMessage) Type() string { return TypeSubmitIoTData }

func (m SubmitIoTDataMessage) Validate() error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("command: iot payload is required")
	}
	return nil
}

type CreateUserMessage struct{}

func (CreateUserMessage) Type() string { return TypeCreateUser }

func (CreateUserMessage) Validate() error { return nil }

type SetEndpointMessage struct {
	URL string
}

func (SetEndpointMessage) Type() string { return TypeSetEndpoint }

func (m SetEndpointMessage) Validate() error {
	trimmed := strings.TrimSpace(m.URL)
	if trimmed == "" {
		return fmt.Errorf("command: endpoint url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("command: endpoint url must be absolute")
	}
	return nil
}
