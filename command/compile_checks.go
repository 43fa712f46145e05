package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[LoginMessage]            = (*LoginCommand)(nil)
	_ gocmd.Commander[LogoutMessage]           = (*LogoutCommand)(nil)
	_ gocmd.Commander[CreateAlertMessage]      = (*CreateAlertCommand)(nil)
	_ gocmd.Commander[AcknowledgeAlertMessage] = (*AcknowledgeAlertCommand)(nil)
	_ gocmd.Commander[SubmitIoTDataMessage]    = (*SubmitIoTDataCommand)(nil)
	_ gocmd.Commander[CreateUserMessage]       = (*CreateUserCommand)(nil)
	_ gocmd.Commander[SetEndpointMessage]      = (*SetEndpointCommand)(nil)
)
