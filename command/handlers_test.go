package command

import (
	"context"
	"fmt"
	"testing"

	gocmd "github.com/goliatone/go-command"

	"github.com/Awatif2003/marinesafe/core"
)

func TestLoginCommand_DelegatesAndStoresSession(t *testing.T) {
	called := false
	svc := stubSessionService{
		loginFn: func(_ context.Context, username string, password string) (core.Session, error) {
			called = true
			if username != "skipper" || password != "secret" {
				t.Fatalf("unexpected credentials: %q %q", username, password)
			}
			return core.Session{State: core.StateAuthenticated, Authenticated: true}, nil
		},
	}

	cmd := NewLoginCommand(svc)
	collector := gocmd.NewResult[core.Session]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := cmd.Execute(ctx, LoginMessage{Username: "skipper", Password: "secret"}); err != nil {
		t.Fatalf("execute login: %v", err)
	}
	if !called {
		t.Fatalf("expected login invocation")
	}
	stored, ok := collector.Load()
	if !ok {
		t.Fatalf("expected session result to be stored")
	}
	if !stored.Authenticated {
		t.Fatalf("unexpected session result: %#v", stored)
	}
}

func TestLoginCommand_SurfacesServiceError(t *testing.T) {
	svc := stubSessionService{
		loginFn: func(context.Context, string, string) (core.Session, error) {
			return core.Session{}, core.NewAuthRequiredError("rejected", nil)
		},
	}
	collector := gocmd.NewResult[core.Session]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := NewLoginCommand(svc).Execute(ctx, LoginMessage{Username: "skipper", Password: "wrong"})
	if !core.IsAuthRequired(err) {
		t.Fatalf("expected auth error surfaced, got %v", err)
	}
	if _, ok := collector.Load(); ok {
		t.Fatalf("failed login must not store a result")
	}
}

func TestLogoutCommand_StoresClearedSession(t *testing.T) {
	svc := stubSessionService{
		logoutFn: func(context.Context) core.Session {
			return core.Session{State: core.StateUnauthenticated}
		},
	}
	collector := gocmd.NewResult[core.Session]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := NewLogoutCommand(svc).Execute(ctx, LogoutMessage{}); err != nil {
		t.Fatalf("execute logout: %v", err)
	}
	stored, ok := collector.Load()
	if !ok || stored.Authenticated {
		t.Fatalf("expected unauthenticated session stored, got %#v ok=%v", stored, ok)
	}
}

func TestAlertCommands_DelegateToService(t *testing.T) {
	t.Run("create alert", func(t *testing.T) {
		svc := stubAlertService{
			createFn: func(_ context.Context, input core.AlertInput) (core.Alert, error) {
				if input.Message != "Engine failure" {
					t.Fatalf("unexpected alert input: %#v", input)
				}
				return core.Alert{AlertID: float64(12), Message: input.Message}, nil
			},
		}
		collector := gocmd.NewResult[core.Alert]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		err := NewCreateAlertCommand(svc).Execute(ctx, CreateAlertMessage{
			Input: core.AlertInput{Message: "Engine failure"},
		})
		if err != nil {
			t.Fatalf("execute create alert: %v", err)
		}
		stored, ok := collector.Load()
		if !ok || stored.Message != "Engine failure" {
			t.Fatalf("unexpected alert result: %#v ok=%v", stored, ok)
		}
	})

	t.Run("acknowledge alert", func(t *testing.T) {
		svc := stubAlertService{
			acknowledgeFn: func(_ context.Context, alertID string, responseMessage string) (map[string]any, error) {
				if alertID != "9" || responseMessage != "crew notified" {
					t.Fatalf("unexpected acknowledgement payload: %q %q", alertID, responseMessage)
				}
				return map[string]any{"success": true}, nil
			},
		}
		collector := gocmd.NewResult[map[string]any]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		err := NewAcknowledgeAlertCommand(svc).Execute(ctx, AcknowledgeAlertMessage{
			AlertID:         "9",
			ResponseMessage: "crew notified",
		})
		if err != nil {
			t.Fatalf("execute acknowledge alert: %v", err)
		}
		stored, ok := collector.Load()
		if !ok || stored["success"] != true {
			t.Fatalf("unexpected acknowledgement result: %#v ok=%v", stored, ok)
		}
	})
}

func TestIoTCommands_DelegateToService(t *testing.T) {
	t.Run("submit iot data", func(t *testing.T) {
		svc := stubIoTService{
			submitFn: func(_ context.Context, payload map[string]any) (map[string]any, error) {
				if payload["temperature"] != 27.5 {
					t.Fatalf("unexpected payload: %#v", payload)
				}
				return map[string]any{"stored": true}, nil
			},
		}
		collector := gocmd.NewResult[map[string]any]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		err := NewSubmitIoTDataCommand(svc).Execute(ctx, SubmitIoTDataMessage{
			Payload: map[string]any{"temperature": 27.5},
		})
		if err != nil {
			t.Fatalf("execute submit iot data: %v", err)
		}
		if _, ok := collector.Load(); !ok {
			t.Fatalf("expected iot result")
		}
	})

	t.Run("create user", func(t *testing.T) {
		called := false
		svc := stubIoTService{
			createUserFn: func(context.Context) (map[string]any, error) {
				called = true
				return map[string]any{"created": true}, nil
			},
		}
		collector := gocmd.NewResult[map[string]any]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := NewCreateUserCommand(svc).Execute(ctx, CreateUserMessage{}); err != nil {
			t.Fatalf("execute create user: %v", err)
		}
		if !called {
			t.Fatalf("expected create user invocation")
		}
	})
}

func TestSetEndpointCommand_StoresResultingActiveURL(t *testing.T) {
	svc := stubEndpointService{
		setActiveFn: func(context.Context, string) {},
		activeFn:    func() string { return "http://primary:3000" },
	}
	collector := gocmd.NewResult[string]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := NewSetEndpointCommand(svc).Execute(ctx, SetEndpointMessage{URL: "http://unknown:9999"})
	if err != nil {
		t.Fatalf("execute set endpoint: %v", err)
	}
	stored, ok := collector.Load()
	if !ok {
		t.Fatalf("expected active url stored")
	}
	if stored != "http://primary:3000" {
		t.Fatalf("ignored candidate must surface the unchanged selection, got %q", stored)
	}
}

func TestCommands_RejectMissingDependencies(t *testing.T) {
	if err := NewLoginCommand(nil).Execute(context.Background(), LoginMessage{Username: "a", Password: "b"}); err == nil {
		t.Fatalf("expected dependency error for login")
	}
	if err := NewCreateAlertCommand(nil).Execute(context.Background(), CreateAlertMessage{}); err == nil {
		t.Fatalf("expected dependency error for create alert")
	}
	if err := NewSetEndpointCommand(nil).Execute(context.Background(), SetEndpointMessage{}); err == nil {
		t.Fatalf("expected dependency error for set endpoint")
	}
}

func TestMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{
			name:    "login valid",
			msg:     LoginMessage{Username: "skipper", Password: "secret"},
			wantErr: false,
		},
		{
			name:    "login missing username",
			msg:     LoginMessage{Password: "secret"},
			wantErr: true,
		},
		{
			name:    "login blank password",
			msg:     LoginMessage{Username: "skipper", Password: "   "},
			wantErr: true,
		},
		{
			name:    "create alert valid",
			msg:     CreateAlertMessage{Input: core.AlertInput{Message: "Storm warning"}},
			wantErr: false,
		},
		{
			name:    "create alert missing message",
			msg:     CreateAlertMessage{},
			wantErr: true,
		},
		{
			name:    "acknowledge missing alert id",
			msg:     AcknowledgeAlertMessage{ResponseMessage: "ok"},
			wantErr: true,
		},
		{
			name:    "submit iot empty payload",
			msg:     SubmitIoTDataMessage{},
			wantErr: true,
		},
		{
			name:    "set endpoint valid",
			msg:     SetEndpointMessage{URL: "http://backup:3001"},
			wantErr: false,
		},
		{
			name:    "set endpoint relative url",
			msg:     SetEndpointMessage{URL: "/weather"},
			wantErr: true,
		},
		{
			name:    "set endpoint blank",
			msg:     SetEndpointMessage{URL: "  "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

type stubSessionService struct {
	loginFn  func(ctx context.Context, username string, password string) (core.Session, error)
	logoutFn func(ctx context.Context) core.Session
}

func (s stubSessionService) Login(ctx context.Context, username string, password string) (core.Session, error) {
	if s.loginFn == nil {
		return core.Session{}, fmt.Errorf("login not configured")
	}
	return s.loginFn(ctx, username, password)
}

func (s stubSessionService) Logout(ctx context.Context) core.Session {
	if s.logoutFn == nil {
		return core.Session{}
	}
	return s.logoutFn(ctx)
}

type stubAlertService struct {
	createFn      func(ctx context.Context, input core.AlertInput) (core.Alert, error)
	acknowledgeFn func(ctx context.Context, alertID string, responseMessage string) (map[string]any, error)
}

func (s stubAlertService) CreateAlert(ctx context.Context, input core.AlertInput) (core.Alert, error) {
	if s.createFn == nil {
		return core.Alert{}, fmt.Errorf("create alert not configured")
	}
	return s.createFn(ctx, input)
}

func (s stubAlertService) AcknowledgeAlert(ctx context.Context, alertID string, responseMessage string) (map[string]any, error) {
	if s.acknowledgeFn == nil {
		return nil, fmt.Errorf("acknowledge alert not configured")
	}
	return s.acknowledgeFn(ctx, alertID, responseMessage)
}

type stubIoTService struct {
	submitFn     func(ctx context.Context, payload map[string]any) (map[string]any, error)
	createUserFn func(ctx context.Context) (map[string]any, error)
}

func (s stubIoTService) SubmitIoTData(ctx context.Context, payload map[string]any) (map[string]any, error) {
	if s.submitFn == nil {
		return nil, fmt.Errorf("submit iot data not configured")
	}
	return s.submitFn(ctx, payload)
}

func (s stubIoTService) CreateUser(ctx context.Context) (map[string]any, error) {
	if s.createUserFn == nil {
		return nil, fmt.Errorf("create user not configured")
	}
	return s.createUserFn(ctx)
}

type stubEndpointService struct {
	setActiveFn func(ctx context.Context, url string)
	activeFn    func() string
}

func (s stubEndpointService) SetActive(ctx context.Context, url string) {
	if s.setActiveFn != nil {
		s.setActiveFn(ctx, url)
	}
}

func (s stubEndpointService) Active() string {
	if s.activeFn == nil {
		return ""
	}
	return s.activeFn()
}

var (
	_ SessionService  = stubSessionService{}
	_ AlertService    = stubAlertService{}
	_ IoTService      = stubIoTService{}
	_ EndpointService = stubEndpointService{}
)
