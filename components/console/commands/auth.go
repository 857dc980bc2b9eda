package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// LoginInput carries a direct or federated login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Federated routes the login through the external identity provider.
	Federated bool `json:"federated,omitempty"`
}

type authService interface {
	Login(ctx context.Context, email, password string) error
	LoginWithProvider(ctx context.Context, email, password string) error
	Logout(ctx context.Context)
}

// LoginCommand wraps the auth controller's login flows.
type LoginCommand struct {
	auth      authService
	telemetry Telemetry
}

// NewLoginCommand creates the command.
func NewLoginCommand(auth authService, telemetry Telemetry) *LoginCommand {
	return &LoginCommand{auth: auth, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoginInput] = (*LoginCommand)(nil)

// Execute performs the login; the auth controller owns supersession and
// role checks.
func (c *LoginCommand) Execute(ctx context.Context, msg LoginInput) error {
	if c.auth == nil {
		return errors.New("login command requires auth controller")
	}
	if msg.Email == "" {
		return errors.New("login command requires email")
	}
	var err error
	if msg.Federated {
		err = c.auth.LoginWithProvider(ctx, msg.Email, msg.Password)
	} else {
		err = c.auth.Login(ctx, msg.Email, msg.Password)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.login", map[string]any{
		"email":     msg.Email,
		"federated": msg.Federated,
	})
	return nil
}

// LogoutInput is the empty logout payload.
type LogoutInput struct{}

// LogoutCommand wraps the auth controller's logout flow.
type LogoutCommand struct {
	auth      authService
	telemetry Telemetry
}

// NewLogoutCommand creates the command.
func NewLogoutCommand(auth authService, telemetry Telemetry) *LogoutCommand {
	return &LogoutCommand{auth: auth, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LogoutInput] = (*LogoutCommand)(nil)

// Execute clears the session.
func (c *LogoutCommand) Execute(ctx context.Context, _ LogoutInput) error {
	if c.auth == nil {
		return errors.New("logout command requires auth controller")
	}
	c.auth.Logout(ctx)
	c.telemetry.Record(ctx, "console.command.logout", nil)
	return nil
}
