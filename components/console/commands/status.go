package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// SetOrderStatusInput moves an order to a new fulfillment state.
type SetOrderStatusInput struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type statusService interface {
	SetOrderStatus(ctx context.Context, id, status string) error
	SetUserStatus(ctx context.Context, id, status string) error
}

// SetOrderStatusCommand wraps Service.SetOrderStatus.
type SetOrderStatusCommand struct {
	service   statusService
	telemetry Telemetry
}

// NewSetOrderStatusCommand creates the command.
func NewSetOrderStatusCommand(service statusService, telemetry Telemetry) *SetOrderStatusCommand {
	return &SetOrderStatusCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetOrderStatusInput] = (*SetOrderStatusCommand)(nil)

// Execute updates the order status on the backend.
func (c *SetOrderStatusCommand) Execute(ctx context.Context, msg SetOrderStatusInput) error {
	if c.service == nil {
		return errors.New("order status command requires service")
	}
	if msg.OrderID == "" {
		return errors.New("order status command requires order id")
	}
	if msg.Status == "" {
		return errors.New("order status command requires status")
	}
	if err := c.service.SetOrderStatus(ctx, msg.OrderID, msg.Status); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.order.status", map[string]any{
		"order_id": msg.OrderID,
		"status":   msg.Status,
	})
	return nil
}

// SetUserStatusInput toggles an account status.
type SetUserStatusInput struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// SetUserStatusCommand wraps Service.SetUserStatus.
type SetUserStatusCommand struct {
	service   statusService
	telemetry Telemetry
}

// NewSetUserStatusCommand creates the command.
func NewSetUserStatusCommand(service statusService, telemetry Telemetry) *SetUserStatusCommand {
	return &SetUserStatusCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetUserStatusInput] = (*SetUserStatusCommand)(nil)

// Execute updates the account status on the backend.
func (c *SetUserStatusCommand) Execute(ctx context.Context, msg SetUserStatusInput) error {
	if c.service == nil {
		return errors.New("user status command requires service")
	}
	if msg.UserID == "" {
		return errors.New("user status command requires user id")
	}
	if msg.Status == "" {
		return errors.New("user status command requires status")
	}
	if err := c.service.SetUserStatus(ctx, msg.UserID, msg.Status); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.user.status", map[string]any{
		"user_id": msg.UserID,
		"status":  msg.Status,
	})
	return nil
}
