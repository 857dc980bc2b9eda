package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-admin-console/components/console/commands"
)

// Executor is the command surface the HTTP transports dispatch into.
type Executor interface {
	Login(ctx context.Context, input commands.LoginInput) error
	Logout(ctx context.Context, input commands.LogoutInput) error
	SaveProduct(ctx context.Context, input commands.SaveProductInput) error
	DeleteProduct(ctx context.Context, input commands.DeleteProductInput) error
	OrderStatus(ctx context.Context, input commands.SetOrderStatusInput) error
	UserStatus(ctx context.Context, input commands.SetUserStatusInput) error
}

// CommandExecutor adapts go-command commanders to the Executor interface.
type CommandExecutor struct {
	LoginCommander         gocommand.Commander[commands.LoginInput]
	LogoutCommander        gocommand.Commander[commands.LogoutInput]
	SaveProductCommander   gocommand.Commander[commands.SaveProductInput]
	DeleteProductCommander gocommand.Commander[commands.DeleteProductInput]
	OrderStatusCommander   gocommand.Commander[commands.SetOrderStatusInput]
	UserStatusCommander    gocommand.Commander[commands.SetUserStatusInput]
}

var errCommanderMissing = errors.New("httpapi: commander not configured")

// Login dispatches a login command.
func (e *CommandExecutor) Login(ctx context.Context, input commands.LoginInput) error {
	if e.LoginCommander == nil {
		return errCommanderMissing
	}
	return e.LoginCommander.Execute(ctx, input)
}

// Logout dispatches a logout command.
func (e *CommandExecutor) Logout(ctx context.Context, input commands.LogoutInput) error {
	if e.LogoutCommander == nil {
		return errCommanderMissing
	}
	return e.LogoutCommander.Execute(ctx, input)
}

// SaveProduct dispatches a product create/update command.
func (e *CommandExecutor) SaveProduct(ctx context.Context, input commands.SaveProductInput) error {
	if e.SaveProductCommander == nil {
		return errCommanderMissing
	}
	return e.SaveProductCommander.Execute(ctx, input)
}

// DeleteProduct dispatches a product delete command.
func (e *CommandExecutor) DeleteProduct(ctx context.Context, input commands.DeleteProductInput) error {
	if e.DeleteProductCommander == nil {
		return errCommanderMissing
	}
	return e.DeleteProductCommander.Execute(ctx, input)
}

// OrderStatus dispatches an order status command.
func (e *CommandExecutor) OrderStatus(ctx context.Context, input commands.SetOrderStatusInput) error {
	if e.OrderStatusCommander == nil {
		return errCommanderMissing
	}
	return e.OrderStatusCommander.Execute(ctx, input)
}

// UserStatus dispatches a user status command.
func (e *CommandExecutor) UserStatus(ctx context.Context, input commands.SetUserStatusInput) error {
	if e.UserStatusCommander == nil {
		return errCommanderMissing
	}
	return e.UserStatusCommander.Execute(ctx, input)
}
