package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// SaveProductInput captures product create/update payloads. An empty
// ProductID means create.
type SaveProductInput struct {
	ProductID string         `json:"product_id,omitempty"`
	Payload   map[string]any `json:"payload"`
}

type productService interface {
	CreateProduct(ctx context.Context, payload map[string]any) error
	UpdateProduct(ctx context.Context, id string, payload map[string]any) error
	DeleteProduct(ctx context.Context, id string) error
}

// SaveProductCommand wraps Service.CreateProduct / Service.UpdateProduct.
type SaveProductCommand struct {
	service   productService
	telemetry Telemetry
}

// NewSaveProductCommand creates the command.
func NewSaveProductCommand(service productService, telemetry Telemetry) *SaveProductCommand {
	return &SaveProductCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveProductInput] = (*SaveProductCommand)(nil)

// Execute creates or updates the product and lets the service resynchronize.
func (c *SaveProductCommand) Execute(ctx context.Context, msg SaveProductInput) error {
	if c.service == nil {
		return errors.New("save product command requires service")
	}
	var err error
	if msg.ProductID == "" {
		err = c.service.CreateProduct(ctx, msg.Payload)
	} else {
		err = c.service.UpdateProduct(ctx, msg.ProductID, msg.Payload)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.product.save", map[string]any{
		"product_id": msg.ProductID,
	})
	return nil
}

// DeleteProductInput identifies a product to remove.
type DeleteProductInput struct {
	ProductID string `json:"product_id"`
}

// DeleteProductCommand wraps Service.DeleteProduct.
type DeleteProductCommand struct {
	service   productService
	telemetry Telemetry
}

// NewDeleteProductCommand creates the command.
func NewDeleteProductCommand(service productService, telemetry Telemetry) *DeleteProductCommand {
	return &DeleteProductCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteProductInput] = (*DeleteProductCommand)(nil)

// Execute removes the product.
func (c *DeleteProductCommand) Execute(ctx context.Context, msg DeleteProductInput) error {
	if c.service == nil {
		return errors.New("delete product command requires service")
	}
	if msg.ProductID == "" {
		return errors.New("delete product command requires product id")
	}
	if err := c.service.DeleteProduct(ctx, msg.ProductID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.command.product.delete", map[string]any{
		"product_id": msg.ProductID,
	})
	return nil
}
