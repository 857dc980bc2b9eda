package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/console/commands"
	"github.com/goliatone/go-admin-console/components/console/httpapi"
)

// Config wires go-router with the console controller, command API, and
// event broadcast.
type Config[T any] struct {
	Router     router.Router[T]
	Service    *console.Service
	Controller *console.Controller
	API        httpapi.Executor
	Broadcast  *console.Broadcast
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for console endpoints.
type RouteConfig struct {
	HTML        string
	Session     string
	Stats       string
	Products    string
	ProductID   string
	Orders      string
	OrderStatus string
	Users       string
	UserStatus  string
	WebSocket   string
}

func (cfg Config[T]) routes() RouteConfig {
	routes := cfg.Routes
	if routes.HTML == "" {
		routes.HTML = "/console"
	}
	if routes.Session == "" {
		routes.Session = "/session"
	}
	if routes.Stats == "" {
		routes.Stats = "/stats"
	}
	if routes.Products == "" {
		routes.Products = "/products"
	}
	if routes.ProductID == "" {
		routes.ProductID = "/products/:id"
	}
	if routes.Orders == "" {
		routes.Orders = "/orders"
	}
	if routes.OrderStatus == "" {
		routes.OrderStatus = "/orders/:id/status"
	}
	if routes.Users == "" {
		routes.Users = "/users"
	}
	if routes.UserStatus == "" {
		routes.UserStatus = "/users/:id/status"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/events"
	}
	return routes
}

// Register mounts console routes (HTML, JSON, WebSocket) on a go-router
// router. Protected routes run behind the session guard: requests during
// the startup check are asked to retry rather than rejected, so a
// legitimately authenticated caller is never bounced to the login flow
// mid-verification.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Service == nil {
		return errors.New("gorouter: service is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	group := cfg.Router.Group(base)

	group.Get(routes.Session, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, cfg.Controller.StatePayload())
	}))

	group.Get(routes.HTML, router.WrapHandler(guarded(cfg.Service, func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	})))

	group.Get(routes.Stats, router.WrapHandler(guarded(cfg.Service, func(ctx router.Context) error {
		stats, err := cfg.Service.Stats(ctx.Context())
		if err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, stats)
	})))

	registerList(group, cfg, routes.Products, console.ResourceProducts)
	registerList(group, cfg, routes.Orders, console.ResourceOrders)
	registerList(group, cfg, routes.Users, console.ResourceUsers)

	if cfg.API != nil {
		registerAPI(group, cfg, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

// guarded enforces the route-guard decision before running the handler.
func guarded(service *console.Service, handler func(router.Context) error) func(router.Context) error {
	return func(ctx router.Context) error {
		switch console.Decide(service.Auth().State()) {
		case console.GuardAllow:
			return handler(ctx)
		case console.GuardWait:
			ctx.SetHeader("Retry-After", "1")
			return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "checking",
			})
		default:
			return ctx.JSON(http.StatusUnauthorized, map[string]string{
				"error": "authentication required",
			})
		}
	}
}

func registerList[T any](r router.Router[T], cfg Config[T], path, resource string) {
	r.Get(path, router.WrapHandler(guarded(cfg.Service, func(ctx router.Context) error {
		query := console.ListQuery{
			Search: ctx.Query("search"),
			Facet:  ctx.Query("facet"),
		}
		if raw := ctx.Query("page"); raw != "" {
			if page, err := strconv.Atoi(raw); err == nil {
				query.Page = page
			}
		}
		payload, err := cfg.Controller.ListPayload(ctx.Context(), resource, query, true)
		if err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	})))
}

func registerAPI[T any](r router.Router[T], cfg Config[T], routes RouteConfig) {
	api := cfg.API

	r.Post(routes.Session, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.LoginInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Login(ctx.Context(), payload); err != nil {
			return respondError(ctx, loginStatus(err), err)
		}
		return ctx.JSON(http.StatusOK, cfg.Controller.StatePayload())
	}))

	r.Delete(routes.Session, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Logout(ctx.Context(), commands.LogoutInput{}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
	}))

	r.Post(routes.Products, router.WrapHandler(guarded(cfg.Service, func(ctx router.Context) error {
		var payload commands.SaveProductInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SaveProduct(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "saved"})
	})))

	r.Post(routes.ProductID, router.WrapHandler(guarded(cfg.Service, func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("product id is required"))
		}
		var payload commands.SaveProductInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProductID = id
		if err := api.SaveProduct(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	})))

	r.Delete(routes.ProductID, router.WrapHandler(guarded(cfg.Service, func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("product id is required"))
		}
		if err := api.DeleteProduct(ctx.Context(), commands.DeleteProductInput{ProductID: id}); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusNoContent, map[string]string{"status": "deleted"})
	})))

	r.Post(routes.OrderStatus, router.WrapHandler(guarded(cfg.Service, func(ctx router.Context) error {
		var payload commands.SetOrderStatusInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.OrderID = ctx.Param("id", payload.OrderID)
		if err := api.OrderStatus(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	})))

	r.Post(routes.UserStatus, router.WrapHandler(guarded(cfg.Service, func(ctx router.Context) error {
		var payload commands.SetUserStatusInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.UserID = ctx.Param("id", payload.UserID)
		if err := api.UserStatus(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	})))
}

func registerWebSocket[T any](r router.Router[T], hub *console.Broadcast, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hub.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func loginStatus(err error) int {
	switch {
	case errors.Is(err, console.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, console.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}
