package gorouter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/console/commands"
	"github.com/goliatone/go-admin-console/components/console/httpapi"
	"github.com/goliatone/go-admin-console/pkg/storeapi"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router missing")
	}
	if err := Register(Config[struct{}]{Router: newMockRouter()}); err == nil {
		t.Fatalf("expected error when service missing")
	}
}

func TestSessionRouteReportsState(t *testing.T) {
	mock, _, _ := newTestSetup(t, nil)

	h := mock.routes["GET:/admin/session"]
	if h == nil {
		t.Fatalf("session route not registered")
	}

	ctx := newMockContext()
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.status)
	}
	payload := decodeBody(t, ctx)
	if payload["status"] != "checking" {
		t.Fatalf("expected checking status, got %v", payload["status"])
	}
}

func TestGuardedRouteWaitsDuringStartupCheck(t *testing.T) {
	mock, _, _ := newTestSetup(t, nil)

	ctx := newMockContext()
	if err := mock.routes["GET:/admin/stats"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 during startup check, got %d", ctx.status)
	}
	if ctx.headers["Retry-After"] != "1" {
		t.Fatalf("expected Retry-After header, got %q", ctx.headers["Retry-After"])
	}
}

func TestGuardedRouteRejectsUnauthenticated(t *testing.T) {
	mock, service, _ := newTestSetup(t, nil)
	service.Auth().Logout(context.Background())

	ctx := newMockContext()
	if err := mock.routes["GET:/admin/orders"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ctx.status)
	}
}

func TestListRouteAppliesQuery(t *testing.T) {
	mock, service, _ := newTestSetup(t, nil)
	loginAdmin(t, service)

	ctx := newMockContext()
	ctx.query["search"] = "jane"
	ctx.query["page"] = "1"
	if err := mock.routes["GET:/admin/orders"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.status)
	}
	payload := decodeBody(t, ctx)
	if payload["filtered"] != float64(1) {
		t.Fatalf("expected one filtered order, got %v", payload["filtered"])
	}
	if payload["total"] != float64(3) {
		t.Fatalf("expected three total orders, got %v", payload["total"])
	}
}

func TestHTMLRouteRenders(t *testing.T) {
	renderer := &stubRenderer{}
	mock, service, _ := newTestSetup(t, renderer)
	loginAdmin(t, service)

	ctx := newMockContext()
	if err := mock.routes["GET:/admin/console"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if renderer.calls == 0 {
		t.Fatalf("renderer not invoked")
	}
	if len(ctx.body) == 0 {
		t.Fatalf("expected response body")
	}
	if ctx.headers["Content-Type"] != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ctx.headers["Content-Type"])
	}
}

func TestLoginRouteMapsCredentialErrors(t *testing.T) {
	mock, _, _ := newTestSetup(t, nil)

	ctx := newMockContext()
	ctx.body = mustJSON(t, commands.LoginInput{Email: "admin@store.test", Password: "wrong"})
	if err := mock.routes["POST:/admin/session"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", ctx.status)
	}
}

func TestLoginRouteReturnsStateOnSuccess(t *testing.T) {
	mock, _, _ := newTestSetup(t, nil)

	ctx := newMockContext()
	ctx.body = mustJSON(t, commands.LoginInput{Email: "admin@store.test", Password: "admin"})
	if err := mock.routes["POST:/admin/session"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.status)
	}
	payload := decodeBody(t, ctx)
	if payload["status"] != "authenticated" {
		t.Fatalf("expected authenticated state, got %v", payload["status"])
	}
}

func TestOrderStatusRouteUsesPathParam(t *testing.T) {
	mock, service, client := newTestSetup(t, nil)
	loginAdmin(t, service)

	ctx := newMockContext()
	ctx.params["id"] = "ord-1"
	ctx.body = mustJSON(t, map[string]string{"status": "completed"})
	if err := mock.routes["POST:/admin/orders/:id/status"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.status)
	}
	orders, err := client.Orders(context.Background())
	if err != nil {
		t.Fatalf("orders fetch failed: %v", err)
	}
	if orders[0].Status != "completed" {
		t.Fatalf("expected order status updated, got %q", orders[0].Status)
	}
}

func TestWebSocketRouteRegistered(t *testing.T) {
	mock, _, _ := newTestSetup(t, nil)
	if mock.ws["/admin/events"] == nil {
		t.Fatalf("expected websocket route")
	}
}

func TestLoginStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{console.ErrNotAuthorized, http.StatusForbidden},
		{console.ErrInvalidCredentials, http.StatusUnauthorized},
		{io.ErrUnexpectedEOF, http.StatusBadGateway},
	}
	for _, tc := range cases {
		if got := loginStatus(tc.err); got != tc.want {
			t.Fatalf("loginStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

// --- Test helpers ---

func newTestSetup(t *testing.T, renderer console.Renderer) (*mockRouter, *console.Service, *storeapi.MockClient) {
	t.Helper()
	client := storeapi.NewMockClient(storeapi.MockData{
		Admins: []console.Identity{
			{ID: "adm-1", Name: "Admin", Email: "admin@store.test", Role: console.RoleAdmin},
		},
		Orders: []console.Order{
			{ID: "ord-1", CustomerName: "John Doe", CustomerEmail: "john@example.com", Status: "pending", Total: 100},
			{ID: "ord-2", CustomerName: "Jane Smith", CustomerEmail: "jane@example.com", Status: "pending", Total: 50},
			{ID: "ord-3", CustomerName: "Bob Johnson", CustomerEmail: "bob@example.com", Status: "completed", Total: 25},
		},
	})
	service, err := console.NewService(console.Options{Client: client})
	if err != nil {
		t.Fatalf("service init failed: %v", err)
	}
	controller := console.NewController(console.ControllerOptions{
		Service:  service,
		Renderer: renderer,
	})
	api := &httpapi.CommandExecutor{
		LoginCommander:       commands.NewLoginCommand(service.Auth(), nil),
		LogoutCommander:      commands.NewLogoutCommand(service.Auth(), nil),
		OrderStatusCommander: commands.NewSetOrderStatusCommand(service, nil),
	}
	mock := newMockRouter()
	cfg := Config[struct{}]{
		Router:     mock,
		Service:    service,
		Controller: controller,
		API:        api,
		Broadcast:  console.NewBroadcast(),
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	return mock, service, client
}

func loginAdmin(t *testing.T, service *console.Service) {
	t.Helper()
	if err := service.Auth().Login(context.Background(), "admin@store.test", "admin"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func decodeBody(t *testing.T, ctx *mockContext) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(ctx.body, &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	return data
}

// mockRouter embeds the interface so methods the routes never call stay
// unimplemented; invoking one panics instead of silently passing.
type mockRouter struct {
	router.Router[struct{}]

	prefix string
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Group(prefix string) router.Router[struct{}] {
	return &mockRouter{
		prefix: m.prefix + prefix,
		routes: m.routes,
		ws:     m.ws,
	}
}

func (m *mockRouter) record(method, path string, handler router.HandlerFunc) {
	m.routes[method+":"+m.prefix+path] = handler
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.GET), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.POST), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.DELETE), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	m.ws[m.prefix+path] = handler
	return mockRouteInfo{}
}

type mockRouteInfo struct {
	router.RouteInfo
}

func (mockRouteInfo) SetName(string) router.RouteInfo { return mockRouteInfo{} }

type embeddedRouterContext = router.Context

type mockContext struct {
	embeddedRouterContext

	ctx     context.Context
	headers map[string]string
	query   map[string]string
	params  map[string]string
	locals  map[any]any
	body    []byte
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		query:   map[string]string{},
		params:  map[string]string{},
		locals:  map[any]any{},
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) Send(b []byte) error {
	m.body = append([]byte{}, b...)
	return nil
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) Body() []byte { return m.body }

func (m *mockContext) Query(name string, defaultValue ...string) string {
	if v, ok := m.query[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Locals(key any, value ...any) any {
	if len(value) == 0 {
		return m.locals[key]
	}
	m.locals[key] = value[0]
	return value[0]
}

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html>console</html>"))
	}
	return "<html>console</html>", nil
}
