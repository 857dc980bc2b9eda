package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-admin-console/pkg/activity"
)

// ProductsClient is the backend surface for the catalog.
type ProductsClient interface {
	Products(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, payload map[string]any) (Product, error)
	UpdateProduct(ctx context.Context, id string, payload map[string]any) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// OrdersClient is the backend surface for customer orders.
type OrdersClient interface {
	Orders(ctx context.Context) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
}

// UsersClient is the backend surface for storefront accounts.
type UsersClient interface {
	Users(ctx context.Context) ([]User, error)
	UpdateUserStatus(ctx context.Context, id, status string) error
}

// StoreClient bundles every backend capability the console consumes.
// pkg/storeapi ships the HTTP implementation and an in-memory mock.
type StoreClient interface {
	AuthClient
	ProductsClient
	OrdersClient
	UsersClient
}

var errMissingStoreClient = errors.New("console: store client is required")

// Options configures the console Service. Every collaborator is provided
// via interface so applications can swap implementations without importing
// internal packages.
type Options struct {
	Client         StoreClient
	Tokens         TokenStore
	Provider       IdentityProvider
	Registry       *Registry
	Validator      PayloadValidator
	Broadcast      *Broadcast
	Telemetry      Telemetry
	Charts         *StatsChart
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
}

// Service wires the auth controller and the per-resource list controllers
// into one console instance.
type Service struct {
	opts     Options
	auth     *AuthController
	emitter  *activity.Emitter
	products *ListController[Product]
	orders   *ListController[Order]
	users    *ListController[User]
}

// NewService builds a Service with safe defaults.
func NewService(opts Options) (*Service, error) {
	if opts.Client == nil {
		return nil, errMissingStoreClient
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Charts == nil {
		opts.Charts = NewStatsChart()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)

	auth, err := NewAuthController(AuthOptions{
		Client:    opts.Client,
		Tokens:    opts.Tokens,
		Provider:  opts.Provider,
		Broadcast: opts.Broadcast,
		Telemetry: opts.Telemetry,
	})
	if err != nil {
		return nil, err
	}

	if opts.ActivityConfig.Channel == "" {
		opts.ActivityConfig.Channel = activity.DefaultChannel
	}
	svc := &Service{
		opts:    opts,
		auth:    auth,
		emitter: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}

	productsDef := svc.definition(ResourceProducts)
	svc.products, err = NewListController(ListConfig[Product]{
		Resource:  ResourceProducts,
		Fetch:     opts.Client.Products,
		Search:    ProductSearch,
		Facet:     ProductFacet,
		PageSize:  productsDef.PageSize,
		Fallback:  productsDef.Fallback,
		Broadcast: opts.Broadcast,
		Telemetry: opts.Telemetry,
	})
	if err != nil {
		return nil, fmt.Errorf("console: products controller: %w", err)
	}

	ordersDef := svc.definition(ResourceOrders)
	ordersCfg := ListConfig[Order]{
		Resource:  ResourceOrders,
		Fetch:     opts.Client.Orders,
		Search:    OrderSearch,
		Facet:     OrderFacet,
		PageSize:  ordersDef.PageSize,
		Fallback:  ordersDef.Fallback,
		Broadcast: opts.Broadcast,
		Telemetry: opts.Telemetry,
	}
	if ordersCfg.Fallback == FallbackSample {
		ordersCfg.Sample = SampleOrders()
	}
	svc.orders, err = NewListController(ordersCfg)
	if err != nil {
		return nil, fmt.Errorf("console: orders controller: %w", err)
	}

	usersDef := svc.definition(ResourceUsers)
	svc.users, err = NewListController(ListConfig[User]{
		Resource:  ResourceUsers,
		Fetch:     opts.Client.Users,
		Search:    UserSearch,
		Facet:     UserFacet,
		PageSize:  usersDef.PageSize,
		Fallback:  usersDef.Fallback,
		Broadcast: opts.Broadcast,
		Telemetry: opts.Telemetry,
	})
	if err != nil {
		return nil, fmt.Errorf("console: users controller: %w", err)
	}
	return svc, nil
}

func (s *Service) definition(code string) ResourceDefinition {
	if def, ok := s.opts.Registry.Definition(code); ok {
		return def
	}
	return ResourceDefinition{Code: code, PageSize: 10, Fallback: FallbackError}
}

// Auth exposes the session lifecycle controller.
func (s *Service) Auth() *AuthController { return s.auth }

// Products exposes the catalog list controller.
func (s *Service) Products() *ListController[Product] { return s.products }

// Orders exposes the orders list controller.
func (s *Service) Orders() *ListController[Order] { return s.orders }

// Users exposes the accounts list controller.
func (s *Service) Users() *ListController[User] { return s.users }

// Registry exposes the resource definitions.
func (s *Service) Registry() *Registry { return s.opts.Registry }

// CreateProduct validates the payload against the resource schema and
// creates it on the backend. The catalog resynchronizes on success.
func (s *Service) CreateProduct(ctx context.Context, payload map[string]any) error {
	if err := s.validate(ResourceProducts, payload); err != nil {
		return err
	}
	var created Product
	err := s.products.Mutate(ctx, "create", func(ctx context.Context) error {
		var opErr error
		created, opErr = s.opts.Client.CreateProduct(ctx, payload)
		return opErr
	})
	if err != nil {
		return err
	}
	s.emitActivity(ctx, "console.product.create", "product", created.ID, map[string]any{
		"name": created.Name,
	})
	return nil
}

// UpdateProduct validates and updates an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id string, payload map[string]any) error {
	if id == "" {
		return errors.New("console: product id is required")
	}
	if err := s.validate(ResourceProducts, payload); err != nil {
		return err
	}
	err := s.products.Mutate(ctx, "update", func(ctx context.Context) error {
		_, opErr := s.opts.Client.UpdateProduct(ctx, id, payload)
		return opErr
	})
	if err != nil {
		return err
	}
	s.emitActivity(ctx, "console.product.update", "product", id, nil)
	return nil
}

// DeleteProduct removes a product and resynchronizes the catalog.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("console: product id is required")
	}
	err := s.products.Mutate(ctx, "delete", func(ctx context.Context) error {
		return s.opts.Client.DeleteProduct(ctx, id)
	})
	if err != nil {
		return err
	}
	s.emitActivity(ctx, "console.product.delete", "product", id, nil)
	return nil
}

// SetOrderStatus moves an order through its fulfillment states.
func (s *Service) SetOrderStatus(ctx context.Context, id, status string) error {
	if id == "" {
		return errors.New("console: order id is required")
	}
	err := s.orders.Mutate(ctx, "status", func(ctx context.Context) error {
		return s.opts.Client.UpdateOrderStatus(ctx, id, status)
	})
	if err != nil {
		return err
	}
	s.emitActivity(ctx, "console.order.status", "order", id, map[string]any{
		"status": status,
	})
	return nil
}

// SetUserStatus toggles an account between active and inactive.
func (s *Service) SetUserStatus(ctx context.Context, id, status string) error {
	if id == "" {
		return errors.New("console: user id is required")
	}
	if err := s.validate(ResourceUsers, map[string]any{"status": status}); err != nil {
		return err
	}
	err := s.users.Mutate(ctx, "status", func(ctx context.Context) error {
		return s.opts.Client.UpdateUserStatus(ctx, id, status)
	})
	if err != nil {
		return err
	}
	s.emitActivity(ctx, "console.user.status", "user", id, map[string]any{
		"status": status,
	})
	return nil
}

// Stats recomputes the dashboard projection from fresh fetches. The numbers
// are never cached across sessions; the backend stays authoritative.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	products, err := s.opts.Client.Products(ctx)
	if err != nil {
		return Stats{}, err
	}
	orders, err := s.opts.Client.Orders(ctx)
	if err != nil {
		return Stats{}, err
	}
	users, err := s.opts.Client.Users(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := ProjectStats(products, orders, users)
	s.opts.Telemetry.Record(ctx, "console.stats.projected", map[string]any{
		"orders":  stats.TotalOrders,
		"revenue": stats.TotalRevenue,
	})
	return stats, nil
}

// StatsCharts renders the dashboard charts for the given projection.
func (s *Service) StatsCharts(stats Stats) (revenueHTML, statusHTML string, err error) {
	revenueHTML, err = s.opts.Charts.RevenueByDay(stats)
	if err != nil {
		return "", "", err
	}
	statusHTML, err = s.opts.Charts.OrdersByStatus(stats)
	if err != nil {
		return "", "", err
	}
	return revenueHTML, statusHTML, nil
}

func (s *Service) emitActivity(ctx context.Context, verb, objectType, objectID string, metadata map[string]any) {
	if !s.emitter.Enabled() {
		return
	}
	meta := activityContextFrom(ctx)
	evt := activity.Event{
		Verb:       verb,
		ActorID:    meta.ActorID,
		UserID:     meta.UserID,
		TenantID:   meta.TenantID,
		ObjectType: objectType,
		ObjectID:   objectID,
		Metadata:   metadata,
	}
	if err := s.emitter.Emit(ctx, evt); err != nil {
		s.opts.Telemetry.Record(ctx, "console.activity.error", map[string]any{
			"verb":  verb,
			"error": err.Error(),
		})
	}
}

func (s *Service) validate(code string, payload map[string]any) error {
	def, ok := s.opts.Registry.Definition(code)
	if !ok {
		return nil
	}
	return s.opts.Validator.Validate(def, payload)
}
