package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/pkg/storeapi"
)

type cli struct {
	BaseURL  string `default:"http://localhost:5000/api" env:"ADMCTL_BASE_URL" help:"Store backend base URL."`
	TokenDir string `env:"ADMCTL_TOKEN_DIR" help:"Directory holding the session token (defaults to the user config dir)."`
	Manifest string `env:"ADMCTL_MANIFEST" help:"YAML resource manifest overriding the shipped definitions."`

	Login    loginCmd    `cmd:"" help:"Authenticate against the store backend and keep the session token."`
	Logout   logoutCmd   `cmd:"" help:"Discard the stored session token."`
	Whoami   whoamiCmd   `cmd:"" help:"Show the identity behind the stored session token."`
	Products productsCmd `cmd:"" help:"Manage the product catalog."`
	Orders   ordersCmd   `cmd:"" help:"Inspect and update customer orders."`
	Users    usersCmd    `cmd:"" help:"Inspect and update storefront accounts."`
}

// app bundles the collaborators every subcommand needs.
type app struct {
	client   *storeapi.HTTPClient
	tokens   *console.FileTokenStore
	registry *console.Registry
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Description("Admin console companion for the store backend."),
		kong.UsageOnError(),
	)
	application, err := root.build()
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(application))
}

func (c *cli) build() (*app, error) {
	tokens, err := console.NewFileTokenStore(c.TokenDir)
	if err != nil {
		return nil, fmt.Errorf("admctl: token store: %w", err)
	}
	client, err := storeapi.NewHTTPClient(storeapi.HTTPConfig{
		BaseURL: c.BaseURL,
		Tokens:  tokens,
	})
	if err != nil {
		return nil, fmt.Errorf("admctl: client: %w", err)
	}
	registry := console.NewRegistry()
	if c.Manifest != "" {
		if _, err := registry.LoadManifestFile(c.Manifest); err != nil {
			return nil, fmt.Errorf("admctl: manifest: %w", err)
		}
	}
	return &app{client: client, tokens: tokens, registry: registry}, nil
}

type loginCmd struct {
	Email    string `required:"" help:"Admin account email."`
	Password string `required:"" help:"Admin account password."`
}

func (cmd *loginCmd) Run(a *app) error {
	session, err := a.client.Login(context.Background(), console.Credentials{
		Email:    cmd.Email,
		Password: cmd.Password,
	})
	if err != nil {
		return err
	}
	if !session.Authorized() {
		return console.ErrNotAuthorized
	}
	if err := a.tokens.Save(session.Token); err != nil {
		return fmt.Errorf("admctl: persist token: %w", err)
	}
	fmt.Fprintf(os.Stdout, "✓ Signed in as %s (%s)\n", session.Identity.Name, session.Identity.Email)
	return nil
}

type logoutCmd struct{}

func (cmd *logoutCmd) Run(a *app) error {
	if err := a.tokens.Clear(); err != nil {
		return fmt.Errorf("admctl: clear token: %w", err)
	}
	fmt.Fprintln(os.Stdout, "✓ Signed out")
	return nil
}

type whoamiCmd struct{}

func (cmd *whoamiCmd) Run(a *app) error {
	token, err := a.tokens.Load()
	if err != nil {
		return fmt.Errorf("admctl: load token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("admctl: not signed in")
	}
	identity, err := a.client.Verify(context.Background(), token)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s <%s> role=%s\n", identity.Name, identity.Email, identity.Role)
	return nil
}

type productsCmd struct {
	List   listProductsCmd  `cmd:"" help:"List catalog products."`
	Create createProductCmd `cmd:"" help:"Create a product from a JSON payload."`
	Update updateProductCmd `cmd:"" help:"Update a product from a JSON payload."`
	Delete deleteProductCmd `cmd:"" help:"Delete a product."`
}

type listProductsCmd struct {
	Search   string `help:"Case-insensitive match on name or description."`
	Category string `default:"All" help:"Category facet (All keeps every category)."`
	Page     int    `default:"1" help:"1-based page number."`
	PageSize int    `default:"10" help:"Rows per page."`
}

func (cmd *listProductsCmd) Run(a *app) error {
	products, err := a.client.Products(context.Background())
	if err != nil {
		return err
	}
	query := console.ListQuery{Search: cmd.Search, Facet: cmd.Category, Page: cmd.Page}
	filtered := console.ApplyFilter(products, query, console.ProductSearch, console.ProductFacet)
	pageItems, totalPages := console.Paginate(filtered, query.Page, cmd.PageSize)

	rows := make([][]string, 0, len(pageItems))
	for _, p := range pageItems {
		rows = append(rows, []string{
			p.ID, p.Name, p.Category,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.Itoa(p.Stock), p.Status,
		})
	}
	printTable([]string{"id", "name", "category", "price", "stock", "status"}, rows)
	fmt.Fprintf(os.Stdout, "page %d/%d (%d of %d products)\n",
		console.ClampPage(query.Page, totalPages), totalPages, len(pageItems), len(products))
	return nil
}

type createProductCmd struct {
	Data string `required:"" help:"Product payload as JSON."`
}

func (cmd *createProductCmd) Run(a *app) error {
	payload, err := decodePayload(cmd.Data)
	if err != nil {
		return err
	}
	if err := a.validatePayload(console.ResourceProducts, payload); err != nil {
		return err
	}
	product, err := a.client.CreateProduct(context.Background(), payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Created product %s (%s)\n", product.Name, product.ID)
	return nil
}

type updateProductCmd struct {
	ID   string `arg:"" help:"Product identifier."`
	Data string `required:"" help:"Product payload as JSON."`
}

func (cmd *updateProductCmd) Run(a *app) error {
	payload, err := decodePayload(cmd.Data)
	if err != nil {
		return err
	}
	if err := a.validatePayload(console.ResourceProducts, payload); err != nil {
		return err
	}
	product, err := a.client.UpdateProduct(context.Background(), cmd.ID, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Updated product %s\n", product.ID)
	return nil
}

type deleteProductCmd struct {
	ID string `arg:"" help:"Product identifier."`
}

func (cmd *deleteProductCmd) Run(a *app) error {
	if err := a.client.DeleteProduct(context.Background(), cmd.ID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Deleted product %s\n", cmd.ID)
	return nil
}

type ordersCmd struct {
	List      listOrdersCmd     `cmd:"" help:"List customer orders."`
	SetStatus setOrderStatusCmd `cmd:"" name:"set-status" help:"Move an order to a new fulfillment status."`
}

type listOrdersCmd struct {
	Search   string `help:"Case-insensitive match on customer name, email, or order id."`
	Status   string `default:"All" help:"Status facet (All keeps every status)."`
	Page     int    `default:"1" help:"1-based page number."`
	PageSize int    `default:"10" help:"Rows per page."`
}

func (cmd *listOrdersCmd) Run(a *app) error {
	orders, err := a.client.Orders(context.Background())
	if err != nil {
		return err
	}
	query := console.ListQuery{Search: cmd.Search, Facet: cmd.Status, Page: cmd.Page}
	filtered := console.ApplyFilter(orders, query, console.OrderSearch, console.OrderFacet)
	pageItems, totalPages := console.Paginate(filtered, query.Page, cmd.PageSize)

	rows := make([][]string, 0, len(pageItems))
	for _, o := range pageItems {
		rows = append(rows, []string{
			o.ID, o.CustomerName, o.CustomerEmail,
			strconv.FormatFloat(o.Total, 'f', 2, 64),
			o.Status, o.CreatedAt.Format("2006-01-02"),
		})
	}
	printTable([]string{"id", "customerName", "customerEmail", "total", "status", "createdAt"}, rows)
	fmt.Fprintf(os.Stdout, "page %d/%d (%d of %d orders)\n",
		console.ClampPage(query.Page, totalPages), totalPages, len(pageItems), len(orders))
	return nil
}

type setOrderStatusCmd struct {
	ID     string `arg:"" help:"Order identifier."`
	Status string `arg:"" help:"New status (pending, processing, completed, cancelled)."`
}

func (cmd *setOrderStatusCmd) Run(a *app) error {
	if err := a.client.UpdateOrderStatus(context.Background(), cmd.ID, cmd.Status); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Order %s → %s\n", cmd.ID, cmd.Status)
	return nil
}

type usersCmd struct {
	List      listUsersCmd     `cmd:"" help:"List storefront accounts."`
	SetStatus setUserStatusCmd `cmd:"" name:"set-status" help:"Toggle an account between active and inactive."`
}

type listUsersCmd struct {
	Search   string `help:"Case-insensitive match on name or email."`
	Status   string `default:"All" help:"Status facet (All keeps every status)."`
	Page     int    `default:"1" help:"1-based page number."`
	PageSize int    `default:"10" help:"Rows per page."`
}

func (cmd *listUsersCmd) Run(a *app) error {
	users, err := a.client.Users(context.Background())
	if err != nil {
		return err
	}
	query := console.ListQuery{Search: cmd.Search, Facet: cmd.Status, Page: cmd.Page}
	filtered := console.ApplyFilter(users, query, console.UserSearch, console.UserFacet)
	pageItems, totalPages := console.Paginate(filtered, query.Page, cmd.PageSize)

	rows := make([][]string, 0, len(pageItems))
	for _, u := range pageItems {
		rows = append(rows, []string{u.ID, u.Name, u.Email, string(u.Role), u.Status})
	}
	printTable([]string{"id", "name", "email", "role", "status"}, rows)
	fmt.Fprintf(os.Stdout, "page %d/%d (%d of %d users)\n",
		console.ClampPage(query.Page, totalPages), totalPages, len(pageItems), len(users))
	return nil
}

type setUserStatusCmd struct {
	ID     string `arg:"" help:"User identifier."`
	Status string `arg:"" help:"New status (active or inactive)."`
}

func (cmd *setUserStatusCmd) Run(a *app) error {
	if err := a.validatePayload(console.ResourceUsers, map[string]any{"status": cmd.Status}); err != nil {
		return err
	}
	if err := a.client.UpdateUserStatus(context.Background(), cmd.ID, cmd.Status); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ User %s → %s\n", cmd.ID, cmd.Status)
	return nil
}

func decodePayload(data string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("admctl: parse payload JSON: %w", err)
	}
	return payload, nil
}

// validatePayload runs the resource schemas before touching the network, so
// obvious mistakes fail fast and offline.
func (a *app) validatePayload(code string, payload map[string]any) error {
	validator := console.NewJSONSchemaValidator()
	def, ok := a.registry.Definition(code)
	if !ok {
		return nil
	}
	return validator.Validate(def, payload)
}

// printTable renders rows with headers derived from the backend field names.
func printTable(fields []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, field := range fields {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, strcase.ToCase(field, strcase.TitleCase, ' '))
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
