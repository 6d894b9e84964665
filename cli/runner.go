package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/velovis/velovis"
	"github.com/velovis/velovis/api"
	"github.com/velovis/velovis/auth"
)

// Runner executes CLI commands
type Runner struct {
	out io.Writer
}

// Run parses args and executes the selected command
func Run(args []string) error {
	return New(os.Stdout).Run(context.Background(), args)
}

// New creates a runner writing to out
func New(out io.Writer) *Runner {
	return &Runner{out: out}
}

// Run parses args and executes the selected command
func (r *Runner) Run(ctx context.Context, args []string) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}
	level := zerolog.WarnLevel
	if options.Verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	loaded, err := velovis.LoadOptions(ctx, options.Config)
	if err != nil {
		return errors.Wrap(err, "[Runner.Run] options")
	}
	clientOptions := options.clientOptions(loaded)
	clientOptions.SignOut = func(ctx context.Context, signInPath string, cause error) {
		fmt.Fprintf(r.out, "session expired, sign in again (%v): velovis login\n", signInPath)
	}
	client, err := velovis.NewClient(ctx, clientOptions)
	if err != nil {
		return errors.Wrap(err, "[Runner.Run] client")
	}
	defer client.Close()
	return r.execute(ctx, client, options, parser.Active.Name)
}

func (r *Runner) execute(ctx context.Context, client *velovis.Client, options *Options, command string) error {
	switch command {
	case "login":
		profile, err := client.API.Login(ctx, options.Login.Username, options.Login.Password)
		if err != nil {
			return errors.Wrap(err, "[Runner.login]")
		}
		fmt.Fprintf(r.out, "signed in as %v\n", profile.DisplayName())
		return nil
	case "logout":
		client.API.Logout(ctx)
		fmt.Fprintln(r.out, "signed out")
		return nil
	}

	state := client.Session.Snapshot()
	if command == "products" {
		return r.products(ctx, client)
	}
	if !state.Authenticated {
		return errors.New("not signed in, run: velovis login")
	}
	switch command {
	case "whoami":
		profile := state.Profile
		fmt.Fprintf(r.out, "%v <%v>\nroles: %v\n", profile.DisplayName(), profile.Email, strings.Join(profile.Roles, ", "))
	case "cart":
		r.cart(client)
	case "cart-add":
		product, err := client.API.ProductBySlug(ctx, options.CartAdd.Slug)
		if err != nil {
			return errors.Wrap(err, "[Runner.cartAdd]")
		}
		if _, err = client.Cart.Add(ctx, product.ID, options.CartAdd.Quantity); err != nil {
			return errors.Wrap(err, "[Runner.cartAdd]")
		}
		r.cart(client)
	case "orders":
		orders, err := client.API.Orders(ctx)
		if err != nil {
			return errors.Wrap(err, "[Runner.orders]")
		}
		for _, order := range orders {
			fmt.Fprintf(r.out, "%v\t%v\t%.2f\t%v\n", order.ID, order.CreatedAt.Format("2006-01-02"), order.TotalPrice, order.Status.Label())
		}
	case "order":
		order, err := client.API.CreateOrder(ctx)
		if err != nil {
			return errors.Wrap(err, "[Runner.order]")
		}
		client.Cart.Clear()
		fmt.Fprintf(r.out, "order %v placed: %.2f (%v)\n", order.ID, order.TotalPrice, order.Status.Label())
	case "roles":
		if !state.Profile.HasPermission(auth.PermissionRolesRead) {
			return errors.New("roles:read permission required")
		}
		roles, err := client.API.Roles(ctx)
		if err != nil {
			return errors.Wrap(err, "[Runner.roles]")
		}
		for _, role := range roles {
			fmt.Fprintf(r.out, "%v\t%v\n", role.Name, strings.Join(role.PermissionKeys(), ","))
		}
	case "users":
		users, err := client.API.Users(ctx)
		if err != nil {
			if api.IsForbidden(err) {
				return errors.New("users:read permission required")
			}
			return errors.Wrap(err, "[Runner.users]")
		}
		for _, user := range users {
			fmt.Fprintf(r.out, "%v\t%v\t%v\n", user.Username, user.Email, strings.Join(user.RoleNames(), ","))
		}
	default:
		return fmt.Errorf("unsupported command: %v", command)
	}
	return nil
}

func (r *Runner) products(ctx context.Context, client *velovis.Client) error {
	products, err := client.API.Products(ctx)
	if err != nil {
		return errors.Wrap(err, "[Runner.products]")
	}
	for _, product := range products {
		fmt.Fprintf(r.out, "%v\t%v\t%.2f\t%d in stock\n", product.Slug, product.Name, product.Price, product.StockQuantity)
	}
	return nil
}

func (r *Runner) cart(client *velovis.Client) {
	for _, item := range client.Cart.Items() {
		fmt.Fprintf(r.out, "%v\tx%d\t%.2f\n", item.Product.Name, item.Quantity, item.Subtotal())
	}
	fmt.Fprintf(r.out, "total: %d items, %.2f\n", client.Cart.TotalQuantity(), client.Cart.TotalPrice())
}
