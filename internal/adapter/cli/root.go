// Package cli is the shop command line: a cobra command tree over the
// storefront use cases.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/niksmo/cloudshop/config"
	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/navigator"
	"github.com/niksmo/cloudshop/internal/core/service"
	"github.com/niksmo/cloudshop/internal/core/variant"
	"github.com/spf13/cobra"
)

// Shop is the storefront as seen by the commands.
type Shop interface {
	Home(ctx context.Context) (service.HomePage, error)
	Products(ctx context.Context) ([]domain.ProductSummary, error)
	Navigator() *navigator.Navigator
	OpenProduct(ctx context.Context, sess domain.Session, id string) (variant.State, error)
	AddToCart(ctx context.Context, sess domain.Session, st variant.State, quantity int) (domain.LineItem, error)
	BuyNow(ctx context.Context, sess domain.Session, st variant.State, quantity int) (domain.Checkout, error)
	Cart(ctx context.Context, sess domain.Session) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, sess domain.Session, skuID string, quantity int) error
	RemoveItem(ctx context.Context, sess domain.Session, skuID string) error
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) error
	Whoami(ctx context.Context, sess domain.Session) (domain.User, error)
	Session() (domain.Session, error)
	Logout() error
}

// A Factory builds the shop for the loaded config. The returned func
// releases its resources.
type Factory func(ctx context.Context, cfg config.Config) (Shop, func(), error)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags and the state shared by all commands.
type RootOptions struct {
	Format string
	Config config.Config

	factory Factory
	shop    Shop
	closeFn func()
}

// Shop builds the storefront on first use.
func (o *RootOptions) Shop(ctx context.Context) (Shop, error) {
	if o.shop != nil {
		return o.shop, nil
	}
	shop, closeFn, err := o.factory(ctx, o.Config)
	if err != nil {
		return nil, err
	}
	o.shop, o.closeFn = shop, closeFn
	return shop, nil
}

func (o *RootOptions) close() {
	if o.closeFn != nil {
		o.closeFn()
		o.closeFn = nil
	}
}

// NewRootCommand creates the root command of the shop CLI.
func NewRootCommand(factory Factory) *cobra.Command {
	opts := &RootOptions{factory: factory}

	cmd := &cobra.Command{
		Use:           "shop",
		Short:         "Cloud Shop storefront client",
		Long:          "Browse the Cloud Shop catalog, pick product variants and manage the cart.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return usageErr(fmt.Errorf(
					"invalid format %q: must be one of %v", opts.Format, ValidFormats,
				))
			}
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return usageErr(err)
			}
			opts.Config = cfg
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			opts.close()
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr(err)
	})

	config.RegisterFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(
		NewHomeCommand(opts),
		NewProductsCommand(opts),
		NewCategoriesCommand(opts),
		NewProductCommand(opts),
		NewAddCommand(opts),
		NewBuyCommand(opts),
		NewCartCommand(opts),
		NewLoginCommand(opts),
		NewRegisterCommand(opts),
		NewLogoutCommand(opts),
		NewWhoamiCommand(opts),
		NewConfigCommand(opts),
	)
	return cmd
}

// NewConfigCommand prints the effective configuration.
func NewConfigCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(opts, cmd)
			if out.json() {
				return out.encode(opts.Config.Masked())
			}
			return opts.Config.Print(cmd.OutOrStdout())
		},
	}
}

// session loads the stored session and the shop.
func session(cmd *cobra.Command, opts *RootOptions) (Shop, domain.Session, error) {
	shop, err := opts.Shop(cmd.Context())
	if err != nil {
		return nil, domain.Session{}, err
	}
	sess, err := shop.Session()
	if err != nil {
		return nil, domain.Session{}, err
	}
	return shop, sess, nil
}
