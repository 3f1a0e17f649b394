package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/navigator"
	"github.com/niksmo/cloudshop/internal/core/variant"
	"github.com/spf13/cobra"
)

func NewHomeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the product list and root categories",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, err := opts.Shop(cmd.Context())
			if err != nil {
				return err
			}
			page, err := shop.Home(cmd.Context())
			if err != nil {
				return err
			}

			v := struct {
				Products   []productCardView `json:"products"`
				Categories []categoryView    `json:"categories"`
			}{toProductCards(page.Products), toCategories(page.Categories)}

			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				writeCategories(w, v.Categories)
				fmt.Fprintln(w)
				writeProductCards(w, v.Products)
			})
		},
	}
}

func NewProductsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, err := opts.Shop(cmd.Context())
			if err != nil {
				return err
			}
			ps, err := shop.Products(cmd.Context())
			if err != nil {
				return err
			}
			v := toProductCards(ps)
			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				writeProductCards(w, v)
			})
		},
	}
}

// NewCategoriesCommand walks the category tree: every id descends one level
// from the previous one, --up ascends afterwards.
func NewCategoriesCommand(opts *RootOptions) *cobra.Command {
	var up int

	cmd := &cobra.Command{
		Use:   "categories [id...]",
		Short: "Browse categories",
		Args:  usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if up < 0 {
				return usageErr(fmt.Errorf("negative --up %d", up))
			}
			shop, err := opts.Shop(cmd.Context())
			if err != nil {
				return err
			}
			st, err := browse(cmd, shop.Navigator(), args, up)
			if err != nil {
				return err
			}
			v := toNavigation(st)
			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				writeNavigation(w, v)
			})
		},
	}

	cmd.Flags().IntVar(&up, "up", 0, "levels to ascend after descending")
	return cmd
}

func browse(
	cmd *cobra.Command, nav *navigator.Navigator, ids []string, up int,
) (navigator.State, error) {
	ctx := cmd.Context()

	st, err := nav.Root(ctx)
	if err != nil {
		return navigator.State{}, err
	}
	for _, id := range ids {
		c, ok := st.Child(id)
		if !ok {
			return navigator.State{}, fmt.Errorf("category %q: %w", id, domain.ErrNotFound)
		}
		if st, err = nav.Descend(ctx, c); err != nil {
			return navigator.State{}, err
		}
	}
	for range up {
		if st, err = nav.Ascend(ctx); err != nil {
			return navigator.State{}, err
		}
	}
	return st, nil
}

func NewProductCommand(opts *RootOptions) *cobra.Command {
	var selects []string

	cmd := &cobra.Command{
		Use:   "product <id>",
		Short: "Show a product and its variant options",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, st, err := openProduct(cmd, opts, args[0], selects)
			if err != nil {
				return err
			}
			v := toProduct(st)
			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				writeProduct(w, v)
			})
		},
	}

	addSelectFlag(cmd, &selects)
	return cmd
}

func addSelectFlag(cmd *cobra.Command, selects *[]string) {
	cmd.Flags().StringArrayVarP(selects, "select", "s", nil,
		"spec value to choose as axis=value, repeatable")
}

// openProduct loads the product and applies the selections in order.
func openProduct(
	cmd *cobra.Command, opts *RootOptions, id string, selects []string,
) (Shop, domain.Session, variant.State, error) {
	pairs, err := parseSelects(selects)
	if err != nil {
		return nil, domain.Session{}, variant.State{}, usageErr(err)
	}

	shop, sess, err := session(cmd, opts)
	if err != nil {
		return nil, domain.Session{}, variant.State{}, err
	}

	st, err := shop.OpenProduct(cmd.Context(), sess, id)
	if err != nil {
		return nil, domain.Session{}, variant.State{}, err
	}
	for _, kv := range pairs {
		st, err = st.Select(kv[0], kv[1])
		if err != nil {
			if errors.Is(err, variant.ErrUnknownSpec) || errors.Is(err, variant.ErrUnknownValue) {
				err = usageErr(err)
			}
			return nil, domain.Session{}, variant.State{}, err
		}
	}
	return shop, sess, st, nil
}

func parseSelects(selects []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(selects))
	for _, s := range selects {
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("invalid --select %q: want axis=value", s)
		}
		pairs = append(pairs, [2]string{k, v})
	}
	return pairs, nil
}
