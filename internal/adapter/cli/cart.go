package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func NewAddCommand(opts *RootOptions) *cobra.Command {
	var (
		selects  []string
		quantity int
	)

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add the selected variant to the cart",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, sess, st, err := openProduct(cmd, opts, args[0], selects)
			if err != nil {
				return err
			}
			li, err := shop.AddToCart(cmd.Context(), sess, st, quantity)
			if err != nil {
				return err
			}
			v := lineView{
				SKUID:    li.SKUID,
				Price:    li.Price.String(),
				Quantity: li.Quantity,
				Total:    li.Total().String(),
			}
			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				fmt.Fprintf(w, "Added %d x %s\t%s\n", v.Quantity, v.SKUID, v.Total)
			})
		},
	}

	addSelectFlag(cmd, &selects)
	cmd.Flags().IntVarP(&quantity, "qty", "n", 1, "quantity")
	return cmd
}

func NewBuyCommand(opts *RootOptions) *cobra.Command {
	var (
		selects  []string
		quantity int
	)

	cmd := &cobra.Command{
		Use:   "buy <product-id>",
		Short: "Buy the selected variant now",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, sess, st, err := openProduct(cmd, opts, args[0], selects)
			if err != nil {
				return err
			}
			checkout, err := shop.BuyNow(cmd.Context(), sess, st, quantity)
			if err != nil {
				return err
			}
			v := toCheckout(checkout)
			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				writeCart(w, v)
			})
		},
	}

	addSelectFlag(cmd, &selects)
	cmd.Flags().IntVarP(&quantity, "qty", "n", 1, "quantity")
	return cmd
}

func NewCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, sess, err := session(cmd, opts)
			if err != nil {
				return err
			}
			cart, err := shop.Cart(cmd.Context(), sess)
			if err != nil {
				return err
			}
			v := toCart(cart)
			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				writeCart(w, v)
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <sku-id> <quantity>",
			Short: "Set the quantity of a cart line, 0 removes it",
			Args:  usageArgs(cobra.ExactArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				quantity, err := strconv.Atoi(args[1])
				if err != nil {
					return usageErr(fmt.Errorf("invalid quantity %q", args[1]))
				}
				shop, sess, err := session(cmd, opts)
				if err != nil {
					return err
				}
				return shop.UpdateQuantity(cmd.Context(), sess, args[0], quantity)
			},
		},
		&cobra.Command{
			Use:   "rm <sku-id>",
			Short: "Remove a cart line",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				shop, sess, err := session(cmd, opts)
				if err != nil {
					return err
				}
				return shop.RemoveItem(cmd.Context(), sess, args[0])
			},
		},
	)
	return cmd
}
