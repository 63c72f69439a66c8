package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fjod/bookmood/internal/cart"
	"github.com/fjod/bookmood/internal/domain"
	"github.com/spf13/cobra"
)

func cartCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and edit the stored cart",
	}

	// withCart opens the app for one command and prints the resulting cart.
	withCart := func(fn func(ctx context.Context, a *app, args []string) (domain.Cart, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags.loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := fn(cmd.Context(), a, args)
			if err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), c)
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart",
			Args:  cobra.NoArgs,
			RunE: withCart(func(_ context.Context, a *app, _ []string) (domain.Cart, error) {
				return a.cart.Cart(), nil
			}),
		},
		&cobra.Command{
			Use:   "add <book-id> [quantity]",
			Short: "Add copies of a catalog book",
			Args:  cobra.RangeArgs(1, 2),
			RunE: withCart(func(ctx context.Context, a *app, args []string) (domain.Cart, error) {
				qty := 1
				if len(args) == 2 {
					n, err := strconv.Atoi(args[1])
					if err != nil {
						return domain.Cart{}, fmt.Errorf("invalid quantity %q", args[1])
					}
					qty = n
				}
				book, err := a.catalog.Get(args[0])
				if err != nil {
					return domain.Cart{}, err
				}
				if inCart := a.cart.QuantityOf(book.ID); inCart+qty > book.InStock {
					return domain.Cart{}, fmt.Errorf("only %d of %q in stock, %d already in cart", book.InStock, book.Title, inCart)
				}
				return a.cart.AddItem(ctx, book, qty)
			}),
		},
		&cobra.Command{
			Use:   "remove <book-id>",
			Short: "Remove a book from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: withCart(func(ctx context.Context, a *app, args []string) (domain.Cart, error) {
				return a.cart.RemoveItem(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "set <book-id> <quantity>",
			Short: "Set the quantity of a book already in the cart (0 removes it)",
			Args:  cobra.ExactArgs(2),
			RunE: withCart(func(ctx context.Context, a *app, args []string) (domain.Cart, error) {
				qty, err := strconv.Atoi(args[1])
				if err != nil {
					return domain.Cart{}, fmt.Errorf("invalid quantity %q", args[1])
				}
				return a.cart.SetQuantity(ctx, args[0], qty)
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: withCart(func(ctx context.Context, a *app, _ []string) (domain.Cart, error) {
				return a.cart.Clear(ctx)
			}),
		},
		checkoutCmd(flags),
	)
	return cmd
}

func checkoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Complete a simulated checkout and print the receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flags.loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			receipt, err := cart.NewCheckout(a.cart, nil, a.log).Complete(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Receipt %s\n", receipt.ID)
			fmt.Fprintf(out, "  Subtotal: $%.2f\n", receipt.Subtotal)
			fmt.Fprintf(out, "  Tax:      $%.2f\n", receipt.Tax)
			fmt.Fprintf(out, "  Shipping: Free\n")
			fmt.Fprintf(out, "  Total:    $%.2f\n", receipt.Total)
			return nil
		},
	}
}

func printCart(out io.Writer, c domain.Cart) {
	if len(c.Items) == 0 {
		fmt.Fprintln(out, "Your cart is empty")
		return
	}
	for _, item := range c.Items {
		fmt.Fprintf(out, "%-6s %-40s %3d x $%6.2f = $%7.2f\n",
			item.Book.ID, item.Book.Title, item.Quantity, item.Book.Price, item.Subtotal())
	}
	fmt.Fprintf(out, "%d items, total $%.2f\n", c.ItemCount, c.Total)
}
