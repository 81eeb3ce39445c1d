// cmd/storefront/cart.go
package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"storefront/internal/app"
	"storefront/internal/cart"

	"github.com/spf13/cobra"
)

var addQuantity int

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and change the persisted cart",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show cart lines and totals",
	Args:  cobra.NoArgs,
	RunE:  runCartList,
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id] [size]",
	Short: "Add a product in a size to the cart",
	Long: `Looks the product up in the catalog and adds it to the cart. Adding a product
and size that is already in the cart increases its quantity.`,
	Args: cobra.ExactArgs(2),
	RunE: runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [product-id] [size]",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartRemove,
}

var cartSetCmd = &cobra.Command{
	Use:   "set [product-id] [size] [quantity]",
	Short: "Set a line's quantity; zero or less removes it",
	Args:  cobra.ExactArgs(3),
	RunE:  runCartSet,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

func init() {
	cartAddCmd.Flags().IntVarP(&addQuantity, "quantity", "q", 1, "Quantity to add")
	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartRemoveCmd, cartSetCmd, cartClearCmd)
}

// withCart opens the configured cart, runs fn, and prints the resulting cart.
func withCart(cmd *cobra.Command, fn func(c *cart.Cart) error) error {
	c, closeCart, err := app.OpenCart(cmd.Context(), cfg.Cart, logger)
	if err != nil {
		return err
	}
	defer closeCart()

	if err := fn(c); err != nil {
		return err
	}
	return printCart(cmd.OutOrStdout(), c)
}

func runCartList(cmd *cobra.Command, args []string) error {
	return withCart(cmd, func(*cart.Cart) error { return nil })
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	vm, err := loadViewModel(cmd.Context())
	if err != nil {
		return err
	}
	defer vm.Close()

	item, ok := vm.ProductByID(id)
	if !ok {
		return fmt.Errorf("product %d not found", id)
	}
	line := app.LineFromItem(item, args[1], addQuantity)
	if err := cart.ValidateLine(line); err != nil {
		return err
	}

	return withCart(cmd, func(c *cart.Cart) error {
		return c.AddItem(cmd.Context(), line)
	})
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	return withCart(cmd, func(c *cart.Cart) error {
		return c.RemoveItem(cmd.Context(), id, args[1])
	})
}

func runCartSet(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	quantity, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[2])
	}
	return withCart(cmd, func(c *cart.Cart) error {
		return c.UpdateQuantity(cmd.Context(), id, args[1], quantity)
	})
}

func runCartClear(cmd *cobra.Command, args []string) error {
	return withCart(cmd, func(c *cart.Cart) error {
		return c.ClearCart(cmd.Context())
	})
}

func printCart(out io.Writer, c *cart.Cart) error {
	lines := c.Lines()
	if len(lines) == 0 {
		_, err := fmt.Fprintln(out, "Cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tQTY\tPRICE")
	for _, l := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f\n", l.ID, l.Name, l.Size, l.Quantity, l.Price)
	}
	fmt.Fprintf(tw, "\t\tTOTAL\t%d\t%.2f\n", c.TotalItems(), c.TotalPrice())
	return tw.Flush()
}
