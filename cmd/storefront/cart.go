package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/moda-storefront/internal/cart"
)

func newCartCmd(get func() *app, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and edit the device cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := get().carts.Get(cmd.Context(), flags.profile)
			if err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), view, flags.json)
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id> <variant-id>",
		Short: "Add a product variant after checking stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			view, err := get().carts.AddVariant(cmd.Context(), flags.profile, cart.AddInput{
				ProductID: ids[0],
				VariantID: ids[1],
				Quantity:  quantity,
			})
			if err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), view, flags.json)
		},
	}
	add.Flags().IntVarP(&quantity, "cantidad", "n", 1, "units to add")

	set := &cobra.Command{
		Use:   "set <variant-id> <cantidad>",
		Short: "Set the quantity of a line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[:1])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil || qty < 0 {
				return fmt.Errorf("%s: %q", cart.MsgInvalidQuantity, args[1])
			}
			view, err := get().carts.UpdateQuantity(cmd.Context(), flags.profile, ids[0], qty)
			if err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), view, flags.json)
		},
	}

	remove := &cobra.Command{
		Use:   "remove <variant-id>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			view, err := get().carts.Remove(cmd.Context(), flags.profile, ids[0])
			if err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), view, flags.json)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := get().carts.Clear(cmd.Context(), flags.profile)
			if err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), view, flags.json)
		},
	}

	cmd.AddCommand(show, add, set, remove, clearCmd)
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, raw := range args {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printCart(out io.Writer, view cart.View, asJSON bool) error {
	if asJSON {
		return writeJSON(out, view)
	}
	if len(view.Items) == 0 {
		_, err := fmt.Fprintln(out, "El carrito está vacío")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANTE\tPRODUCTO\tTALLA\tCOLOR\tCANTIDAD\tPRECIO\tSUBTOTAL")
	for _, l := range view.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			l.VariantID, l.Name, l.Size, l.Color, l.Quantity, l.UnitPrice.String(), l.Subtotal().String())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d artículos, total $%s\n", view.Count, view.Total.String())
	return err
}
