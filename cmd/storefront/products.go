package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/moda-storefront/internal/catalog"
	"github.com/angelmondragon/moda-storefront/pkg/pagination"
)

func newProductsCmd(get func() *app, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Query the product catalog",
	}
	cmd.AddCommand(newProductsListCmd(get, flags), newProductsShowCmd(get, flags))
	return cmd
}

func newProductsListCmd(get func() *app, flags *globalFlags) *cobra.Command {
	var q catalog.Query
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a page of products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := get().catalog.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.json {
				return writeJSON(out, result)
			}
			return printProductPage(out, result)
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.PageSize, "size", pagination.DefaultSize, "page size (12, 20 or 48)")
	cmd.Flags().StringVarP(&q.SearchText, "query", "q", "", "text to search in name and description")
	cmd.Flags().Int64Var(&q.CategoryID, "categoria", 0, "category id")
	cmd.Flags().StringVar(&q.Size, "talla", "", "variant size")
	cmd.Flags().StringVar(&q.Color, "color", "", "variant color")
	return cmd
}

func newProductsShowCmd(get func() *app, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a product with its variants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			product, source, err := get().catalog.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.json {
				return writeJSON(out, product)
			}

			fmt.Fprintf(out, "%s (#%d) $%s [%s]\n", product.Name, product.ID, product.Price.String(), source)
			if product.Description != "" {
				fmt.Fprintln(out, product.Description)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VARIANTE\tTALLA\tCOLOR\tSTOCK\tSKU")
			for _, v := range product.Variants {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", v.ID, v.Size, v.Color, v.Stock, v.SKU)
			}
			return tw.Flush()
		},
	}
}

func printProductPage(out io.Writer, result catalog.Result) error {
	if result.Message != "" {
		fmt.Fprintf(out, "aviso: %s\n", result.Message)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tPRECIO\tCATEGORÍA\tVARIANTES")
	for _, p := range result.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", p.ID, p.Name, p.Price.String(), p.CategoryID, len(p.Variants))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	meta := pagination.NewMeta(result.Page.Page, result.Size, result.Total)
	pages := make([]string, 0, len(meta.Pages))
	for _, p := range meta.Pages {
		label := strconv.Itoa(p)
		if p == meta.Page {
			label = "[" + label + "]"
		}
		pages = append(pages, label)
	}
	_, err := fmt.Fprintf(out, "página %d de %d (%d productos, fuente %s): %s\n",
		meta.Page, meta.TotalPages, meta.Total, result.Source, strings.Join(pages, " "))
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
