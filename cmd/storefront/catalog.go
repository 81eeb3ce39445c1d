// cmd/storefront/catalog.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"storefront/internal/app"
	"storefront/internal/catalog"

	"github.com/spf13/cobra"
)

var (
	productSearch   string
	productCategory string
	productMin      float64
	productMax      float64
	productSort     string
	productOrder    string
	productJSON     bool
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List catalog products with search, category, price and sort filters",
	Args:  cobra.NoArgs,
	RunE:  runProducts,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	defaults := catalog.DefaultCriteria()
	f := productsCmd.Flags()
	f.StringVarP(&productSearch, "search", "s", "", "Case-insensitive text matched against name, description and category")
	f.StringVar(&productCategory, "category", "", "Category label to keep")
	f.Float64Var(&productMin, "min", defaults.MinPrice, "Minimum price (inclusive)")
	f.Float64Var(&productMax, "max", defaults.MaxPrice, "Maximum price (inclusive)")
	f.StringVar(&productSort, "sort", string(defaults.SortBy), "Sort key: name, price or rating")
	f.StringVar(&productOrder, "order", string(defaults.SortOrder), "Sort order: asc or desc")
	f.BoolVar(&productJSON, "json", false, "Print products as JSON")
}

// loadViewModel acquires the catalog and waits for it to settle.
func loadViewModel(ctx context.Context) (*catalog.ViewModel, error) {
	source := app.NewCatalogSource(cfg.Catalog, nil, logger)
	vm := catalog.NewViewModel(ctx, source, logger)
	if err := vm.Wait(ctx); err != nil {
		return nil, err
	}
	if err := vm.Err(); err != nil {
		return nil, err
	}
	return vm, nil
}

func runProducts(cmd *cobra.Command, args []string) error {
	sortBy, err := catalog.ParseSortKey(productSort)
	if err != nil {
		return err
	}
	order, err := catalog.ParseSortOrder(productOrder)
	if err != nil {
		return err
	}

	vm, err := loadViewModel(cmd.Context())
	if err != nil {
		return err
	}
	defer vm.Close()

	vm.UpdateFilters(catalog.CriteriaUpdate{
		Search:    &productSearch,
		Category:  &productCategory,
		MinPrice:  &productMin,
		MaxPrice:  &productMax,
		SortBy:    &sortBy,
		SortOrder: &order,
	})

	out := cmd.OutOrStdout()
	products := vm.Products()
	if productJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}
	return printProducts(out, products)
}

func printProducts(out io.Writer, products []catalog.Item) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tRATING")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.1f\n", p.ID, p.Name, p.Category, p.Price, p.Rating)
	}
	return tw.Flush()
}

func runCategories(cmd *cobra.Command, args []string) error {
	vm, err := loadViewModel(cmd.Context())
	if err != nil {
		return err
	}
	defer vm.Close()

	for _, c := range vm.Categories() {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}
