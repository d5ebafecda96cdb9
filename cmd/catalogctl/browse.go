package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-browse/internal/app/catalog/seed"
	"github.com/light-bringer/procat-browse/internal/app/catalog/selection"
	"github.com/light-bringer/procat-browse/internal/config"
)

type browseFlags struct {
	search     string
	categories []string
	brands     []string
	page       int
	query      string
}

func newBrowseCmd(c *cli) *cobra.Command {
	f := &browseFlags{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List one page of products for a filter selection",
		Long: `Runs the product listing for a search term, category and brand selection
and prints the page as a table, followed by the query string that reproduces it.

A selection can also be given as a query string copied from the browser:

  catalogctl browse --query 'search=laptop&categories[]=c1&page=2'

With the memory driver the demo catalog is generated first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := f.state(cmd)
			if err != nil {
				return err
			}
			return c.runBrowse(cmd, state)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.search, "search", "s", "", "case-insensitive name search")
	flags.StringSliceVar(&f.categories, "category", nil, "category id (repeatable)")
	flags.StringSliceVar(&f.brands, "brand", nil, "brand id (repeatable)")
	flags.IntVarP(&f.page, "page", "p", 1, "page number")
	flags.StringVar(&f.query, "query", "", "selection as a URL query string")

	return cmd
}

// state builds the selection from --query first, then applies the
// explicitly set filter flags on top of it.
func (f *browseFlags) state(cmd *cobra.Command) (*selection.State, error) {
	state := selection.New()
	if f.query != "" {
		values, err := url.ParseQuery(strings.TrimPrefix(f.query, "?"))
		if err != nil {
			return nil, fmt.Errorf("invalid --query: %w", err)
		}
		state.Hydrate(values)
	}

	flags := cmd.Flags()
	if flags.Changed("search") {
		state.SetSearch(f.search)
	}
	if flags.Changed("category") {
		state.SetCategories(f.categories)
	}
	if flags.Changed("brand") {
		state.SetBrands(f.brands)
	}
	if flags.Changed("page") {
		state.SetPage(f.page)
	}
	return state, nil
}

func (c *cli) runBrowse(cmd *cobra.Command, state *selection.State) error {
	ctx := cmd.Context()

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.cfg.Store.Driver == config.DriverMemory {
		if _, err := seed.Load(ctx, store.Writer, seed.DefaultOptions()); err != nil {
			return err
		}
	}

	snap := state.Snapshot()
	result, err := list_products.NewQuery(store.ReadModel).Execute(ctx, list_products.RequestFromSnapshot(snap))
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	printPage(cmd.OutOrStdout(), result, state.QueryString())
	return nil
}

func printPage(w io.Writer, result *contracts.ResultPage, query string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "BRAND", "CATEGORY", "PRICE", "CREATED")
	for _, p := range result.Items {
		t.Row(p.ID, p.Name, referenceName(p.Brand), referenceName(p.Category), p.Price.String(),
			p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if len(result.Items) > 0 {
		fmt.Fprintln(w, t.Render())
	}
	fmt.Fprintf(w, "Showing %d to %d of %d results (page %d of %d)\n",
		result.From(), result.To(), result.Total, result.Page, result.LastPage())
	fmt.Fprintf(w, "?%s\n", query)
}

func referenceName(ref *domain.Reference) string {
	if ref == nil {
		return "-"
	}
	return ref.Name
}
