package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-browse/internal/app/catalog/seed"
	"github.com/light-bringer/procat-browse/internal/config"
)

func newSeedCmd(c *cli) *cobra.Command {
	opts := seed.DefaultOptions()
	var start string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the configured store with a generated demo catalog",
		Long: `Generates brands, categories and products and writes them to the store.

Generation is deterministic: the same --seed and counts always produce the same
catalog, so re-running against the same store updates rows in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if start != "" {
				t, err := time.Parse(time.RFC3339, start)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
				opts.Start = t.UTC()
			}
			return c.runSeed(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.Brands, "brands", opts.Brands, "number of brands")
	flags.IntVar(&opts.Categories, "categories", opts.Categories, "number of categories")
	flags.IntVar(&opts.Products, "products", opts.Products, "number of products")
	flags.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	flags.StringVar(&start, "start", "", "creation time of the first product (RFC3339)")

	return cmd
}

func (c *cli) runSeed(cmd *cobra.Command, opts seed.Options) error {
	ctx := cmd.Context()

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	catalog, err := seed.Load(ctx, store.Writer, opts)
	if err != nil {
		return err
	}

	c.log.Info("Seeded catalog",
		zap.String("driver", c.cfg.Store.Driver),
		zap.Int("brands", len(catalog.Brands)),
		zap.Int("categories", len(catalog.Categories)),
		zap.Int("products", len(catalog.Products)),
	)
	if c.cfg.Store.Driver == config.DriverMemory {
		c.log.Warn("The memory store is discarded when catalogctl exits")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d brands, %d categories, %d products\n",
		len(catalog.Brands), len(catalog.Categories), len(catalog.Products))
	return nil
}
