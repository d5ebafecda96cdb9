package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-browse/internal/config"
	"github.com/light-bringer/procat-browse/internal/pkg/logger"
	"github.com/light-bringer/procat-browse/internal/services"
)

// cli holds the flags and resources shared by all subcommands.
type cli struct {
	driver     string
	sqlitePath string
	spannerDB  string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Operator tooling for the catalog browsing service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.driver, "driver", "", "store driver (spanner, sqlite, memory); overrides STORE_DRIVER")
	flags.StringVar(&c.sqlitePath, "sqlite-path", "", "SQLite database file; overrides SQLITE_PATH")
	flags.StringVar(&c.spannerDB, "spanner-database", "", "Spanner database path; overrides SPANNER_DATABASE")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newSeedCmd(c), newBrowseCmd(c))
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Store.Driver = c.driver
	}
	if flags.Changed("sqlite-path") {
		cfg.Store.SQLitePath = c.sqlitePath
	}
	if flags.Changed("spanner-database") {
		cfg.Store.SpannerDatabase = c.spannerDB
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Log.Level
	if c.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:       level,
		Environment: cfg.Env,
		ServiceName: "catalogctl",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.cfg = cfg
	c.log = log
	return nil
}

func (c *cli) openStore(ctx context.Context) (*services.Store, error) {
	store, err := services.OpenStore(ctx, c.cfg.Store, c.verbose)
	if err != nil {
		return nil, err
	}
	c.log.Debug("Opened store", zap.String("driver", c.cfg.Store.Driver))
	return store, nil
}
