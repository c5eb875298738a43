// Package cmd provides the CLI commands for quotemanager.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/internal/config"
	"github.com/bher20/quotemanager/internal/logging"
	"github.com/bher20/quotemanager/internal/storage"
	"github.com/bher20/quotemanager/pkg/verticals"

	// Built-in verticals register their catalogs in init.
	_ "github.com/bher20/quotemanager/pkg/verticals/construction"
	_ "github.com/bher20/quotemanager/pkg/verticals/services"
)

// Set at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

var (
	logLevel  string
	logFormat string
	dbDriver  string
	dbDSN     string
	verbose   bool

	cfg config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quotemanager",
	Short: "Estimate construction-platform subscription quotes",
	Long: `quotemanager prices subscriptions built from territories and trade
activities, with bundle and annual billing discounts.

Examples:
  quotemanager serve
  quotemanager estimate --geo 75,92,93,94 --activity gros-oeuvre
  quotemanager catalog import tarifs.pdf --key construction-idf
  quotemanager migrate up --db-driver sqlite --db-dsn quotemanager.db`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "storage driver (memory, sqlite, postgres, postgrespool)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", "", "storage DSN")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the environment and applies any flag overrides on top.
func initConfig(cmd *cobra.Command) error {
	cfg = config.FromEnv()
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if flags.Changed("db-driver") {
		cfg.DBDriver = dbDriver
	}
	if flags.Changed("db-dsn") {
		cfg.DBDSN = dbDSN
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	lc := logging.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.Format = cfg.LogFormat
	if err := logging.Initialize(lc); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		return err
	}
	return nil
}

func openStore(ctx context.Context) (storage.Storage, error) {
	st, err := storage.Open(ctx, storage.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN}, logging.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return st, nil
}

// builtinCatalogs returns the vertical catalogs plus any configured catalog files.
func builtinCatalogs(log *zap.Logger) ([]*catalog.Catalog, error) {
	cats := verticals.Catalogs()
	for _, path := range cfg.CatalogFiles {
		c, err := catalog.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", path, err)
		}
		log.Info("catalog file loaded", zap.String("path", path), zap.String("catalog", c.Key))
		cats = append(cats, c)
	}
	return cats, nil
}

// catalogService builds the catalog service against st and loads stored catalogs.
func catalogService(ctx context.Context, st storage.Storage) (*catalog.Service, error) {
	log := logging.Named("catalog")
	builtin, err := builtinCatalogs(log)
	if err != nil {
		return nil, err
	}
	svc := catalog.NewService(catalog.NewRegistry(), st, log, builtin...)
	if _, err := svc.Refresh(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quotemanager version %s\n", version)
	},
}
