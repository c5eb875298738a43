package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bher20/quotemanager/internal/catalog"
)

var (
	importKey      string
	importVertical string
	importDryRun   bool
)

// catalogCmd groups catalog management commands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage pricing catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available catalogs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		svc, err := catalogService(ctx, st)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tNAME\tVERTICAL\tTERRITORIES\tACTIVITIES\tBUNDLES")
		for _, c := range svc.List() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n", c.Key, c.Name, c.Vertical, len(c.Geographic), len(c.Activities), len(c.Bundles))
		}
		return tw.Flush()
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print a catalog as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		svc, err := catalogService(ctx, st)
		if err != nil {
			return err
		}
		c, err := svc.Get(args[0])
		if err != nil {
			return err
		}
		return writeCatalogYAML(cmd, c)
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a catalog from a YAML, JSON or PDF tariff sheet",
	Long: `Import a catalog into storage. YAML and JSON files use the catalog file
layout; PDF tariff sheets are parsed line by line and need --key.

Examples:
  quotemanager catalog import catalogs/construction.yaml --db-driver sqlite
  quotemanager catalog import tarifs-2025.pdf --key construction-idf --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

func init() {
	catalogImportCmd.Flags().StringVar(&importKey, "key", "", "catalog key (required for PDF, overrides the file's key otherwise)")
	catalogImportCmd.Flags().StringVar(&importVertical, "vertical", "", "vertical the catalog belongs to")
	catalogImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and print the catalog without storing it")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogImportCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	var (
		c   *catalog.Catalog
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		if importKey == "" {
			return fmt.Errorf("--key is required when importing a PDF")
		}
		c, err = catalog.ParsePDF(path, importKey)
	} else {
		c, err = catalog.LoadFile(path)
		if err == nil && importKey != "" {
			c.Key = importKey
		}
	}
	if err != nil {
		return err
	}
	if importVertical != "" {
		c.Vertical = importVertical
	}

	if importDryRun {
		return writeCatalogYAML(cmd, c)
	}
	if cfg.DBDriver == "memory" {
		return fmt.Errorf("the memory driver does not persist catalogs; pass --db-driver or use --dry-run")
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	svc, err := catalogService(ctx, st)
	if err != nil {
		return err
	}
	if err := svc.Import(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d territories, %d activities, %d bundles\n",
		c.Key, len(c.Geographic), len(c.Activities), len(c.Bundles))
	return nil
}

// writeCatalogYAML prints c in the catalog file layout so the output can be
// edited and imported again.
func writeCatalogYAML(cmd *cobra.Command, c *catalog.Catalog) error {
	return catalog.Encode(cmd.OutOrStdout(), c, catalog.FormatYAML)
}
