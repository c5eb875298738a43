package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/internal/metrics"
	"github.com/bher20/quotemanager/internal/pricing"
	"github.com/bher20/quotemanager/internal/selection"
)

var (
	estimateCatalog    string
	estimateGeo        []string
	estimateActivities []string
	estimateBundles    []string
	estimateTerm       string
	outputFormat       string
)

// estimateCmd prices a selection once and prints the breakdown
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Price a selection of territories and activities",
	Long: `Price a selection against a catalog and print the breakdown.

Examples:
  quotemanager estimate --geo 75,92,93,94 --activity gros-oeuvre
  quotemanager estimate --bundle petite-couronne --activity gros-oeuvre --term annual
  quotemanager estimate --catalog services-idf --geo 75 --activity maintenance -f json`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateCatalog, "catalog", "c", "construction-idf", "catalog key")
	estimateCmd.Flags().StringSliceVarP(&estimateGeo, "geo", "g", nil, "geographic codes")
	estimateCmd.Flags().StringSliceVarP(&estimateActivities, "activity", "a", nil, "activity ids")
	estimateCmd.Flags().StringSliceVarP(&estimateBundles, "bundle", "b", nil, "bundle ids (selects every member)")
	estimateCmd.Flags().StringVarP(&estimateTerm, "term", "t", "monthly", "billing term (monthly, annual)")
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json)")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	term, err := selection.ParseBillingTerm(estimateTerm)
	if err != nil {
		return err
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
	cat, err := svc.Get(estimateCatalog)
	if err != nil {
		return err
	}

	sel := selection.FromLists(estimateGeo, estimateActivities, term)
	for _, id := range estimateBundles {
		bundle, ok := cat.BundleByID(id)
		if !ok {
			return fmt.Errorf("unknown bundle %q in catalog %s", id, cat.Key)
		}
		if !sel.IsBundleComplete(bundle) {
			sel.ToggleBundle(bundle)
		}
	}

	b := pricing.Estimate(sel, cat)
	metrics.ObserveEstimate(cat.Key, string(term), len(b.Unresolved))

	switch outputFormat {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case "table", "":
		printBreakdown(cmd.OutOrStdout(), cat, b)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}

func printBreakdown(out io.Writer, cat *catalog.Catalog, b pricing.Breakdown) {
	fmt.Fprintf(out, "%s (%s)\n\n", cat.Name, cat.Key)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "KIND\tREF\tNAME\tBASE\tAMOUNT\t")
	for _, l := range b.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", l.Kind, l.Ref, l.Name, l.BasePrice.StringFixed(2), l.Amount.StringFixed(2))
	}
	tw.Flush()

	fmt.Fprintf(out, "\nActivity multiplier:   x%d\n", b.ActivityMultiplier)
	fmt.Fprintf(out, "Geographic multiplier: x%d\n", b.GeographicMultiplier)
	fmt.Fprintf(out, "Territories:           %s %s\n", b.GeographicSubtotal.StringFixed(2), cat.Currency)
	fmt.Fprintf(out, "Activities:            %s %s\n", b.ActivitySubtotal.StringFixed(2), cat.Currency)
	if b.BundleDiscount.IsPositive() {
		fmt.Fprintf(out, "Bundle discount:      -%s %s\n", b.BundleDiscount.StringFixed(2), cat.Currency)
	}
	if b.TermDiscount.IsPositive() {
		fmt.Fprintf(out, "Annual discount:      -%s %s\n", b.TermDiscount.StringFixed(2), cat.Currency)
	}
	fmt.Fprintf(out, "Total, %s:%*s%s %s\n", b.Term, 15-len(b.Term), "", b.Total.StringFixed(2), cat.Currency)
	if len(b.Unresolved) > 0 {
		fmt.Fprintf(out, "\nIgnored unknown references: %v\n", b.Unresolved)
	}
}
