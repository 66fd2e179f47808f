package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/quote-ranker/internal/directory"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain the score of one vendor for the asset tags",
	Run: func(cmd *cobra.Command, _ []string) {
		explain(cmd)
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)

	addTagFlags(explainCmd)
	explainCmd.Flags().String("vendor", "", "id of the vendor to explain")
	explainCmd.MarkFlagRequired("vendor")
}

func explain(cmd *cobra.Command) {
	s := newSession(cmd)

	id, _ := cmd.Flags().GetString("vendor")
	all, candidates := s.loadVendors(context.Background())

	vendor := all.FindByID(strings.TrimSpace(id))
	if vendor == nil {
		s.logger.Fatal("there is no such vendor", zap.String("vendor_id", id))
	}
	if candidates.FindByID(vendor.ID) == nil {
		s.logger.Warn("vendor is excluded from ranking for this asset", zap.String("vendor_id", vendor.ID))
	}

	printExplanation(os.Stdout, s, vendor)
}

// printExplanation writes the score of vendor and where every tag resolved from.
func printExplanation(w io.Writer, s *session, vendor *directory.Vendor) {
	relevance := s.engine.Relevance(vendor, s.tags)

	fmt.Fprintf(w, "vendor:     %s (%s)\n", vendor.GetName(), vendor.GetID())
	fmt.Fprintf(w, "categories: %s\n", strings.Join(vendor.GetCategories(), ", "))
	fmt.Fprintf(w, "score:      %d\n", relevance.Score)
	fmt.Fprintf(w, "matching:   %s\n", strings.Join(relevance.Matching, ", "))

	if len(s.tags) == 0 {
		fmt.Fprintln(w, "no tags given, vendors are ordered by name")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tSOURCE\tCATEGORIES")
	for _, tag := range s.tags {
		categories, source := s.translator.Lookup(tag)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tag, source, strings.Join(categories, ", "))
	}
	tw.Flush()
}
