package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/quote-ranker/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the tag taxonomy and its translation tables",
}

var taxonomyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that every tag has a translation and every category is known",
	Run: func(cmd *cobra.Command, _ []string) {
		checkTaxonomy(cmd)
	},
}

var taxonomyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags with their current categories",
	Run: func(_ *cobra.Command, _ []string) {
		l := newLogger()
		tax, _ := loadTaxonomy(l)
		if err := writeTaxonomy(os.Stdout, tax); err != nil {
			l.Fatal("writing taxonomy", zap.Error(err))
		}
	},
}

var taxonomyResolveCmd = &cobra.Command{
	Use:   "resolve TAG...",
	Short: "Show where each tag resolves from and the resulting categories",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		l := newLogger()
		tax, _ := loadTaxonomy(l)
		if err := writeResolution(os.Stdout, taxonomy.NewTranslator(tax), args); err != nil {
			l.Fatal("writing resolution", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.AddCommand(taxonomyCheckCmd, taxonomyListCmd, taxonomyResolveCmd)

	taxonomyCheckCmd.Flags().BoolP("watch", "w", false, "check again every time a taxonomy file changes")
}

// loadTaxonomy loads the configured taxonomy and returns it with its directory.
func loadTaxonomy(l *zap.Logger) (*taxonomy.Taxonomy, string) {
	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	tax, err := taxonomy.LoadDir(config.Taxonomy.Dir)
	if err != nil {
		l.Fatal("loading taxonomy", zap.String("dir", config.Taxonomy.Dir), zap.Error(err))
	}

	l.Debug("taxonomy loaded",
		zap.String("dir", config.Taxonomy.Dir),
		zap.Int("tags", len(tax.Tags)),
		zap.Int("legacy_tags", len(tax.Legacy)),
	)

	return tax, config.Taxonomy.Dir
}

func checkTaxonomy(cmd *cobra.Command) {
	l := newLogger()
	tax, dir := loadTaxonomy(l)

	issues := taxonomy.Check(tax)
	report(l, issues)

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		if issues.HasErrors() {
			os.Exit(1)
		}
		return
	}

	if dir == "" {
		l.Fatal("the built-in taxonomy can not be watched",
			zap.String("hint", "set taxonomy.dir in the configuration file or use --taxonomy-dir"),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := taxonomy.Watch(ctx, dir, taxonomy.DefaultDebounce, l, func(tax *taxonomy.Taxonomy, err error) {
		if err != nil {
			l.Error("reloading taxonomy", zap.Error(err))
			return
		}
		report(l, taxonomy.Check(tax))
	})
	if err != nil {
		l.Fatal("watching taxonomy", zap.Error(err))
	}
}

func report(l *zap.Logger, issues taxonomy.Issues) {
	for _, issue := range issues {
		fields := []zap.Field{
			zap.String("code", issue.Code),
			zap.String("subject", issue.Subject),
			zap.String("message", issue.Message),
		}
		if issue.Severity == taxonomy.SeverityError {
			l.Error("taxonomy issue", fields...)
		} else {
			l.Warn("taxonomy issue", fields...)
		}
	}

	l.Info("taxonomy checked",
		zap.Int("errors", issues.Count(taxonomy.SeverityError)),
		zap.Int("warnings", issues.Count(taxonomy.SeverityWarning)),
	)
}

func writeTaxonomy(w io.Writer, tax *taxonomy.Taxonomy) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tCATEGORIES")
	for _, tag := range tax.Tags {
		categories, ok := tax.Current[tag]
		value := strings.Join(categories, ", ")
		switch {
		case !ok:
			value = "(missing)"
		case len(categories) == 0:
			value = "(none)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", tag, value)
	}
	return tw.Flush()
}

func writeResolution(w io.Writer, translator *taxonomy.Translator, tags []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tSOURCE\tCATEGORIES")
	for _, tag := range tags {
		categories, source := translator.Lookup(tag)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tag, source, strings.Join(categories, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "resolved: %s\n", strings.Join(translator.Resolve(tags).Sorted(), ", "))
	return err
}
