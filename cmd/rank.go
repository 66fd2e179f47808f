package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/quote-ranker/internal/directory"
	"github.com/spigell/quote-ranker/internal/matching"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"

	PromptBack                = "back"
	PromptAppendToExcludeFile = "Append all vendors to exclude file"
)

var errExit = errors.New("exit requested")

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank vendors for the asset tags",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	addTagFlags(rankCmd)
	rankCmd.Flags().Bool("explain", false, "show the matching categories of every vendor")
	rankCmd.Flags().StringP("output", "o", OutputTable, "output format: table or json")
	rankCmd.Flags().BoolP("interactive", "i", false, "browse the ranking and explanations interactively")
	rankCmd.Flags().String("locale", defaultLocale, "collation locale for vendor names; empty compares bytes")

	viper.BindPFlag("ranking.locale", rankCmd.Flags().Lookup("locale"))
}

// rankResult is the json output of the rank command.
type rankResult struct {
	AssetID   string           `json:"asset_id,omitempty"`
	Tags      []string         `json:"tags"`
	Mode      string           `json:"mode"`
	Relevant  []string         `json:"relevant_categories"`
	Vendors   []matching.Match `json:"vendors"`
	Excluded  int              `json:"excluded"`
	Available int              `json:"available"`
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()
	s := newSession(cmd)

	output, _ := cmd.Flags().GetString("output")
	if output != OutputTable && output != OutputJSON {
		s.logger.Fatal("unknown output format", zap.String("output", output))
	}

	all, candidates := s.loadVendors(ctx)
	if candidates.Len() == 0 {
		s.logger.Info("no vendors left after filters", zap.Int("available", all.Len()))
	}

	result := newRankResult(s.engine, s.asset.ID, s.tags, all, candidates)
	if result.Mode == matching.ModeFallback && candidates.Len() > 0 {
		s.logger.Info("no category signal in tags, ordering vendors by name", zap.Strings("tags", s.tags))
	}

	showMatching, _ := cmd.Flags().GetBool("explain")
	if err := writeResult(os.Stdout, output, result, showMatching); err != nil {
		s.logger.Fatal("writing result", zap.Error(err))
	}

	matches := result.Vendors
	if len(matches) == 0 {
		return
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := browse(s, matches); err != nil && !errors.Is(err, errExit) {
			s.logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// newRankResult ranks candidates. An empty candidate list still yields a
// result with an empty vendor list.
func newRankResult(engine *matching.Engine, assetID string, tags []string, all, candidates *directory.Vendors) *rankResult {
	if tags == nil {
		tags = []string{}
	}

	relevant := engine.ResolveCategories(tags)
	mode := matching.ModeScored
	if relevant.Len() == 0 {
		mode = matching.ModeFallback
	}

	var items []*directory.Vendor
	if candidates != nil {
		items = candidates.Items
	}

	return &rankResult{
		AssetID:   assetID,
		Tags:      tags,
		Mode:      mode,
		Relevant:  relevant.Sorted(),
		Vendors:   engine.RankAnnotated(items, tags),
		Excluded:  all.Len() - candidates.Len(),
		Available: all.Len(),
	}
}

func writeResult(w io.Writer, output string, result *rankResult, showMatching bool) error {
	if output == OutputJSON {
		return writeJSON(w, result)
	}
	return writeTable(w, result.Vendors, showMatching)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, matches []matching.Match, explain bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	last := "CATEGORIES"
	if explain {
		last = "MATCHING"
	}
	fmt.Fprintf(tw, "#\tSCORE\tID\tNAME\t%s\n", last)

	for i, m := range matches {
		categories := m.Vendor.GetCategories()
		if explain {
			categories = m.Matching
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
			i+1, m.Score, m.Vendor.GetID(), m.Vendor.GetName(), strings.Join(categories, ", "),
		)
	}

	return tw.Flush()
}

func matchLabel(i int, m matching.Match) string {
	return fmt.Sprintf("%d. %s / %s (score %d)", i+1, m.Vendor.GetName(), m.Vendor.GetID(), m.Score)
}

// browse lets the user pick vendors to see why they rank where they do.
func browse(s *session, matches []matching.Match) error {
	excludeFile := strings.TrimSpace(s.config.ExcludeFile)

	for {
		items := make([]string, 0, len(matches)+2)
		for i, m := range matches {
			items = append(items, matchLabel(i, m))
		}
		if excludeFile != "" && len(matches) != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		vendorPrompt := promptui.Select{
			Label: "Choose a vendor and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := vendorPrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptBack:
			return errExit
		case PromptAppendToExcludeFile:
			if err := appendToExcludeFile(excludeFile, s.asset.ID, matches); err != nil {
				return err
			}
			s.logger.Info("appended to exclude file",
				zap.String("filename", excludeFile),
				zap.Int("vendors", len(matches)),
			)
			return errExit
		default:
			if idx < 0 || idx >= len(matches) {
				return fmt.Errorf("invalid selection: %s", selected)
			}
			printExplanation(os.Stdout, s, matches[idx].Vendor)
		}
	}
}

func appendToExcludeFile(path, assetID string, matches []matching.Match) error {
	excluded, err := directory.GetExcludedVendorsFromFile(path)
	if errors.Is(err, os.ErrNotExist) {
		excluded, err = &directory.ExcludedVendors{}, nil
	}
	if err != nil {
		return err
	}

	vendors := &directory.Vendors{Items: make([]*directory.Vendor, 0, len(matches))}
	for _, m := range matches {
		vendors.Items = append(vendors.Items, m.Vendor)
	}
	excluded.Append(vendors.ToExcluded(assetID))

	return excluded.ToFile(path)
}
