package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spigell/quote-ranker/internal/directory"
	"github.com/spigell/quote-ranker/internal/filtering"
	"github.com/spigell/quote-ranker/internal/logger"
	"github.com/spigell/quote-ranker/internal/matching"
	"github.com/spigell/quote-ranker/internal/taxonomy"
	"github.com/spigell/quote-ranker/internal/utils"
)

const logPreviewLimit = 5

// session holds everything a ranking command needs.
type session struct {
	config     *Config
	logger     *zap.Logger
	taxonomy   *taxonomy.Taxonomy
	translator *taxonomy.Translator
	engine     *matching.Engine
	asset      *directory.Asset
	tags       []string
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

func addTagFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("tags", "t", "", "comma separated asset tags")
	cmd.Flags().StringP("asset", "a", "", "asset file (json or yaml) to take the id and tags from")
}

// newSession loads config, taxonomy and the asset tags. Failures are fatal.
func newSession(cmd *cobra.Command) *session {
	l := newLogger()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	tax, err := taxonomy.LoadDir(config.Taxonomy.Dir)
	if err != nil {
		l.Fatal("loading taxonomy", zap.String("dir", config.Taxonomy.Dir), zap.Error(err))
	}

	asset, err := assetFromFlags(cmd)
	if err != nil {
		l.Fatal("reading asset", zap.Error(err))
	}

	l = logger.WithMatchFields(l, asset.ID, config.Ranking.Locale)

	translator := taxonomy.NewTranslator(tax)
	engine, err := newEngine(translator, config.Ranking.Locale, l)
	if err != nil {
		l.Fatal("building the ranking engine", zap.Error(err))
	}

	s := &session{
		config:     config,
		logger:     l,
		taxonomy:   tax,
		translator: translator,
		engine:     engine,
		asset:      asset,
		tags:       asset.Tags,
	}

	for _, tag := range s.tags {
		if !tax.HasTag(tag) {
			if _, ok := tax.Legacy[taxonomy.NormalizeTag(tag)]; !ok {
				l.Warn("tag is not part of the taxonomy", zap.String("tag", tag))
			}
		}
	}

	l.Debug("session ready",
		zap.String("taxonomy_dir", config.Taxonomy.Dir),
		zap.String("tags", utils.PreviewList(s.tags, logPreviewLimit)),
	)

	return s
}

// assetFromFlags reads --asset and appends --tags to its tags.
func assetFromFlags(cmd *cobra.Command) (*directory.Asset, error) {
	asset := &directory.Asset{Tags: []string{}}

	if path, _ := cmd.Flags().GetString("asset"); strings.TrimSpace(path) != "" {
		loaded, err := directory.LoadAsset(path)
		if err != nil {
			return nil, err
		}
		asset = loaded
	}

	if raw, _ := cmd.Flags().GetString("tags"); raw != "" {
		asset.Tags = append(asset.Tags, directory.ParseTags(raw)...)
	}

	return asset, nil
}

// newEngine builds an engine collating names for locale. An empty locale
// compares names byte by byte.
func newEngine(resolver matching.Resolver, locale string, l *zap.Logger) (*matching.Engine, error) {
	opts := []matching.Option{matching.WithLogger(l)}

	locale = strings.TrimSpace(locale)
	if locale == "" {
		return matching.New(resolver, append(opts, matching.WithByteOrder())...), nil
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing ranking locale %q: %w", locale, err)
	}

	return matching.New(resolver, append(opts, matching.WithLocale(tag))...), nil
}

// loadVendors reads the vendors file and drops excluded vendors.
func (s *session) loadVendors(ctx context.Context) (all, candidates *directory.Vendors) {
	path := viper.GetString("vendors-file")
	if strings.TrimSpace(path) == "" {
		s.logger.Fatal("vendors file is required",
			zap.String("hint", "use --vendors, set QUOTE_RANKER_VENDORS_FILE or the 'vendors-file' key in the configuration file"),
		)
	}

	all, err := directory.LoadVendors(path)
	if err != nil {
		s.logger.Fatal("loading vendors", zap.Error(err))
	}

	s.logger.Info("vendors loaded",
		zap.String("path", path),
		zap.Int("count", all.Len()),
		zap.String("vendors", utils.TruncateForLog(utils.PreviewList(all.Names(), logPreviewLimit), 120)),
	)

	cfg := &filtering.Config{
		Vendors:     s.config.excludedVendors(),
		ExcludeFile: s.config.ExcludeFile,
		AssetID:     s.asset.ID,
	}

	candidates, err = filtering.Run(ctx, cfg, filtering.Deps{Logger: s.logger}, filtering.Default(), all)
	if err != nil {
		s.logger.Fatal("filtering failed", zap.Error(err))
	}

	return all, candidates
}
