package matching

import (
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spigell/quote-ranker/internal/directory"
	"github.com/spigell/quote-ranker/internal/taxonomy"
)

const (
	ModeScored   = "scored"
	ModeFallback = "fallback"
)

// Engine ranks vendors against tags.
type Engine struct {
	resolver  Resolver
	locale    language.Tag
	byteOrder bool
	logger    *zap.Logger
}

type Option func(*Engine)

// WithLocale compares vendor names with the collation rules of locale.
func WithLocale(locale language.Tag) Option {
	return func(e *Engine) {
		e.locale = locale
		e.byteOrder = false
	}
}

// WithByteOrder compares vendor names byte by byte, without collation.
func WithByteOrder() Option {
	return func(e *Engine) {
		e.byteOrder = true
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine. Names are compared with English collation unless an
// option says otherwise. A nil resolver resolves every tag to nothing.
func New(resolver Resolver, opts ...Option) *Engine {
	if resolver == nil {
		resolver = taxonomy.NewTranslator(nil)
	}

	e := &Engine{
		resolver: resolver,
		locale:   language.English,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveCategories returns the categories implied by tags.
func (e *Engine) ResolveCategories(tags []string) taxonomy.CategorySet {
	if len(tags) == 0 {
		return taxonomy.CategorySet{}
	}
	return e.resolver.Resolve(tags)
}

// MatchingCategories explains a vendor's score: the subset of its declared
// categories implied by tags, in declared order.
func (e *Engine) MatchingCategories(vendor *directory.Vendor, tags []string) []string {
	if len(tags) == 0 || len(vendor.GetCategories()) == 0 {
		return []string{}
	}
	return Matching(vendor, e.ResolveCategories(tags))
}

// Relevance returns score and matching categories of one vendor.
func (e *Engine) Relevance(vendor *directory.Vendor, tags []string) Relevance {
	relevant := e.ResolveCategories(tags)
	return Relevance{
		Score:    Score(vendor, relevant),
		Matching: Matching(vendor, relevant),
	}
}

// Rank returns the vendors ordered by relevance for tags. See RankAnnotated.
func (e *Engine) Rank(vendors []*directory.Vendor, tags []string) []*directory.Vendor {
	matches := e.RankAnnotated(vendors, tags)
	ranked := make([]*directory.Vendor, len(matches))
	for i, m := range matches {
		ranked[i] = m.Vendor
	}
	return ranked
}

// RankAnnotated orders vendors by score descending and name ascending.
//
// When tags are empty or none of them resolves to a category there is no
// signal, and vendors are ordered by name only with zero scores. The result
// is a new slice holding every input vendor exactly once; the input slice is
// left untouched.
func (e *Engine) RankAnnotated(vendors []*directory.Vendor, tags []string) []Match {
	relevant := e.ResolveCategories(tags)

	matches := make([]Match, len(vendors))
	for i, vendor := range vendors {
		matches[i] = Match{Vendor: vendor, Relevance: Relevance{Matching: []string{}}}
	}

	mode := ModeScored
	if relevant.Len() == 0 {
		mode = ModeFallback
	} else {
		for i := range matches {
			matches[i].Score = Score(matches[i].Vendor, relevant)
			matches[i].Matching = Matching(matches[i].Vendor, relevant)
		}
	}

	compareNames := e.nameComparator()
	slices.SortStableFunc(matches, func(a, b Match) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return compareNames(a.Vendor, b.Vendor)
	})

	e.logger.Debug("vendors ranked",
		zap.String("mode", mode),
		zap.Int("vendors", len(vendors)),
		zap.Int("tags", len(tags)),
		zap.Strings("categories", relevant.Sorted()),
	)

	return matches
}

// nameComparator orders vendors by name, falling back to a byte comparison
// of the name and then of the id so that the order is total. A collator keeps
// internal buffers, so each ranking builds its own.
func (e *Engine) nameComparator() func(a, b *directory.Vendor) int {
	var collator *collate.Collator
	if !e.byteOrder {
		collator = collate.New(e.locale)
	}

	return func(a, b *directory.Vendor) int {
		an, bn := a.GetName(), b.GetName()
		if collator != nil {
			if c := collator.CompareString(an, bn); c != 0 {
				return c
			}
		}
		if c := strings.Compare(an, bn); c != 0 {
			return c
		}
		return strings.Compare(a.GetID(), b.GetID())
	}
}
