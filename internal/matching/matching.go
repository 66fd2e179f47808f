// Package matching scores and orders vendors by how well their declared
// categories cover the categories implied by an asset's tags.
//
// Every function here is a pure function of its arguments. Inputs are never
// modified and an Engine may be shared between goroutines.
package matching

import (
	"github.com/spigell/quote-ranker/internal/directory"
	"github.com/spigell/quote-ranker/internal/taxonomy"
)

// Resolver turns tags into the set of categories they imply.
type Resolver interface {
	Resolve(tags []string) taxonomy.CategorySet
}

// Relevance is the derived relevance of one vendor for one set of tags.
type Relevance struct {
	Score    int      `json:"score"`
	Matching []string `json:"matching_categories"`
}

// Match is a ranked vendor together with its relevance.
type Match struct {
	Vendor *directory.Vendor `json:"vendor"`
	Relevance
}

// Score counts the vendor's declared categories that are in relevant.
//
// Counting walks the declared list, so a category declared twice counts
// twice. Vendors without categories score 0.
func Score(vendor *directory.Vendor, relevant taxonomy.CategorySet) int {
	score := 0
	for _, category := range vendor.GetCategories() {
		if relevant.Has(category) {
			score++
		}
	}
	return score
}

// Matching returns the vendor's declared categories that are in relevant, in
// the vendor's declared order.
func Matching(vendor *directory.Vendor, relevant taxonomy.CategorySet) []string {
	matching := make([]string, 0)
	if relevant.Len() == 0 {
		return matching
	}
	for _, category := range vendor.GetCategories() {
		if relevant.Has(category) {
			matching = append(matching, category)
		}
	}
	return matching
}
