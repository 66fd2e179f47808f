package taxonomy

import (
	"fmt"
	"sort"
	"strings"
)

// Severity of a consistency issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

const (
	CodeNoTags             = "no_tags"
	CodeMissingTranslation = "missing_translation"
	CodeEmptyTranslation   = "empty_translation"
	CodeOrphanTranslation  = "orphan_translation"
	CodeUnknownCategory    = "unknown_category"
	CodeDuplicateTag       = "duplicate_tag"
	CodeDuplicateCategory  = "duplicate_category"
)

// Issue is a single finding of Check.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s %q: %s", i.Severity, i.Code, i.Subject, i.Message)
}

type Issues []Issue

// HasErrors reports whether any issue has error severity.
func (is Issues) HasErrors() bool {
	for _, issue := range is {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of issues with the given severity.
func (is Issues) Count(severity Severity) int {
	n := 0
	for _, issue := range is {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Check verifies the taxonomy against its own tables. A canonical tag without
// an entry in the current table is an error; everything else that looks like
// drift is reported as a warning. Matching never fails on these problems, it
// only degrades, so this is the place they surface.
func Check(t *Taxonomy) Issues {
	var issues Issues
	if t == nil || len(t.Tags) == 0 {
		return append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeNoTags,
			Subject:  TagsFile,
			Message:  "taxonomy has no canonical tags",
		})
	}

	issues = append(issues, duplicates(t.Tags, CodeDuplicateTag, "tag")...)
	issues = append(issues, duplicates(t.Categories, CodeDuplicateCategory, "category")...)

	canonical := make(map[string]struct{}, len(t.Tags))
	for _, tag := range t.Tags {
		canonical[tag] = struct{}{}

		categories, ok := t.Current[tag]
		switch {
		case !ok:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeMissingTranslation,
				Subject:  tag,
				Message:  "canonical tag has no entry in " + TranslationFile,
			})
		case len(categories) == 0:
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeEmptyTranslation,
				Subject:  tag,
				Message:  "tag maps to no categories; vendors are never matched by it",
			})
		}
	}

	for _, tag := range sortedKeys(t.Current) {
		if _, ok := canonical[tag]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeOrphanTranslation,
				Subject:  tag,
				Message:  "entry in " + TranslationFile + " is not listed in " + TagsFile,
			})
		}
	}

	if len(t.Categories) > 0 {
		vocabulary := NewCategorySet(t.Categories...)
		issues = append(issues, unknownCategories(t.Current, vocabulary, TranslationFile)...)
		issues = append(issues, unknownCategories(t.Legacy, vocabulary, LegacyFile)...)
	}

	return issues
}

func duplicates(items []string, code, kind string) Issues {
	var issues Issues
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Code:     code,
				Subject:  item,
				Message:  kind + " is listed more than once",
			})
			continue
		}
		seen[item] = true
	}
	return issues
}

func unknownCategories(table Table, vocabulary CategorySet, file string) Issues {
	var issues Issues
	for _, tag := range sortedKeys(table) {
		var unknown []string
		for _, c := range table[tag] {
			if !vocabulary.Has(c) {
				unknown = append(unknown, c)
			}
		}
		if len(unknown) == 0 {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeUnknownCategory,
			Subject:  tag,
			Message:  fmt.Sprintf("%s maps to categories outside %s: %s", file, CategoriesFile, strings.Join(unknown, ", ")),
		})
	}
	return issues
}

func sortedKeys(table Table) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
