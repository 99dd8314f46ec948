package locale

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

type IssueKind string

const (
	MissingTable IssueKind = "missing_table" // catalog locale without a table
	MissingKey   IssueKind = "missing_key"   // default key absent from a locale
	UnknownKey   IssueKind = "unknown_key"   // key the default table does not know
	UnknownTable IssueKind = "unknown_table" // table for a locale outside the catalog
)

const suggestionMinRatio = 0.7

type Issue struct {
	Locale     string    `json:"locale"`
	Kind       IssueKind `json:"kind"`
	Key        string    `json:"key,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
}

func (i Issue) String() string {
	switch {
	case i.Key == "":
		return fmt.Sprintf("[%s] %s", i.Locale, i.Kind)
	case i.Suggestion != "":
		return fmt.Sprintf("[%s] %s %q (did you mean %q?)", i.Locale, i.Kind, i.Key, i.Suggestion)
	default:
		return fmt.Sprintf("[%s] %s %q", i.Locale, i.Kind, i.Key)
	}
}

// Report lists the issues found by Audit, ordered by locale (catalog order) then key.
type Report struct {
	Issues []Issue `json:"issues"`
}

func (r Report) OK() bool { return len(r.Issues) == 0 }

// Count returns the number of issues of the given kind.
func (r Report) Count(kind IssueKind) int {
	var n int
	for _, i := range r.Issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

func (r Report) String() string {
	if r.OK() {
		return "translation tables OK"
	}
	lines := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}

// Audit checks every table against the default locale's key set.
func Audit(catalog *Catalog, tables map[string]Table) Report {
	var report Report
	defCode := catalog.Default().Code
	canonical := sortedKeys(tables[defCode])

	for entry := range catalog.All() {
		if entry.Code == defCode {
			continue
		}
		table, ok := tables[entry.Code]
		if !ok {
			report.Issues = append(report.Issues, Issue{Locale: entry.Code, Kind: MissingTable})
			continue
		}
		for _, key := range canonical {
			if _, ok := table[key]; !ok {
				report.Issues = append(report.Issues, Issue{Locale: entry.Code, Kind: MissingKey, Key: key})
			}
		}
		for _, key := range sortedKeys(table) {
			if _, ok := tables[defCode][key]; !ok {
				report.Issues = append(report.Issues, Issue{
					Locale:     entry.Code,
					Kind:       UnknownKey,
					Key:        key,
					Suggestion: closestKey(key, canonical),
				})
			}
		}
	}

	var strays []string
	for code := range tables {
		if _, ok := catalog.Lookup(code); !ok {
			strays = append(strays, code)
		}
	}
	sort.Strings(strays)
	for _, code := range strays {
		report.Issues = append(report.Issues, Issue{Locale: code, Kind: UnknownTable})
	}
	return report
}

func closestKey(key string, candidates []string) string {
	var (
		best      string
		bestRatio float64
	)
	for _, c := range candidates {
		ratio := difflib.NewMatcher(strings.Split(key, ""), strings.Split(c, "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = c, ratio
		}
	}
	if bestRatio < suggestionMinRatio {
		return ""
	}
	return best
}

func sortedKeys(t Table) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
