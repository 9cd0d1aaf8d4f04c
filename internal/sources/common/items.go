// internal/sources/common/items.go
package common

import (
	"strings"

	"oppsync/internal/core/domain"
	"oppsync/internal/normalize"
)

// ApplyDefaults fills the metadata a source format cannot carry.
// organization overrides the generic default when non-empty.
func ApplyDefaults(item *domain.RawItem, organization string) {
	if item.Organization == "" {
		item.Organization = FirstNonEmpty(organization, normalize.DefaultOrganization)
	}
	if item.Type == "" {
		item.Type = string(domain.TypeCompetition)
	}
	if item.EducationLevel == "" {
		item.EducationLevel = string(domain.LevelAll)
	}
	if len(item.Fields) == 0 {
		item.Fields = []string{FirstNonEmpty(item.Category, normalize.DefaultField)}
	}
	if item.Duration == "" {
		item.Duration = normalize.DefaultDuration
	}
	if item.Eligibility == "" {
		item.Eligibility = normalize.DefaultEligibility
	}
	if item.Funding == "" {
		item.Funding = normalize.DefaultFunding
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if item.Requirements == nil {
		item.Requirements = []string{}
	}
	if item.Benefits == nil {
		item.Benefits = []string{}
	}
}

// Accept drops items without a title or link.
func Accept(items []domain.RawItem) []domain.RawItem {
	out := items[:0]
	for _, it := range items {
		it.Title = strings.TrimSpace(it.Title)
		it.URL = strings.TrimSpace(it.URL)
		if it.HasIdentity() {
			out = append(out, it)
		}
	}
	return out
}

// FirstNonEmpty returns the first value that is not blank, trimmed.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// SplitList splits a semicolon-separated cell, dropping blanks.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CollapseSpace joins runs of whitespace into single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
