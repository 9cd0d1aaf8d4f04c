// internal/platform/registry/validate.go
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"

	"oppsync/internal/core/domain"
	"oppsync/internal/platform/mapping"
	"oppsync/internal/platform/validator"
)

// ValidateOne returns the problems of one descriptor in a stable order.
// An empty result means the descriptor is valid.
func ValidateOne(d domain.SourceDescriptor) []string {
	var errs []string
	base := d.Base()

	if strings.TrimSpace(base.Name) == "" {
		errs = append(errs, "source name is required")
	}
	if strings.TrimSpace(base.URL) == "" {
		errs = append(errs, "source URL is required")
	} else if !validator.IsHTTPURL(base.URL) {
		errs = append(errs, "invalid URL format")
	}

	switch s := d.(type) {
	case domain.InvalidSource:
		errs = append(errs, fmt.Sprintf("invalid source kind %q", s.RawKind))
	case domain.FeedSource:
	case domain.APISource:
		errs = append(errs, validateAPI(s)...)
	case domain.MarkupSource:
		errs = append(errs, validateMarkup(s)...)
	case domain.TabularSource:
		for _, field := range sortedKeys(s.Headers) {
			if strings.TrimSpace(s.Headers[field]) == "" {
				errs = append(errs, fmt.Sprintf("header alias for %q is empty", field))
			}
		}
	}
	return errs
}

func validateAPI(s domain.APISource) []string {
	var errs []string
	if strings.TrimSpace(s.Script) != "" {
		errs = append(errs, "executable mappers are not supported, use a declarative mapping")
	}
	if p := strings.TrimSpace(s.Path); p != "" {
		for _, seg := range strings.Split(p, ".") {
			if strings.TrimSpace(seg) == "" {
				errs = append(errs, fmt.Sprintf("invalid path %q", s.Path))
				break
			}
		}
	}
	if len(s.Mapping) > 0 {
		_, problems := mapping.CompileMapping(s.Mapping)
		errs = append(errs, problems...)
	}
	return errs
}

func validateMarkup(s domain.MarkupSource) []string {
	var errs []string
	if strings.TrimSpace(s.Item) == "" || strings.TrimSpace(s.Title) == "" || strings.TrimSpace(s.Link) == "" {
		errs = append(errs, "markup source requires item, title, and link selectors")
	}

	check := func(label, sel string) {
		if strings.TrimSpace(sel) == "" {
			return
		}
		if _, err := cascadia.ParseGroup(sel); err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s selector %q", label, sel))
		}
	}
	check("item", s.Item)
	check("title", s.Title)
	check("link", s.Link)
	check("summary", s.Summary)
	check("date", s.Date)
	for _, field := range sortedKeys(s.Extra) {
		check("extra "+field, s.Extra[field])
	}
	return errs
}

// ValidateAll maps each failing source name to its problems. Valid sources
// are absent from the result. Repeated names are reported as duplicates.
func ValidateAll(ds []domain.SourceDescriptor) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[string]bool, len(ds))

	for _, d := range ds {
		name := d.Base().Name
		errs := ValidateOne(d)
		if name != "" && seen[name] {
			errs = append(errs, "duplicate source name")
		}
		seen[name] = true
		if len(errs) > 0 {
			out[name] = append(out[name], errs...)
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
