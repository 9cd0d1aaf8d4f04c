// internal/core/usecases/matcher.go
package usecases

import (
	"context"
	"strings"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/validator"
)

// Fuzzy match prefix lengths, in runes.
const (
	FuzzyTitleLen = 50
	FuzzyOrgLen   = 30
)

// Matcher finds the stored record a candidate should update. It returns
// an empty id when nothing matches.
type Matcher interface {
	Name() string
	Match(ctx context.Context, repo ports.OpportunityRepository, opp *domain.Opportunity) (string, error)
}

// URLMatcher matches on the normalized url, then the normalized
// applicationUrl, against either stored link.
type URLMatcher struct{}

func (URLMatcher) Name() string { return "url" }

func (URLMatcher) Match(ctx context.Context, repo ports.OpportunityRepository, opp *domain.Opportunity) (string, error) {
	for _, u := range []string{opp.URL, opp.ApplicationURL} {
		if u == "" {
			continue
		}
		id, err := repo.FindByURLOrApplicationURL(ctx, u)
		switch {
		case err == nil:
			return id, nil
		case errors.Is(err, domain.ErrNotFound):
		default:
			return "", err
		}
	}
	return "", nil
}

// FuzzyMatcher matches on case-insensitive containment of the title and
// organization prefixes. The candidate is canonical, so a missing
// organization is the default label and only matches records carrying it.
type FuzzyMatcher struct{}

func (FuzzyMatcher) Name() string { return "fuzzy" }

func (FuzzyMatcher) Match(ctx context.Context, repo ports.OpportunityRepository, opp *domain.Opportunity) (string, error) {
	title := validator.Truncate(strings.TrimSpace(opp.Title), FuzzyTitleLen)
	if title == "" {
		return "", nil
	}
	org := validator.Truncate(strings.TrimSpace(opp.Organization), FuzzyOrgLen)

	id, err := repo.FindByFuzzyTitleOrg(ctx, title, org)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	return id, err
}

// DefaultMatchers is the exact-then-fuzzy chain.
func DefaultMatchers() []Matcher {
	return []Matcher{URLMatcher{}, FuzzyMatcher{}}
}
