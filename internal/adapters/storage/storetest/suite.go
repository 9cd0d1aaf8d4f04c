// Package storetest holds the behaviour every ports.Store must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
)

// Factory returns a fresh, empty store.
type Factory func(t *testing.T) ports.Store

// Opportunity builds a complete record for tests.
func Opportunity(title, org, url, appURL string) *domain.Opportunity {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Opportunity{
		Title:          title,
		Organization:   org,
		URL:            url,
		ApplicationURL: appURL,
		Type:           domain.TypeInternship,
		EducationLevel: domain.LevelUndergraduate,
		Country:        "US",
		Fields:         []string{"General"},
		Description:    "No description available",
		Duration:       "Varies",
		Eligibility:    "Check requirements",
		Funding:        "Varies",
		Tags:           []string{},
		Requirements:   []string{},
		Benefits:       []string{},
		Source:         "test",
		SourceType:     "FEED",
		Approved:       appURL != "",
		LastChecked:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Run executes the shared store suite.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
		in := Opportunity("Data Internship", "Acme", "https://acme.org/intern", "https://acme.org/apply")
		in.Deadline = &deadline
		in.Tags = []string{"data", "summer"}

		id, err := s.Create(ctx, in)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "Data Internship", got.Title)
		require.Equal(t, []string{"data", "summer"}, got.Tags)
		require.Equal(t, []string{}, got.Benefits)
		require.NotNil(t, got.Deadline)
		require.True(t, deadline.Equal(*got.Deadline))
		require.True(t, in.CreatedAt.Equal(got.CreatedAt))

		n, err := s.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("find by url or application url", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Create(ctx, Opportunity("A", "Org", "https://x.org/a", "https://x.org/apply"))
		require.NoError(t, err)

		got, err := s.FindByURLOrApplicationURL(ctx, "https://x.org/a")
		require.NoError(t, err)
		require.Equal(t, id, got)

		got, err = s.FindByURLOrApplicationURL(ctx, "https://x.org/apply")
		require.NoError(t, err)
		require.Equal(t, id, got)

		_, err = s.FindByURLOrApplicationURL(ctx, "https://x.org/other")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("fuzzy title and organization", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Create(ctx, Opportunity("Summer Research Program 2026", "MIT Lincoln Lab", "https://mit.edu/a", ""))
		require.NoError(t, err)

		got, err := s.FindByFuzzyTitleOrg(ctx, "summer research", "mit")
		require.NoError(t, err)
		require.Equal(t, id, got)

		got, err = s.FindByFuzzyTitleOrg(ctx, "SUMMER RESEARCH PROGRAM", "")
		require.NoError(t, err)
		require.Equal(t, id, got, "empty organization matches any")

		_, err = s.FindByFuzzyTitleOrg(ctx, "summer research", "stanford")
		require.ErrorIs(t, err, domain.ErrNotFound)

		_, err = s.FindByFuzzyTitleOrg(ctx, "100%", "")
		require.ErrorIs(t, err, domain.ErrNotFound, "wildcards are literal")
	})

	t.Run("fuzzy match folds non-ascii case", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Create(ctx, Opportunity("ÉCOLE Polytechnique Award", "Université Paris", "https://polytechnique.fr/award", ""))
		require.NoError(t, err)

		got, err := s.FindByFuzzyTitleOrg(ctx, "école polytechnique award", "université")
		require.NoError(t, err)
		require.Equal(t, id, got)

		got, err = s.FindByFuzzyTitleOrg(ctx, "École", "UNIVERSITÉ PARIS")
		require.NoError(t, err)
		require.Equal(t, id, got)
	})

	t.Run("update fields keeps identity", func(t *testing.T) {
		s := newStore(t)
		orig := Opportunity("Old", "Org", "https://x.org/a", "https://x.org/apply")
		id, err := s.Create(ctx, orig)
		require.NoError(t, err)

		next := Opportunity("New", "Org", "https://x.org/a", "https://x.org/apply")
		next.UpdatedAt = orig.UpdatedAt.Add(time.Hour)
		next.Tags = []string{"fresh"}
		next.Approved = false
		require.NoError(t, s.UpdateFields(ctx, id, next.AsUpdate(true)))

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "New", got.Title)
		require.Equal(t, []string{"fresh"}, got.Tags)
		require.True(t, got.Approved, "approval kept")
		require.True(t, orig.CreatedAt.Equal(got.CreatedAt))
		require.True(t, next.UpdatedAt.Equal(got.UpdatedAt))

		require.NoError(t, s.UpdateFields(ctx, id, next.AsUpdate(false)))
		got, err = s.Get(ctx, id)
		require.NoError(t, err)
		require.False(t, got.Approved, "approval replaced")

		require.ErrorIs(t, s.UpdateFields(ctx, "missing", next.AsUpdate(false)), domain.ErrNotFound)
	})

	t.Run("link candidates and status", func(t *testing.T) {
		s := newStore(t)
		approved, err := s.Create(ctx, Opportunity("A", "Org", "https://x.org/a", "https://x.org/apply"))
		require.NoError(t, err)

		unapproved := Opportunity("B", "Org", "https://x.org/b", "https://x.org/b")
		unapproved.Approved = false
		_, err = s.Create(ctx, unapproved)
		require.NoError(t, err)

		cands, err := s.ListLinkCandidates(ctx)
		require.NoError(t, err)
		require.Len(t, cands, 1)
		require.Equal(t, approved, cands[0].ID)
		require.Equal(t, "https://x.org/apply", cands[0].ApplicationURL)

		checked := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.SetLinkStatus(ctx, approved, domain.LinkStatus{Broken: true, LastChecked: checked}))

		got, err := s.Get(ctx, approved)
		require.NoError(t, err)
		require.True(t, got.Broken)
		require.True(t, checked.Equal(got.LastChecked))
		require.Equal(t, "A", got.Title, "only link fields change")

		require.ErrorIs(t, s.SetLinkStatus(ctx, "missing", domain.LinkStatus{}), domain.ErrNotFound)
	})
}
