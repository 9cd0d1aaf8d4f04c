// internal/normalize/canonical_test.go
package normalize

import (
	"testing"
	"time"

	"oppsync/internal/core/domain"
	"oppsync/internal/platform/errors"
	"oppsync/internal/testutil"
)

var tabularSrc = domain.TabularSource{SourceBase: domain.SourceBase{Name: "sheet", URL: "https://x.org/sheet.csv"}}

func fixedCanonicalizer(policy domain.ApprovalPolicy) *Canonicalizer {
	c := NewCanonicalizer(policy)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return at }
	return c
}

func TestCanonicalize_Defaults(t *testing.T) {
	c := fixedCanonicalizer(domain.ApprovalAuto)

	opp, err := c.Canonicalize(domain.RawItem{Title: "Title A", URL: "https://x.org/a"}, tabularSrc)
	testutil.RequireNoError(t, err, "canonicalize")

	testutil.AssertEqual(t, opp.URL, "https://x.org/a", "url")
	testutil.AssertEqual(t, opp.ApplicationURL, "https://x.org/a", "application url falls back to url")
	testutil.AssertEqual(t, opp.Type, domain.TypeCompetition, "type")
	testutil.AssertEqual(t, opp.EducationLevel, domain.LevelAll, "level")
	testutil.AssertEqual(t, opp.Country, "Unknown", "country")
	testutil.AssertEqual(t, opp.Organization, DefaultOrganization, "organization")
	testutil.AssertEqual(t, opp.Description, DefaultDescription, "description")
	testutil.AssertEqual(t, opp.Duration, "Varies", "duration")
	testutil.AssertEqual(t, opp.Eligibility, "Check requirements", "eligibility")
	testutil.AssertDeepEqual(t, opp.Fields, []string{"General"}, "fields")
	testutil.AssertLen(t, opp.Tags, 0, "tags")
	testutil.AssertNotNil(t, opp.Tags, "tags never nil")
	testutil.AssertTrue(t, opp.Approved, "approved")
	testutil.AssertFalse(t, opp.Broken, "broken")
	testutil.AssertEqual(t, opp.Source, "sheet", "source")
	testutil.AssertEqual(t, opp.SourceType, "TABULAR", "source type")
	testutil.AssertNil(t, opp.Deadline, "deadline")
	testutil.AssertEqual(t, opp.LastChecked, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "last checked")
}

func TestCanonicalize_CategoryBecomesField(t *testing.T) {
	c := fixedCanonicalizer(domain.ApprovalAuto)
	opp, err := c.Canonicalize(domain.RawItem{Title: "T", URL: "https://x.org/t", Category: "STEM"}, tabularSrc)
	testutil.RequireNoError(t, err, "canonicalize")
	testutil.AssertDeepEqual(t, opp.Fields, []string{"STEM"}, "fields from category")
}

func TestCanonicalize_URLFallbacks(t *testing.T) {
	c := fixedCanonicalizer(domain.ApprovalAuto)

	opp, err := c.Canonicalize(domain.RawItem{Title: "T", URL: "not a url", ApplicationURL: "https://x.org/apply/"}, tabularSrc)
	testutil.RequireNoError(t, err, "bad page url")
	testutil.AssertEqual(t, opp.URL, "https://x.org/apply", "page url from application url")

	opp, err = c.Canonicalize(domain.RawItem{Title: "T", URL: "https://x.org/page", ApplicationURL: "javascript:void(0)"}, tabularSrc)
	testutil.RequireNoError(t, err, "bad application url")
	testutil.AssertEqual(t, opp.ApplicationURL, "https://x.org/page", "application url from page url")

	_, err = c.Canonicalize(domain.RawItem{Title: "T", URL: "nope"}, tabularSrc)
	testutil.AssertTrue(t, errors.Is(err, domain.ErrAmbiguousIdentity), "no identity")
}

func TestCanonicalize_ManualApproval(t *testing.T) {
	c := fixedCanonicalizer(domain.ApprovalManual)
	opp, err := c.Canonicalize(domain.RawItem{Title: "T", URL: "https://x.org/t"}, tabularSrc)
	testutil.RequireNoError(t, err, "canonicalize")
	testutil.AssertFalse(t, opp.Approved, "manual policy never approves")
}

func TestCanonicalize_CarriesValues(t *testing.T) {
	c := fixedCanonicalizer(domain.ApprovalAuto)
	opp, err := c.Canonicalize(domain.RawItem{
		Title:          "Research Fellowship",
		URL:            "https://lab.org/f",
		Organization:   "Lab",
		Country:        "USA",
		Type:           "fellowship",
		EducationLevel: "phd",
		Deadline:       "2025-06-30",
		Tags:           []string{"physics", " ", "summer"},
	}, tabularSrc)
	testutil.RequireNoError(t, err, "canonicalize")

	testutil.AssertEqual(t, opp.Country, "US", "country")
	testutil.AssertEqual(t, opp.Type, domain.TypeScholarship, "type")
	testutil.AssertEqual(t, opp.EducationLevel, domain.LevelPostgraduate, "level")
	testutil.AssertDeepEqual(t, opp.Tags, []string{"physics", "summer"}, "blank tags dropped")
	testutil.AssertNotNil(t, opp.Deadline, "deadline parsed")
}
