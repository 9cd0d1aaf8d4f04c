// internal/normalize/canonical.go
package normalize

import (
	"strings"
	"time"

	"oppsync/internal/core/domain"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/urlfilter"
)

// Defaults filled in for fields a source did not supply.
const (
	DefaultOrganization = "Unknown Organization"
	DefaultDescription  = "No description available"
	DefaultDuration     = "Varies"
	DefaultEligibility  = "Check requirements"
	DefaultFunding      = "Varies"
	DefaultField        = "General"
)

// Canonicalizer turns raw items into canonical opportunities.
type Canonicalizer struct {
	urls   *urlfilter.Normalizer
	policy domain.ApprovalPolicy
	now    func() time.Time
}

// NewCanonicalizer builds a canonicalizer with the given approval policy.
func NewCanonicalizer(policy domain.ApprovalPolicy) *Canonicalizer {
	return &Canonicalizer{
		urls:   urlfilter.NewNormalizer(),
		policy: policy,
		now:    time.Now,
	}
}

// Policy returns the approval policy in use.
func (c *Canonicalizer) Policy() domain.ApprovalPolicy {
	return c.policy
}

// Canonicalize normalizes item as produced by src. It fails with
// domain.ErrAmbiguousIdentity when neither link can be normalized.
func (c *Canonicalizer) Canonicalize(item domain.RawItem, src domain.SourceDescriptor) (*domain.Opportunity, error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil, errors.Wrap(domain.ErrReconcile, "item has no title")
	}

	appRaw := firstNonEmpty(item.ApplicationURL, item.URL)
	pageURL, pageErr := c.urls.Normalize(item.URL)
	appURL, appErr := c.urls.Normalize(appRaw)
	switch {
	case pageErr != nil && appErr != nil:
		return nil, errors.Wrapf(domain.ErrAmbiguousIdentity, "item %q", title)
	case pageErr != nil:
		pageURL = appURL
	case appErr != nil:
		appURL = pageURL
	}

	fields := nonEmpty(item.Fields)
	if len(fields) == 0 {
		fields = []string{firstNonEmpty(item.Category, DefaultField)}
	}

	now := c.now().UTC()
	base := src.Base()
	opp := &domain.Opportunity{
		Title:          title,
		Organization:   firstNonEmpty(item.Organization, DefaultOrganization),
		URL:            pageURL,
		ApplicationURL: appURL,
		Type:           Type(item.Type),
		EducationLevel: EducationLevel(item.EducationLevel),
		Country:        Country(item.Country),
		Fields:         fields,
		Description:    firstNonEmpty(item.Summary, DefaultDescription),
		Duration:       firstNonEmpty(item.Duration, DefaultDuration),
		Eligibility:    firstNonEmpty(item.Eligibility, DefaultEligibility),
		Funding:        firstNonEmpty(item.Funding, DefaultFunding),
		Deadline:       ParseDeadline(item.Deadline),
		Tags:           nonEmpty(item.Tags),
		Requirements:   nonEmpty(item.Requirements),
		Benefits:       nonEmpty(item.Benefits),
		Source:         base.Name,
		SourceType:     src.Kind().SourceType(),
		Approved:       c.policy != domain.ApprovalManual && appURL != "",
		Broken:         false,
		LastChecked:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return opp, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// nonEmpty trims entries and drops blanks; the result is never nil.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
