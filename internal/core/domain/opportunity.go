// internal/core/domain/opportunity.go
package domain

import "time"

// Opportunity is the canonical record persisted to the store.
type Opportunity struct {
	ID string `json:"id"`

	Title        string `json:"title"`
	Organization string `json:"organization"`

	// URL and ApplicationURL are normalized; ApplicationURL falls back to URL.
	URL            string `json:"url"`
	ApplicationURL string `json:"applicationUrl"`

	Type           OpportunityType `json:"type"`
	EducationLevel EducationLevel  `json:"educationLevel"`

	// Country ISO-3166 alpha-2 code, an unmapped pass-through, or CountryUnknown.
	Country string `json:"country"`

	Fields       []string   `json:"fields"`
	Description  string     `json:"description"`
	Duration     string     `json:"duration"`
	Eligibility  string     `json:"eligibility"`
	Funding      string     `json:"funding"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Tags         []string   `json:"tags"`
	Requirements []string   `json:"requirements"`
	Benefits     []string   `json:"benefits"`

	Source     string `json:"source"`
	SourceType string `json:"sourceType"`

	Approved bool `json:"approved"`
	// Broken is owned by the link checker; ingestion only initializes it.
	Broken      bool      `json:"broken"`
	LastChecked time.Time `json:"lastChecked"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OpportunityUpdate is the full replacement of an existing record's mutable
// fields. Identity (ID) and CreatedAt are never part of it.
type OpportunityUpdate struct {
	Title          string
	Organization   string
	URL            string
	ApplicationURL string
	Type           OpportunityType
	EducationLevel EducationLevel
	Country        string
	Fields         []string
	Description    string
	Duration       string
	Eligibility    string
	Funding        string
	Deadline       *time.Time
	Tags           []string
	Requirements   []string
	Benefits       []string
	Source         string
	SourceType     string

	// Approved nil leaves the stored approval untouched.
	Approved *bool

	Broken      bool
	LastChecked time.Time
	UpdatedAt   time.Time
}

// AsUpdate builds the replacement payload for an existing record.
func (o *Opportunity) AsUpdate(keepApproval bool) OpportunityUpdate {
	u := OpportunityUpdate{
		Title:          o.Title,
		Organization:   o.Organization,
		URL:            o.URL,
		ApplicationURL: o.ApplicationURL,
		Type:           o.Type,
		EducationLevel: o.EducationLevel,
		Country:        o.Country,
		Fields:         o.Fields,
		Description:    o.Description,
		Duration:       o.Duration,
		Eligibility:    o.Eligibility,
		Funding:        o.Funding,
		Deadline:       o.Deadline,
		Tags:           o.Tags,
		Requirements:   o.Requirements,
		Benefits:       o.Benefits,
		Source:         o.Source,
		SourceType:     o.SourceType,
		Broken:         o.Broken,
		LastChecked:    o.LastChecked,
		UpdatedAt:      o.UpdatedAt,
	}
	if !keepApproval {
		approved := o.Approved
		u.Approved = &approved
	}
	return u
}

// Apply overwrites the mutable fields of o with u.
func (o *Opportunity) Apply(u OpportunityUpdate) {
	o.Title = u.Title
	o.Organization = u.Organization
	o.URL = u.URL
	o.ApplicationURL = u.ApplicationURL
	o.Type = u.Type
	o.EducationLevel = u.EducationLevel
	o.Country = u.Country
	o.Fields = u.Fields
	o.Description = u.Description
	o.Duration = u.Duration
	o.Eligibility = u.Eligibility
	o.Funding = u.Funding
	o.Deadline = u.Deadline
	o.Tags = u.Tags
	o.Requirements = u.Requirements
	o.Benefits = u.Benefits
	o.Source = u.Source
	o.SourceType = u.SourceType
	if u.Approved != nil {
		o.Approved = *u.Approved
	}
	o.Broken = u.Broken
	o.LastChecked = u.LastChecked
	o.UpdatedAt = u.UpdatedAt
}

// LinkStatus is the link checker's write to a record.
type LinkStatus struct {
	Broken      bool
	LastChecked time.Time
}
