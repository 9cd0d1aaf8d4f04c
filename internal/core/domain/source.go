// internal/core/domain/source.go
package domain

// SourceDescriptor is a closed sum type: one variant per fetch kind.
// Only the types in this file implement it.
type SourceDescriptor interface {
	// Base returns the fields shared by every variant.
	Base() SourceBase

	// Kind returns the fetch strategy of the variant.
	Kind() SourceKind

	isSourceDescriptor()
}

// SourceBase holds the fields common to all descriptors.
type SourceBase struct {
	// Name unique, non-empty identifier; also stored as provenance.
	Name string

	// URL endpoint fetched by the adapter.
	URL string

	// Description free text, informational only.
	Description string

	// Priority orders fetches in the worker pool (higher first).
	Priority int
}

// FeedSource is a syndication feed (RSS, Atom or JSON Feed).
type FeedSource struct {
	SourceBase

	// CountryHints first entry is used when an entry carries no country.
	CountryHints []string

	// Categories are appended to every entry's tags.
	Categories []string
}

// APISource is a structured-data endpoint decoded as JSON.
type APISource struct {
	SourceBase

	// Path dotted path to the item list inside the payload ("data.items").
	Path string

	// Headers sent with every request (API keys, bearer tokens).
	Headers map[string]string

	// Mapping declarative target-field -> source-expression table.
	// An empty mapping falls back to the built-in alias lookup.
	Mapping map[string]string

	// Script is a code mapper carried over from older configuration files.
	// It is never executed; validation rejects any descriptor that sets it.
	Script string
}

// MarkupSource is an HTML page scraped with CSS selectors.
type MarkupSource struct {
	SourceBase

	Item    string
	Title   string
	Link    string
	Summary string
	Date    string

	// Extra maps raw-item field names to selectors evaluated inside each item.
	Extra map[string]string
}

// TabularSource is a comma-separated text payload with a header row.
type TabularSource struct {
	SourceBase

	// Headers maps a raw-item field name to the header used by this source.
	Headers map[string]string
}

// InvalidSource holds a descriptor whose kind is not recognised.
// It exists so validation can report the problem instead of decoding failing.
type InvalidSource struct {
	SourceBase

	RawKind string
}

func (s FeedSource) Base() SourceBase    { return s.SourceBase }
func (s APISource) Base() SourceBase     { return s.SourceBase }
func (s MarkupSource) Base() SourceBase  { return s.SourceBase }
func (s TabularSource) Base() SourceBase { return s.SourceBase }
func (s InvalidSource) Base() SourceBase { return s.SourceBase }

func (FeedSource) Kind() SourceKind      { return SourceKindFeed }
func (APISource) Kind() SourceKind       { return SourceKindAPI }
func (MarkupSource) Kind() SourceKind    { return SourceKindMarkup }
func (TabularSource) Kind() SourceKind   { return SourceKindTabular }
func (s InvalidSource) Kind() SourceKind { return SourceKind(s.RawKind) }

func (FeedSource) isSourceDescriptor()    {}
func (APISource) isSourceDescriptor()     {}
func (MarkupSource) isSourceDescriptor()  {}
func (TabularSource) isSourceDescriptor() {}
func (InvalidSource) isSourceDescriptor() {}
