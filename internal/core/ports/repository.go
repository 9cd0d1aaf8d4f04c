// internal/core/ports/repository.go
package ports

import (
	"context"
	"time"

	"oppsync/internal/core/domain"
)

// OpportunityRepository is the store as seen by the dedup & upsert engine.
// Implementations must make each call atomic on a single record.
type OpportunityRepository interface {
	// FindByURLOrApplicationURL returns the id of a record whose url or
	// applicationUrl equals url, or domain.ErrNotFound.
	FindByURLOrApplicationURL(ctx context.Context, url string) (string, error)

	// FindByFuzzyTitleOrg returns the id of a record whose title contains
	// titlePrefix and whose organization contains orgPrefix, both
	// case-insensitive. An empty orgPrefix matches any organization.
	// Returns domain.ErrNotFound when nothing matches.
	FindByFuzzyTitleOrg(ctx context.Context, titlePrefix, orgPrefix string) (string, error)

	// Create stores a new record and returns its id.
	Create(ctx context.Context, opp *domain.Opportunity) (string, error)

	// UpdateFields replaces the mutable fields of record id.
	UpdateFields(ctx context.Context, id string, update domain.OpportunityUpdate) error
}

// LinkCandidate is an approved record the link checker may probe.
type LinkCandidate struct {
	ID             string
	Title          string
	ApplicationURL string
	LastChecked    time.Time
}

// LinkRepository is the store as seen by the link checker. It writes only
// the broken and lastChecked fields.
type LinkRepository interface {
	// ListLinkCandidates returns approved records with a non-empty applicationUrl.
	ListLinkCandidates(ctx context.Context) ([]LinkCandidate, error)

	// SetLinkStatus writes broken/lastChecked of record id.
	SetLinkStatus(ctx context.Context, id string, status domain.LinkStatus) error
}

// Store groups every store capability used by the binary.
type Store interface {
	OpportunityRepository
	LinkRepository

	// Get returns a record by id (used by tests and tooling).
	Get(ctx context.Context, id string) (*domain.Opportunity, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying resources.
	Close() error
}
