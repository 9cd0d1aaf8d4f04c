// internal/adapters/storage/memory/store.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
)

// Store keeps opportunities in a map. Used by --dry-run and by tests that
// need a store without a database file.
type Store struct {
	mu      sync.RWMutex
	records map[string]*domain.Opportunity
	// order keeps creation order so lookups resolve to the oldest match.
	order []string
}

// New returns an empty store.
func New() *Store {
	return &Store{records: make(map[string]*domain.Opportunity)}
}

// FindByURLOrApplicationURL implements ports.OpportunityRepository.
func (s *Store) FindByURLOrApplicationURL(_ context.Context, url string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		o := s.records[id]
		if o.URL == url || o.ApplicationURL == url {
			return id, nil
		}
	}
	return "", domain.ErrNotFound
}

// FindByFuzzyTitleOrg implements ports.OpportunityRepository.
func (s *Store) FindByFuzzyTitleOrg(_ context.Context, titlePrefix, orgPrefix string) (string, error) {
	title := strings.ToLower(titlePrefix)
	org := strings.ToLower(orgPrefix)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		o := s.records[id]
		if strings.Contains(strings.ToLower(o.Title), title) &&
			strings.Contains(strings.ToLower(o.Organization), org) {
			return id, nil
		}
	}
	return "", domain.ErrNotFound
}

// Create implements ports.OpportunityRepository.
func (s *Store) Create(_ context.Context, opp *domain.Opportunity) (string, error) {
	if opp.ID == "" {
		opp.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[opp.ID]; exists {
		return "", errors.Errorf("create opportunity: duplicate id %s", opp.ID)
	}
	s.records[opp.ID] = clone(opp)
	s.order = append(s.order, opp.ID)
	return opp.ID, nil
}

// UpdateFields implements ports.OpportunityRepository.
func (s *Store) UpdateFields(_ context.Context, id string, u domain.OpportunityUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.records[id]
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "opportunity %s", id)
	}
	o.Apply(u)
	o.Fields = copyList(o.Fields)
	o.Tags = copyList(o.Tags)
	o.Requirements = copyList(o.Requirements)
	o.Benefits = copyList(o.Benefits)
	return nil
}

// ListLinkCandidates implements ports.LinkRepository.
func (s *Store) ListLinkCandidates(_ context.Context) ([]ports.LinkCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.LinkCandidate, 0)
	for _, id := range s.order {
		o := s.records[id]
		if !o.Approved || o.ApplicationURL == "" {
			continue
		}
		out = append(out, ports.LinkCandidate{
			ID:             o.ID,
			Title:          o.Title,
			ApplicationURL: o.ApplicationURL,
			LastChecked:    o.LastChecked,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastChecked.Before(out[j].LastChecked)
	})
	return out, nil
}

// SetLinkStatus implements ports.LinkRepository.
func (s *Store) SetLinkStatus(_ context.Context, id string, status domain.LinkStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.records[id]
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "opportunity %s", id)
	}
	o.Broken = status.Broken
	o.LastChecked = status.LastChecked.UTC()
	return nil
}

// Get implements ports.Store. The returned record is a copy.
func (s *Store) Get(_ context.Context, id string) (*domain.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(o), nil
}

// Count implements ports.Store.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close implements ports.Store.
func (s *Store) Close() error { return nil }

func clone(o *domain.Opportunity) *domain.Opportunity {
	c := *o
	c.Fields = copyList(o.Fields)
	c.Tags = copyList(o.Tags)
	c.Requirements = copyList(o.Requirements)
	c.Benefits = copyList(o.Benefits)
	if o.Deadline != nil {
		d := *o.Deadline
		c.Deadline = &d
	}
	return &c
}

func copyList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

var _ ports.Store = (*Store)(nil)
