// internal/core/usecases/reconciler.go
package usecases

import (
	"context"
	"fmt"
	"time"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/normalize"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
)

// Reconciler canonicalizes one raw item and creates or updates the stored
// record it matches.
type Reconciler struct {
	repo        ports.OpportunityRepository
	canon       *normalize.Canonicalizer
	matchers    []Matcher
	locks       *KeyLocker
	itemTimeout time.Duration
	logger      logx.Logger
}

// ReconcilerOptions configures a Reconciler.
type ReconcilerOptions struct {
	Repository    ports.OpportunityRepository
	Canonicalizer *normalize.Canonicalizer
	// Matchers run in order; first hit wins. Defaults to DefaultMatchers().
	Matchers    []Matcher
	Partitions  int
	ItemTimeout time.Duration
	Logger      logx.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(opts ReconcilerOptions) *Reconciler {
	if opts.Canonicalizer == nil {
		opts.Canonicalizer = normalize.NewCanonicalizer(domain.ApprovalAuto)
	}
	if len(opts.Matchers) == 0 {
		opts.Matchers = DefaultMatchers()
	}
	if opts.Partitions <= 0 {
		opts.Partitions = 64
	}
	if opts.ItemTimeout <= 0 {
		opts.ItemTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	return &Reconciler{
		repo:        opts.Repository,
		canon:       opts.Canonicalizer,
		matchers:    opts.Matchers,
		locks:       NewKeyLocker(opts.Partitions),
		itemTimeout: opts.ItemTimeout,
		logger:      opts.Logger.With("component", "reconciler"),
	}
}

// Reconcile writes item to the store. Any failure is returned with
// OutcomeSkipped; the caller decides whether to continue.
func (r *Reconciler) Reconcile(ctx context.Context, item domain.RawItem, src domain.SourceDescriptor) (outcome domain.Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = domain.OutcomeSkipped
			err = fmt.Errorf("%w: panic: %v", domain.ErrReconcile, rec)
		}
	}()

	opp, err := r.canon.Canonicalize(item, src)
	if err != nil {
		return domain.OutcomeSkipped, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.itemTimeout)
	defer cancel()

	unlock := r.locks.LockAll(opp.URL, opp.ApplicationURL)
	defer unlock()

	id, via, err := r.match(ctx, opp)
	if err != nil {
		return domain.OutcomeSkipped, fmt.Errorf("%w: match %q: %w", domain.ErrReconcile, opp.Title, err)
	}

	if id == "" {
		if _, err := r.repo.Create(ctx, opp); err != nil {
			return domain.OutcomeSkipped, fmt.Errorf("%w: create %q: %w", domain.ErrReconcile, opp.Title, err)
		}
		return domain.OutcomeCreated, nil
	}

	keepApproval := r.canon.Policy() == domain.ApprovalManual
	if err := r.repo.UpdateFields(ctx, id, opp.AsUpdate(keepApproval)); err != nil {
		return domain.OutcomeSkipped, fmt.Errorf("%w: update %s: %w", domain.ErrReconcile, id, err)
	}
	r.logger.Debug("matched existing record", "id", id, "matcher", via, "source", opp.Source)
	return domain.OutcomeUpdated, nil
}

func (r *Reconciler) match(ctx context.Context, opp *domain.Opportunity) (string, string, error) {
	for _, m := range r.matchers {
		id, err := m.Match(ctx, r.repo, opp)
		if err != nil {
			return "", m.Name(), errors.Wrapf(err, "%s matcher", m.Name())
		}
		if id != "" {
			return id, m.Name(), nil
		}
	}
	return "", "", nil
}
