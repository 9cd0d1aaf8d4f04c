// internal/core/usecases/reconciler_test.go
package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"oppsync/internal/adapters/storage/memory"
	"oppsync/internal/core/domain"
	"oppsync/internal/normalize"
	"oppsync/internal/platform/logx"
	"oppsync/internal/testutil"
)

func newTestReconciler(store *memory.Store, policy domain.ApprovalPolicy) *Reconciler {
	return NewReconciler(ReconcilerOptions{
		Repository:    store,
		Canonicalizer: normalize.NewCanonicalizer(policy),
		Logger:        logx.NewNop(),
	})
}

func TestReconciler_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := newTestReconciler(store, domain.ApprovalAuto)
	src := feedSource("board")

	out, err := r.Reconcile(ctx, rawItem("Math Contest", "https://x.org/math?utm_source=feed"), src)
	testutil.AssertNoError(t, err, "create")
	testutil.AssertEqual(t, out, domain.OutcomeCreated, "first is created")

	out, err = r.Reconcile(ctx, rawItem("Math Contest 2026", "https://X.org/math/"), src)
	testutil.AssertNoError(t, err, "update")
	testutil.AssertEqual(t, out, domain.OutcomeUpdated, "same normalized url updates")

	n, _ := store.Count(ctx)
	testutil.AssertEqual(t, n, 1, "one record")
}

func TestReconciler_ExactMatchAcrossSources(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := newTestReconciler(store, domain.ApprovalAuto)

	first := rawItem("Robotics Cup", "https://robots.org/cup")
	first.Organization = "Robot League"
	_, err := r.Reconcile(ctx, first, feedSource("alpha"))
	testutil.AssertNoError(t, err, "alpha")

	second := rawItem("Robotics Cup (updated)", "https://robots.org/cup")
	second.Organization = "Robot League Intl"
	second.Country = "Germany"
	out, err := r.Reconcile(ctx, second, domain.TabularSource{SourceBase: domain.SourceBase{Name: "beta", URL: "https://b.org/x.csv"}})
	testutil.AssertNoError(t, err, "beta")
	testutil.AssertEqual(t, out, domain.OutcomeUpdated, "matched by url")

	id, err := store.FindByURLOrApplicationURL(ctx, "https://robots.org/cup")
	testutil.RequireNoError(t, err, "lookup")
	got, _ := store.Get(ctx, id)
	testutil.AssertEqual(t, got.Title, "Robotics Cup (updated)", "latest title")
	testutil.AssertEqual(t, got.Organization, "Robot League Intl", "latest organization")
	testutil.AssertEqual(t, got.Country, "DE", "latest country")
	testutil.AssertEqual(t, got.Source, "beta", "latest source")
	testutil.AssertEqual(t, got.SourceType, "TABULAR", "latest source type")
}

func TestReconciler_MatchesApplicationURL(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := newTestReconciler(store, domain.ApprovalAuto)

	first := rawItem("Grant", "https://info.org/grant")
	first.ApplicationURL = "https://apply.org/grant"
	_, err := r.Reconcile(ctx, first, feedSource("a"))
	testutil.AssertNoError(t, err, "first")

	out, err := r.Reconcile(ctx, rawItem("Grant again", "https://apply.org/grant"), feedSource("b"))
	testutil.AssertNoError(t, err, "second")
	testutil.AssertEqual(t, out, domain.OutcomeUpdated, "page url equals stored application url")
}

func TestReconciler_FuzzyMatch(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := newTestReconciler(store, domain.ApprovalAuto)

	first := rawItem("International Summer School on Renewable Energy Systems 2026 Edition", "https://energy.org/school")
	first.Organization = "European Energy Research Alliance Foundation"
	_, err := r.Reconcile(ctx, first, feedSource("a"))
	testutil.AssertNoError(t, err, "first")

	second := rawItem("International Summer School on Renewable Energy Systems 2026 Edition", "https://mirror.net/listing/42")
	second.Organization = "European Energy Research Alliance Foundation"
	out, err := r.Reconcile(ctx, second, feedSource("b"))
	testutil.AssertNoError(t, err, "second")
	testutil.AssertEqual(t, out, domain.OutcomeUpdated, "title and organization prefixes match")

	n, _ := store.Count(ctx)
	testutil.AssertEqual(t, n, 1, "no duplicate row")
}

func TestReconciler_FuzzyMatchKeepsOrganizationsApart(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := newTestReconciler(store, domain.ApprovalAuto)

	mit := rawItem("Summer Program in Robotics", "https://mit.edu/robotics")
	mit.Organization = "MIT"
	_, err := r.Reconcile(ctx, mit, feedSource("a"))
	testutil.AssertNoError(t, err, "mit")

	out, err := r.Reconcile(ctx, rawItem("Summer Program", "https://other.org/sp"), feedSource("b"))
	testutil.AssertNoError(t, err, "org-less")
	testutil.AssertEqual(t, out, domain.OutcomeCreated, "default organization does not match MIT")

	id, err := store.FindByURLOrApplicationURL(ctx, "https://mit.edu/robotics")
	testutil.RequireNoError(t, err, "mit still stored")
	got, _ := store.Get(ctx, id)
	testutil.AssertEqual(t, got.Title, "Summer Program in Robotics", "title untouched")
	testutil.AssertEqual(t, got.Organization, "MIT", "organization untouched")

	out, err = r.Reconcile(ctx, rawItem("summer program", "https://mirror.net/sp"), feedSource("c"))
	testutil.AssertNoError(t, err, "second org-less")
	testutil.AssertEqual(t, out, domain.OutcomeUpdated, "same default organization matches")

	n, _ := store.Count(ctx)
	testutil.AssertEqual(t, n, 2, "two records")
}

func TestReconciler_SkipsWithoutIdentity(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := newTestReconciler(store, domain.ApprovalAuto)

	out, err := r.Reconcile(ctx, rawItem("No link", "not a url"), feedSource("a"))
	testutil.AssertEqual(t, out, domain.OutcomeSkipped, "skipped")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrAmbiguousIdentity), "ambiguous identity")

	out, err = r.Reconcile(ctx, rawItem("", "https://x.org/a"), feedSource("a"))
	testutil.AssertEqual(t, out, domain.OutcomeSkipped, "skipped")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrReconcile), "no title")

	n, _ := store.Count(ctx)
	testutil.AssertEqual(t, n, 0, "nothing written")
}

func TestReconciler_ManualApprovalKeepsStoredFlag(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := newTestReconciler(store, domain.ApprovalManual)

	_, err := r.Reconcile(ctx, rawItem("Prize", "https://prize.org/a"), feedSource("a"))
	testutil.AssertNoError(t, err, "create")
	id, _ := store.FindByURLOrApplicationURL(ctx, "https://prize.org/a")
	got, _ := store.Get(ctx, id)
	testutil.AssertFalse(t, got.Approved, "manual policy creates unapproved")

	// A moderator approves it.
	approved := true
	u := got.AsUpdate(false)
	u.Approved = &approved
	testutil.RequireNoError(t, store.UpdateFields(ctx, id, u), "approve")

	_, err = r.Reconcile(ctx, rawItem("Prize", "https://prize.org/a"), feedSource("a"))
	testutil.AssertNoError(t, err, "update")
	got, _ = store.Get(ctx, id)
	testutil.AssertTrue(t, got.Approved, "approval survives re-ingest")
}

func TestReconciler_ConcurrentSameIdentity(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := newTestReconciler(store, domain.ApprovalAuto)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Reconcile(ctx, rawItem("Same", "https://same.org/x"), feedSource("a"))
		}()
	}
	wg.Wait()

	n, _ := store.Count(ctx)
	testutil.AssertEqual(t, n, 1, "serialized per identity")
}

func TestReconciler_ConcurrentSharedApplicationURL(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := newTestReconciler(store, domain.ApprovalAuto)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := rawItem(fmt.Sprintf("Listing %d", i), fmt.Sprintf("https://mirror%d.org/listing", i))
			item.ApplicationURL = "https://apply.org/form"
			_, _ = r.Reconcile(ctx, item, feedSource("a"))
		}(i)
	}
	wg.Wait()

	n, _ := store.Count(ctx)
	testutil.AssertEqual(t, n, 1, "shared applicationUrl serialized")
}

func TestKeyLocker_LockAllOverlapping(t *testing.T) {
	k := NewKeyLocker(4)

	// Same key twice maps to one partition and must not self-deadlock.
	unlock := k.LockAll("https://a.org", "https://a.org", "")
	unlock()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			k.LockAll("https://a.org", "https://b.org")()
		}()
		go func() {
			defer wg.Done()
			k.LockAll("https://b.org", "https://a.org")()
		}()
	}
	wg.Wait()

	unlock = k.LockAll()
	unlock()
}

func TestKeyLocker_SameKeySamePartition(t *testing.T) {
	k := NewKeyLocker(8)
	testutil.AssertEqual(t, k.partition("https://a.org"), k.partition("https://a.org"), "stable")

	unlock := k.LockAll("x")
	unlock()
	unlock = k.LockAll("x")
	unlock()

	testutil.AssertEqual(t, NewKeyLocker(0).partition("anything"), 0, "single partition")
}
