// internal/core/usecases/pipeline_integration_test.go
package usecases

import (
	"context"
	"testing"

	"oppsync/internal/adapters/storage/memory"
	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/httpclient"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/registry"
	"oppsync/internal/sources/feed"
	"oppsync/internal/sources/markup"
	"oppsync/internal/sources/tabular"
	"oppsync/internal/testutil"
)

func realFetchers(t *testing.T) map[domain.SourceKind]ports.Fetcher {
	t.Helper()
	client := httpclient.New(httpclient.Config{MaxRetries: 0}, logx.NewNop())
	cfg := ports.DefaultFetcherConfig()
	return map[domain.SourceKind]ports.Fetcher{
		domain.SourceKindFeed:    feed.New(client, cfg, logx.NewNop()),
		domain.SourceKindMarkup:  markup.New(client, cfg, logx.NewNop()),
		domain.SourceKindTabular: tabular.New(client, cfg, logx.NewNop()),
	}
}

func newPipeline(t *testing.T, store *memory.Store, sources ...domain.SourceDescriptor) *Orchestrator {
	return NewOrchestrator(OrchestratorOptions{
		Sources:    sources,
		Fetchers:   realFetchers(t),
		Reconciler: newTestReconciler(store, domain.ApprovalAuto),
		Logger:     logx.NewNop(),
	})
}

func TestPipeline_TabularScenario(t *testing.T) {
	ctx := context.Background()
	srv := testutil.NewServer(t, "text/csv", "title,url,applicationUrl,organization,country,type,educationLevel,deadline,tags,fields\nTitle A,https://x.org/a,,,,,,,,\n")
	store := memory.New()

	src := domain.TabularSource{SourceBase: domain.SourceBase{Name: "sheet", URL: srv.URL + "/list.csv"}}
	summary, err := newPipeline(t, store, src).IngestAll(ctx)
	testutil.RequireNoError(t, err, "sweep")
	testutil.AssertEqual(t, summary.TotalCreated, 1, "one created")

	id, err := store.FindByURLOrApplicationURL(ctx, "https://x.org/a")
	testutil.RequireNoError(t, err, "stored")
	got, _ := store.Get(ctx, id)
	testutil.AssertEqual(t, got.Type, domain.TypeCompetition, "type default")
	testutil.AssertEqual(t, got.EducationLevel, domain.LevelAll, "level default")
	testutil.AssertEqual(t, got.Country, domain.CountryUnknown, "country default")
	testutil.AssertTrue(t, got.Approved, "approved with application url")
	testutil.AssertEqual(t, got.ApplicationURL, "https://x.org/a", "application url falls back")
	testutil.AssertEqual(t, got.SourceType, "TABULAR", "source type")
	testutil.AssertDeepEqual(t, got.Fields, []string{"General"}, "fields default")
}

func TestPipeline_MixedSourcesTwice(t *testing.T) {
	ctx := context.Background()
	rss := testutil.NewServer(t, "application/rss+xml", testutil.FixtureRSS)
	html := testutil.NewServer(t, "text/html", testutil.FixtureHTML)
	csv := testutil.NewServer(t, "text/csv", testutil.FixtureCSV)
	store := memory.New()

	sources := []domain.SourceDescriptor{
		domain.FeedSource{SourceBase: domain.SourceBase{Name: "board", URL: rss.URL + "/feed"}},
		domain.MarkupSource{
			SourceBase: domain.SourceBase{Name: "lab", URL: html.URL + "/list"},
			Item:       ".card", Title: ".title", Link: "a.link",
		},
		domain.TabularSource{SourceBase: domain.SourceBase{Name: "sheet", URL: csv.URL + "/x.csv"}},
	}

	first, err := newPipeline(t, store, sources...).IngestAll(ctx)
	testutil.RequireNoError(t, err, "first sweep")
	testutil.AssertEqual(t, first.TotalErrors, 0, "no failures")
	testutil.AssertEqual(t, first.TotalCreated, 5, "2 feed + 2 markup + 1 tabular")

	second, err := newPipeline(t, store, sources...).IngestAll(ctx)
	testutil.RequireNoError(t, err, "second sweep")
	testutil.AssertEqual(t, second.TotalCreated, 0, "idempotent")
	testutil.AssertEqual(t, second.TotalUpdated, 5, "all updated")

	n, _ := store.Count(ctx)
	testutil.AssertEqual(t, n, 5, "stored")
}

func TestPipeline_HeaderOnlyTabular(t *testing.T) {
	srv := testutil.NewServer(t, "text/csv", "title,url\n")
	store := memory.New()

	src := domain.TabularSource{SourceBase: domain.SourceBase{Name: "sheet", URL: srv.URL + "/x.csv"}}
	summary, err := newPipeline(t, store, src).IngestAll(context.Background())
	testutil.RequireNoError(t, err, "sweep")
	testutil.AssertEqual(t, summary.TotalCreated, 0, "nothing created")
	testutil.AssertEqual(t, summary.Sources[0].Items, 0, "no items")
	testutil.AssertEqual(t, summary.Sources[0].Status, domain.SourceStatusNoItems, "status")
	testutil.AssertEqual(t, summary.TotalErrors, 0, "not an error")
	testutil.AssertFalse(t, summary.Failed(), "sweep succeeded")
}

func TestPipeline_LoadedDescriptorsValidated(t *testing.T) {
	descs, err := registry.ParseYAML([]byte(`
- name: scraper
  kind: html
  url: https://site.org/list
  item: .card
  link: a
`))
	testutil.RequireNoError(t, err, "parse")

	store := memory.New()
	_, err = newPipeline(t, store, descs...).IngestAll(context.Background())
	testutil.AssertError(t, err, "markup without title selector stops the sweep")

	n, _ := store.Count(context.Background())
	testutil.AssertEqual(t, n, 0, "zero writes")
}
