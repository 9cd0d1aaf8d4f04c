package markup

import (
	"context"
	"testing"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/httpclient"
	"oppsync/internal/platform/logx"
	"oppsync/internal/testutil"
)

func newFetcher() *Fetcher {
	client := httpclient.New(httpclient.Config{MaxRetries: 0}, logx.NewNop())
	return New(client, ports.DefaultFetcherConfig(), logx.NewNop())
}

func TestFetch_Cards(t *testing.T) {
	srv := testutil.NewServer(t, "text/html", testutil.FixtureHTML)
	src := domain.MarkupSource{
		SourceBase: domain.SourceBase{Name: "camps", URL: srv.URL + "/listings/"},
		Item:       ".card",
		Title:      ".title",
		Link:       "a.link",
		Summary:    ".desc",
		Date:       ".deadline",
		Extra:      map[string]string{"organization": ".org", "unknownField": ".title"},
	}

	items := newFetcher().Fetch(context.Background(), src)
	testutil.AssertLen(t, items, 2, "card without link dropped")

	first := items[0]
	testutil.AssertEqual(t, first.Title, "Summer Research Camp", "title")
	testutil.AssertEqual(t, first.URL, srv.URL+"/camps/research", "relative link resolved")
	testutil.AssertEqual(t, first.Summary, "Four weeks in the lab.", "summary")
	testutil.AssertEqual(t, first.Deadline, "2025-07-01", "date")
	testutil.AssertEqual(t, first.Organization, "Lab Institute", "extra field")
	testutil.AssertEqual(t, first.Source, "camps", "source")

	second := items[1]
	testutil.AssertEqual(t, second.URL, "https://other.example.net/bootcamp", "absolute link kept")
	testutil.AssertEqual(t, second.Organization, "Unknown Organization", "default organization")
	testutil.AssertEqual(t, second.Summary, "", "no summary")
}

func TestFetch_NoMatches(t *testing.T) {
	srv := testutil.NewServer(t, "text/html", testutil.FixtureHTML)
	src := domain.MarkupSource{
		SourceBase: domain.SourceBase{Name: "none", URL: srv.URL},
		Item:       ".listing", Title: ".title", Link: "a",
	}

	items, report := newFetcher().FetchWithReport(context.Background(), src)
	testutil.AssertLen(t, items, 0, "nothing matched")
	testutil.AssertNoError(t, report.Err, "not an error")
}
