// internal/platform/registry/registry_test.go
package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/logx"
	"oppsync/internal/testutil"
)

type stubFetcher struct{ kind domain.SourceKind }

func (s stubFetcher) Kind() domain.SourceKind { return s.kind }
func (s stubFetcher) Fetch(context.Context, domain.SourceDescriptor) []domain.RawItem {
	return nil
}

type stubGetter struct{}

func (stubGetter) Get(context.Context, string, map[string]string) (*ports.Response, error) {
	return &ports.Response{}, nil
}

func TestFetcherRegistry_RegisterAndBuild(t *testing.T) {
	r := NewFetcherRegistry(logx.NewNop())

	factory := func(kind domain.SourceKind) FetcherFactory {
		return func(Deps) (ports.Fetcher, error) { return stubFetcher{kind: kind}, nil }
	}

	testutil.AssertNoError(t, r.Register(domain.SourceKindFeed, factory(domain.SourceKindFeed), ports.FetcherMetadata{Weight: 10}), "register feed")
	testutil.AssertNoError(t, r.Register(domain.SourceKindTabular, factory(domain.SourceKindTabular), ports.FetcherMetadata{}), "register tabular")
	testutil.AssertError(t, r.Register(domain.SourceKindFeed, factory(domain.SourceKindFeed), ports.FetcherMetadata{}), "duplicate kind")
	testutil.AssertError(t, r.Register("ftp", factory("ftp"), ports.FetcherMetadata{}), "unknown kind")
	testutil.AssertError(t, r.Register(domain.SourceKindAPI, nil, ports.FetcherMetadata{}), "nil factory")

	testutil.AssertDeepEqual(t, r.List(), []domain.SourceKind{domain.SourceKindFeed, domain.SourceKindTabular}, "list")

	meta, ok := r.GetMetadata(domain.SourceKindFeed)
	testutil.AssertTrue(t, ok, "metadata present")
	testutil.AssertEqual(t, meta.Kind, domain.SourceKindFeed, "metadata kind filled")

	_, err := r.Build(Deps{})
	testutil.AssertError(t, err, "build without http getter")

	fetchers, err := r.Build(Deps{HTTP: stubGetter{}})
	testutil.RequireNoError(t, err, "build")
	testutil.AssertLen(t, fetchers, 2, "one fetcher per kind")
	testutil.AssertEqual(t, fetchers[domain.SourceKindTabular].Kind(), domain.SourceKindTabular, "tabular fetcher")
}

const sourcesYAML = `
sources:
  - kind: csv
    name: Sheet
    url: https://docs.example.com/sheet.csv
    headers:
      title: Name
  - kind: rss
    name: Board
    url: https://board.example.org/rss
    countryHints: [Canada]
  - kind: json
    name: API
    url: https://api.example.com/opps
    path: data.items
    headers:
      Authorization: Bearer abc
    mapping:
      title: name
      url: apply_url | link
  - kind: html
    name: Cards
    url: https://cards.example.com
    item: .card
    title: .card-title
    link: a.apply
    extra:
      organization: .org
  - kind: gopher
    name: Weird
    url: https://weird.example.com
`

func TestParseYAML_Variants(t *testing.T) {
	ds, err := ParseYAML([]byte(sourcesYAML))
	testutil.RequireNoError(t, err, "parse")
	testutil.AssertLen(t, ds, 5, "five descriptors")

	tab, ok := ds[0].(domain.TabularSource)
	testutil.AssertTrue(t, ok, "csv maps to tabular")
	testutil.AssertEqual(t, tab.Headers["title"], "Name", "alias")

	feed, ok := ds[1].(domain.FeedSource)
	testutil.AssertTrue(t, ok, "rss maps to feed")
	testutil.AssertDeepEqual(t, feed.CountryHints, []string{"Canada"}, "hints")

	api, ok := ds[2].(domain.APISource)
	testutil.AssertTrue(t, ok, "json maps to api")
	testutil.AssertEqual(t, api.Path, "data.items", "path")
	testutil.AssertEqual(t, api.Headers["Authorization"], "Bearer abc", "request header")
	testutil.AssertEqual(t, api.Mapping["url"], "apply_url | link", "mapping")

	markup, ok := ds[3].(domain.MarkupSource)
	testutil.AssertTrue(t, ok, "html maps to markup")
	testutil.AssertEqual(t, markup.Extra["organization"], ".org", "extra selector")

	bad, ok := ds[4].(domain.InvalidSource)
	testutil.AssertTrue(t, ok, "unknown kind kept as invalid")
	testutil.AssertEqual(t, bad.RawKind, "gopher", "raw kind")
}

func TestParseYAML_TopLevelList(t *testing.T) {
	ds, err := ParseYAML([]byte(`[{"kind":"feed","name":"a","url":"https://a.org/rss"}]`))
	testutil.RequireNoError(t, err, "parse json-as-yaml")
	testutil.AssertLen(t, ds, 1, "one descriptor")
}

func TestLoader_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	testutil.RequireNoError(t, os.WriteFile(path, []byte(sourcesYAML), 0o644), "write file")

	l := NewLoader(logx.NewNop())
	l.getenv = func(string) string {
		return `[{"kind":"tabular","name":"FromEnv","url":"https://env.example.org/x.csv"}]`
	}

	ds, err := l.Load(path, "OPP_SOURCES_JSON")
	testutil.RequireNoError(t, err, "load")
	testutil.AssertLen(t, ds, 6, "file plus env")
	testutil.AssertEqual(t, ds[5].Base().Name, "FromEnv", "env entries come last")

	ds, err = l.Load(filepath.Join(dir, "missing.yaml"), "OPP_SOURCES_JSON")
	testutil.RequireNoError(t, err, "missing file tolerated")
	testutil.AssertLen(t, ds, 1, "env only")

	l.getenv = func(string) string { return "{not json" }
	_, err = l.Load("", "OPP_SOURCES_JSON")
	testutil.AssertError(t, err, "malformed env json")
}

func TestValidateOne(t *testing.T) {
	base := domain.SourceBase{Name: "s", URL: "https://ok.example.org"}

	tests := []struct {
		name string
		d    domain.SourceDescriptor
		want []string
	}{
		{"valid feed", domain.FeedSource{SourceBase: base}, nil},
		{
			"missing name and url",
			domain.TabularSource{},
			[]string{"source name is required", "source URL is required"},
		},
		{
			"bad url",
			domain.FeedSource{SourceBase: domain.SourceBase{Name: "s", URL: "notaurl"}},
			[]string{"invalid URL format"},
		},
		{
			"markup without title selector",
			domain.MarkupSource{SourceBase: base, Item: ".card", Link: "a"},
			[]string{"markup source requires item, title, and link selectors"},
		},
		{
			"markup with broken selector",
			domain.MarkupSource{SourceBase: base, Item: ".card", Title: "h2[", Link: "a"},
			[]string{`invalid title selector "h2["`},
		},
		{
			"api with script",
			domain.APISource{SourceBase: base, Script: "return item"},
			[]string{"executable mappers are not supported, use a declarative mapping"},
		},
		{
			"api with bad mapping",
			domain.APISource{SourceBase: base, Mapping: map[string]string{"nope": "x"}},
			[]string{`mapping target "nope" is not a known field`},
		},
		{
			"invalid kind",
			domain.InvalidSource{SourceBase: base, RawKind: "gopher"},
			[]string{`invalid source kind "gopher"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertDeepEqual(t, ValidateOne(tt.d), tt.want, "problems")
		})
	}
}

func TestValidateAll(t *testing.T) {
	good := domain.FeedSource{SourceBase: domain.SourceBase{Name: "good", URL: "https://a.org/rss"}}
	dup := domain.FeedSource{SourceBase: domain.SourceBase{Name: "good", URL: "https://b.org/rss"}}
	bad := domain.MarkupSource{SourceBase: domain.SourceBase{Name: "bad", URL: "https://c.org"}, Item: ".x", Link: "a"}

	testutil.AssertLen(t, ValidateAll([]domain.SourceDescriptor{good}), 0, "valid list")

	errs := ValidateAll([]domain.SourceDescriptor{good, bad, dup})
	testutil.AssertLen(t, errs, 2, "two failing names")
	testutil.AssertContains(t, errs["good"], "duplicate source name", "duplicate reported")
	testutil.AssertLen(t, errs["bad"], 1, "markup problem")
}
