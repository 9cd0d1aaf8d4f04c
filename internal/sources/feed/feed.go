// internal/sources/feed/feed.go
package feed

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
	"oppsync/internal/sources/common"
)

// Fetcher reads RSS, Atom and JSON Feed documents.
type Fetcher struct {
	*common.BaseHTTPFetcher
}

// New creates the feed adapter.
func New(http ports.HTTPGetter, cfg ports.FetcherConfig, logger logx.Logger) *Fetcher {
	f := &Fetcher{}
	f.BaseHTTPFetcher = common.NewBaseHTTPFetcher(common.BaseHTTPConfig{
		Kind:    domain.SourceKindFeed,
		HTTP:    http,
		Timeout: cfg.Timeout,
		Parse:   parse,
		Logger:  logger,
	})
	return f
}

func parse(_ context.Context, src domain.SourceDescriptor, resp *ports.Response) ([]domain.RawItem, error) {
	desc, ok := src.(domain.FeedSource)
	if !ok {
		return nil, errors.Wrapf(domain.ErrUnsupportedKind, "%T", src)
	}

	doc, err := gofeed.NewParser().Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	country := ""
	if len(desc.CountryHints) > 0 {
		country = desc.CountryHints[0]
	}

	items := make([]domain.RawItem, 0, len(doc.Items))
	for _, entry := range doc.Items {
		if entry == nil {
			continue
		}
		item := domain.RawItem{
			Title:    common.CollapseSpace(entry.Title),
			URL:      entryLink(entry),
			Summary:  snippet(entry),
			Deadline: entryDate(entry),
			Country:  country,
			Tags:     append(append([]string{}, entry.Categories...), desc.Categories...),
		}
		common.ApplyDefaults(&item, doc.Title)
		items = append(items, item)
	}
	return common.Accept(items), nil
}

func entryLink(entry *gofeed.Item) string {
	if entry.Link != "" {
		return entry.Link
	}
	if len(entry.Links) > 0 {
		return entry.Links[0]
	}
	return ""
}

// entryDate prefers the structured date and falls back to the raw text.
func entryDate(entry *gofeed.Item) string {
	switch {
	case entry.PublishedParsed != nil:
		return entry.PublishedParsed.UTC().Format(time.RFC3339)
	case entry.UpdatedParsed != nil:
		return entry.UpdatedParsed.UTC().Format(time.RFC3339)
	case entry.Published != "":
		return entry.Published
	default:
		return entry.Updated
	}
}

// snippet returns the plain text of the description, or of the content.
func snippet(entry *gofeed.Item) string {
	raw := entry.Description
	if strings.TrimSpace(raw) == "" {
		raw = entry.Content
	}
	if !strings.Contains(raw, "<") {
		return common.CollapseSpace(raw)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return common.CollapseSpace(raw)
	}
	return common.CollapseSpace(doc.Text())
}
