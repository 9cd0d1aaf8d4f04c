// internal/sources/markup/markup.go
package markup

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
	"oppsync/internal/sources/common"
)

// Fetcher scrapes repeating item nodes from an HTML page.
type Fetcher struct {
	*common.BaseHTTPFetcher
}

// New creates the markup adapter.
func New(http ports.HTTPGetter, cfg ports.FetcherConfig, logger logx.Logger) *Fetcher {
	f := &Fetcher{}
	f.BaseHTTPFetcher = common.NewBaseHTTPFetcher(common.BaseHTTPConfig{
		Kind:    domain.SourceKindMarkup,
		HTTP:    http,
		Timeout: cfg.Timeout,
		Parse:   parse,
		Logger:  logger,
	})
	return f
}

func parse(_ context.Context, src domain.SourceDescriptor, resp *ports.Response) ([]domain.RawItem, error) {
	desc, ok := src.(domain.MarkupSource)
	if !ok {
		return nil, errors.Wrapf(domain.ErrUnsupportedKind, "%T", src)
	}

	base, err := url.Parse(desc.URL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	var items []domain.RawItem
	doc.Find(desc.Item).Each(func(_ int, node *goquery.Selection) {
		item := domain.RawItem{
			Title: text(node, desc.Title),
			URL:   resolve(base, node.Find(desc.Link).First()),
		}
		if desc.Summary != "" {
			item.Summary = text(node, desc.Summary)
		}
		if desc.Date != "" {
			item.Deadline = text(node, desc.Date)
		}
		for field, selector := range desc.Extra {
			setField(&item, field, text(node, selector))
		}
		common.ApplyDefaults(&item, "")
		items = append(items, item)
	})

	return common.Accept(items), nil
}

func text(node *goquery.Selection, selector string) string {
	return common.CollapseSpace(node.Find(selector).First().Text())
}

// resolve returns the absolute href of link, or "" when it has none.
func resolve(base *url.URL, link *goquery.Selection) string {
	href, ok := link.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// setField fills a recognised RawItem field from an extra selector.
// Unknown names are ignored.
func setField(item *domain.RawItem, field, value string) {
	if value == "" {
		return
	}
	switch field {
	case "applicationUrl":
		item.ApplicationURL = value
	case "summary":
		item.Summary = value
	case "deadline":
		item.Deadline = value
	case "country":
		item.Country = value
	case "category":
		item.Category = value
	case "organization":
		item.Organization = value
	case "type":
		item.Type = value
	case "educationLevel":
		item.EducationLevel = value
	case "duration":
		item.Duration = value
	case "eligibility":
		item.Eligibility = value
	case "funding":
		item.Funding = value
	case "fields":
		item.Fields = common.SplitList(value)
	case "tags":
		item.Tags = common.SplitList(value)
	case "requirements":
		item.Requirements = common.SplitList(value)
	case "benefits":
		item.Benefits = common.SplitList(value)
	}
}
