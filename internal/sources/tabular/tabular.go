// internal/sources/tabular/tabular.go
package tabular

import (
	"context"
	"strings"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
	"oppsync/internal/sources/common"
)

// Fetcher reads comma-separated text with a header row. Cells are split on
// every comma; quoting only strips one surrounding double quote.
type Fetcher struct {
	*common.BaseHTTPFetcher
}

// New creates the tabular adapter.
func New(http ports.HTTPGetter, cfg ports.FetcherConfig, logger logx.Logger) *Fetcher {
	f := &Fetcher{}
	f.BaseHTTPFetcher = common.NewBaseHTTPFetcher(common.BaseHTTPConfig{
		Kind:    domain.SourceKindTabular,
		HTTP:    http,
		Timeout: cfg.Timeout,
		Parse:   parse,
		Logger:  logger,
	})
	return f
}

func parse(_ context.Context, src domain.SourceDescriptor, resp *ports.Response) ([]domain.RawItem, error) {
	desc, ok := src.(domain.TabularSource)
	if !ok {
		return nil, errors.Wrapf(domain.ErrUnsupportedKind, "%T", src)
	}

	lines := splitLines(string(resp.Body))
	if len(lines) < 2 {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "need a header and at least one row, got %d lines", len(lines))
	}

	t := table{header: splitCells(lines[0]), aliases: desc.Headers}
	items := make([]domain.RawItem, 0, len(lines)-1)
	for _, line := range lines[1:] {
		items = append(items, t.row(splitCells(line)))
	}
	return common.Accept(items), nil
}

type table struct {
	header  []string
	aliases map[string]string
}

// column returns the index of field's header, matched case-insensitively
// against its alias or its own name, or -1.
func (t table) column(field string) int {
	name := field
	if alias := t.aliases[field]; alias != "" {
		name = alias
	}
	for i, h := range t.header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func (t table) cell(cols []string, field string) string {
	i := t.column(field)
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}

func (t table) row(cols []string) domain.RawItem {
	get := func(fields ...string) string {
		for _, f := range fields {
			if v := t.cell(cols, f); v != "" {
				return v
			}
		}
		return ""
	}

	item := domain.RawItem{
		Title:          get("title"),
		URL:            get("url", "applicationUrl"),
		ApplicationURL: get("applicationUrl"),
		Summary:        get("summary", "description"),
		Deadline:       get("deadline", "dueDate"),
		Country:        get("country"),
		Category:       get("category", "type"),
		Organization:   get("organization", "org"),
		Type:           get("type"),
		EducationLevel: get("educationLevel"),
		Fields:         common.SplitList(get("fields")),
		Duration:       get("duration"),
		Eligibility:    get("eligibility"),
		Funding:        get("funding"),
		Tags:           common.SplitList(get("tags")),
		Requirements:   common.SplitList(get("requirements")),
		Benefits:       common.SplitList(get("benefits")),
	}
	common.ApplyDefaults(&item, "")
	return item
}

// splitLines splits on newlines and drops empty lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitCells(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		c = strings.TrimSpace(c)
		c = strings.TrimPrefix(c, `"`)
		c = strings.TrimSuffix(c, `"`)
		cells[i] = c
	}
	return cells
}
