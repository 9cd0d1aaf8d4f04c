// internal/sources/api/api.go
package api

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mitchellh/mapstructure"

	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/errors"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/mapping"
	"oppsync/internal/sources/common"
)

// Fetcher reads structured-data endpoints. Records are converted either by
// the descriptor's declarative mapping or by the built-in alias lookup.
type Fetcher struct {
	*common.BaseHTTPFetcher
}

// New creates the structured-data adapter.
func New(http ports.HTTPGetter, cfg ports.FetcherConfig, logger logx.Logger) *Fetcher {
	f := &Fetcher{}
	f.BaseHTTPFetcher = common.NewBaseHTTPFetcher(common.BaseHTTPConfig{
		Kind:    domain.SourceKindAPI,
		HTTP:    http,
		Timeout: cfg.Timeout,
		Parse:   parse,
		Headers: headers,
		Logger:  logger,
	})
	return f
}

func headers(src domain.SourceDescriptor) map[string]string {
	desc, ok := src.(domain.APISource)
	if !ok {
		return nil
	}
	h := map[string]string{"Accept": "application/json"}
	for k, v := range desc.Headers {
		h[k] = v
	}
	return h
}

func parse(_ context.Context, src domain.SourceDescriptor, resp *ports.Response) ([]domain.RawItem, error) {
	desc, ok := src.(domain.APISource)
	if !ok {
		return nil, errors.Wrapf(domain.ErrUnsupportedKind, "%T", src)
	}
	if desc.Script != "" {
		return nil, errors.Wrap(domain.ErrConfiguration, "executable mappers are not supported")
	}

	var payload any
	if err := json.NewDecoder(bytes.NewReader(resp.Body)).Decode(&payload); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	data, ok := mapping.Lookup(payload, desc.Path)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "no data found at path %q", desc.Path)
	}

	records, isList := data.([]any)
	if !isList {
		records = []any{data}
	}

	convert := aliasRecord
	if len(desc.Mapping) > 0 {
		compiled, problems := mapping.CompileMapping(desc.Mapping)
		if len(problems) > 0 {
			return nil, errors.Wrapf(domain.ErrConfiguration, "mapping: %v", problems)
		}
		convert = func(record any) (domain.RawItem, error) {
			return decode(compiled.Apply(record))
		}
	}

	items := make([]domain.RawItem, 0, len(records))
	for _, record := range records {
		item, err := convert(record)
		if err != nil {
			return nil, err
		}
		common.ApplyDefaults(&item, "")
		items = append(items, item)
	}
	return common.Accept(items), nil
}

// decode turns a mapped record into a RawItem.
func decode(fields map[string]any) (domain.RawItem, error) {
	var item domain.RawItem
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &item,
		TagName:          "mapstructure",
	})
	if err != nil {
		return item, err
	}
	if err := dec.Decode(fields); err != nil {
		return item, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}
	return item, nil
}

// aliases lists, per field, the record keys tried in order.
var aliases = map[string][]string{
	"title":          {"title", "name"},
	"url":            {"url", "link", "applicationUrl"},
	"applicationUrl": {"applicationUrl"},
	"summary":        {"summary", "description", "desc"},
	"deadline":       {"deadline", "dueDate", "expiryDate"},
	"country":        {"country", "location"},
	"category":       {"category", "type"},
	"organization":   {"organization", "org", "company"},
	"type":           {"type"},
	"educationLevel": {"educationLevel"},
	"fields":         {"fields"},
	"duration":       {"duration"},
	"eligibility":    {"eligibility"},
	"funding":        {"funding"},
	"tags":           {"tags"},
	"requirements":   {"requirements"},
	"benefits":       {"benefits"},
}

// aliasMapping is the alias table compiled into the mapping grammar, so both
// paths share one evaluator.
var aliasMapping = func() *mapping.Mapping {
	table := make(map[string]string, len(aliases))
	for target, keys := range aliases {
		expr := ""
		for i, k := range keys {
			if i > 0 {
				expr += " | "
			}
			expr += k
		}
		table[target] = expr
	}
	m, problems := mapping.CompileMapping(table)
	if len(problems) > 0 {
		panic(problems)
	}
	return m
}()

func aliasRecord(record any) (domain.RawItem, error) {
	return decode(aliasMapping.Apply(record))
}
