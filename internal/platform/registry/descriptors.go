// internal/platform/registry/descriptors.go
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"oppsync/internal/core/domain"
	"oppsync/internal/platform/logx"
)

// descriptorDTO is the on-disk shape of a source. Kind-specific keys are
// flat, as in the historical sources.json format.
type descriptorDTO struct {
	Kind        string `yaml:"kind" json:"kind"`
	Name        string `yaml:"name" json:"name"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description"`
	Priority    int    `yaml:"priority" json:"priority"`

	// feed
	CountryHints []string `yaml:"countryHints" json:"countryHints"`
	Categories   []string `yaml:"categories" json:"categories"`

	// api
	Path    string            `yaml:"path" json:"path"`
	Mapping map[string]string `yaml:"mapping" json:"mapping"`
	Map     string            `yaml:"map" json:"map"`

	// api: request headers; tabular: field -> header alias
	Headers map[string]string `yaml:"headers" json:"headers"`

	// markup
	Item    string            `yaml:"item" json:"item"`
	Title   string            `yaml:"title" json:"title"`
	Link    string            `yaml:"link" json:"link"`
	Summary string            `yaml:"summary" json:"summary"`
	Date    string            `yaml:"date" json:"date"`
	Extra   map[string]string `yaml:"extra" json:"extra"`
}

// toDescriptor turns the DTO into its sum-type variant. An unknown kind
// becomes an InvalidSource so validation can report it.
func (d descriptorDTO) toDescriptor() domain.SourceDescriptor {
	base := domain.SourceBase{
		Name:        strings.TrimSpace(d.Name),
		URL:         strings.TrimSpace(d.URL),
		Description: d.Description,
		Priority:    d.Priority,
	}

	kind, ok := domain.ParseSourceKind(d.Kind)
	if !ok {
		return domain.InvalidSource{SourceBase: base, RawKind: d.Kind}
	}

	switch kind {
	case domain.SourceKindFeed:
		return domain.FeedSource{SourceBase: base, CountryHints: d.CountryHints, Categories: d.Categories}
	case domain.SourceKindAPI:
		return domain.APISource{SourceBase: base, Path: d.Path, Headers: d.Headers, Mapping: d.Mapping, Script: d.Map}
	case domain.SourceKindMarkup:
		return domain.MarkupSource{
			SourceBase: base,
			Item:       d.Item,
			Title:      d.Title,
			Link:       d.Link,
			Summary:    d.Summary,
			Date:       d.Date,
			Extra:      d.Extra,
		}
	default:
		return domain.TabularSource{SourceBase: base, Headers: d.Headers}
	}
}

// ParseYAML decodes a descriptor document: either a top-level sequence or
// a mapping with a "sources" key. JSON documents are accepted too.
func ParseYAML(data []byte) ([]domain.SourceDescriptor, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var list []descriptorDTO
	if err := yaml.Unmarshal(data, &list); err != nil {
		var doc struct {
			Sources []descriptorDTO `yaml:"sources"`
		}
		if err2 := yaml.Unmarshal(data, &doc); err2 != nil {
			return nil, fmt.Errorf("decode sources: %w", err)
		}
		list = doc.Sources
	}
	return convert(list), nil
}

// ParseJSON decodes a JSON array of descriptors.
func ParseJSON(data []byte) ([]domain.SourceDescriptor, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var list []descriptorDTO
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode sources json: %w", err)
	}
	return convert(list), nil
}

func convert(list []descriptorDTO) []domain.SourceDescriptor {
	out := make([]domain.SourceDescriptor, 0, len(list))
	for _, d := range list {
		out = append(out, d.toDescriptor())
	}
	return out
}

// Loader reads descriptors from the sources file and the environment.
type Loader struct {
	logger logx.Logger
	getenv func(string) string
}

// NewLoader creates a loader reading the process environment.
func NewLoader(logger logx.Logger) *Loader {
	return &Loader{logger: logger.With("component", "source-loader"), getenv: os.Getenv}
}

// Load returns the file entries followed by the entries of the JSON array
// held in envVar. A missing file is not an error; a malformed one is.
func (l *Loader) Load(path, envVar string) ([]domain.SourceDescriptor, error) {
	var out []domain.SourceDescriptor

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			l.logger.Warn("sources file not found", "path", path)
		case err != nil:
			return nil, fmt.Errorf("read sources file: %w", err)
		default:
			fromFile, err := ParseYAML(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			out = append(out, fromFile...)
		}
	}

	if envVar != "" {
		if raw := l.getenv(envVar); strings.TrimSpace(raw) != "" {
			fromEnv, err := ParseJSON([]byte(raw))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", envVar, err)
			}
			out = append(out, fromEnv...)
		}
	}

	l.logger.Debug("sources loaded", "count", len(out))
	return out, nil
}
