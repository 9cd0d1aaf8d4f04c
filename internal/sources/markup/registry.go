package markup

import (
	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/registry"
)

// Auto-registration on package import
func init() {
	if err := registry.Global().Register(
		domain.SourceKindMarkup,
		func(deps registry.Deps) (ports.Fetcher, error) {
			return New(deps.HTTP, deps.Config, deps.Logger), nil
		},
		ports.FetcherMetadata{
			Kind:        domain.SourceKindMarkup,
			Description: "HTML pages scraped with CSS selectors via goquery",
			Weight:      50,
		},
	); err != nil {
		logx.New().Warn("failed to register markup adapter", "error", err.Error())
	}
}
