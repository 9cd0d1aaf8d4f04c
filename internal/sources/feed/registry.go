package feed

import (
	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/registry"
)

// Auto-registration on package import
func init() {
	if err := registry.Global().Register(
		domain.SourceKindFeed,
		func(deps registry.Deps) (ports.Fetcher, error) {
			return New(deps.HTTP, deps.Config, deps.Logger), nil
		},
		ports.FetcherMetadata{
			Kind:        domain.SourceKindFeed,
			Description: "RSS, Atom and JSON Feed documents via gofeed",
			Weight:      20,
		},
	); err != nil {
		logx.New().Warn("failed to register feed adapter", "error", err.Error())
	}
}
