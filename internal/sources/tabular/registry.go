package tabular

import (
	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/registry"
)

// Auto-registration on package import
func init() {
	if err := registry.Global().Register(
		domain.SourceKindTabular,
		func(deps registry.Deps) (ports.Fetcher, error) {
			return New(deps.HTTP, deps.Config, deps.Logger), nil
		},
		ports.FetcherMetadata{
			Kind:        domain.SourceKindTabular,
			Description: "Comma-separated listings with a header row",
			Weight:      10,
		},
	); err != nil {
		logx.New().Warn("failed to register tabular adapter", "error", err.Error())
	}
}
