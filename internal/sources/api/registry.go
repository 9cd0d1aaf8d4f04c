package api

import (
	"oppsync/internal/core/domain"
	"oppsync/internal/core/ports"
	"oppsync/internal/platform/logx"
	"oppsync/internal/platform/registry"
)

// Auto-registration on package import
func init() {
	if err := registry.Global().Register(
		domain.SourceKindAPI,
		func(deps registry.Deps) (ports.Fetcher, error) {
			return New(deps.HTTP, deps.Config, deps.Logger), nil
		},
		ports.FetcherMetadata{
			Kind:        domain.SourceKindAPI,
			Description: "JSON endpoints with declarative field mapping",
			Weight:      30,
		},
	); err != nil {
		logx.New().Warn("failed to register api adapter", "error", err.Error())
	}
}
