package catalog

import (
	"github.com/angelmondragon/moda-storefront/assets"
	"github.com/angelmondragon/moda-storefront/pkg/config"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
	"github.com/angelmondragon/moda-storefront/pkg/metrics"
)

// NewDefaultResolver wires the standard chain: remote API, bundled dataset, sample.
func NewDefaultResolver(cfg config.CatalogConfig, logg *logger.Logger, m *metrics.CatalogMetrics) (*Resolver, error) {
	client, err := NewRemoteClient(cfg)
	if err != nil {
		return nil, err
	}
	sources := []Source{
		NewRemoteSource(client),
		OpenDataset(assets.FS, assets.DatasetPath, cfg.DatasetPath),
		NewSampleSource(),
	}
	return NewResolver(sources, Options{ForceOffline: cfg.ForceOffline}, logg, m), nil
}
