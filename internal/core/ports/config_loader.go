package ports

import "github.com/frap129/trls-sub000/internal/core/domain"

// ConfigLoader resolves the effective configuration for a run.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load merges CLI overrides onto the configuration file and defaults,
	// returning the fully resolved configuration.
	Load(overrides domain.Overrides) (*domain.Config, error)
}
