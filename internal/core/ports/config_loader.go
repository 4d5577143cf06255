package ports

import "go.refold.dev/refold/internal/core/domain"

// ConfigLoader defines the interface for loading the refold configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds and reads the configuration starting from the given
	// working directory.
	Load(cwd string) (*domain.Config, error)
}
