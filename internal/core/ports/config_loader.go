package ports

import "github.com/mohitmv/qrun/internal/core/domain"

// ConfigLoader defines the interface for loading the harness configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the config file starting from the given working
	// directory and returns the merged configuration. When no config file
	// exists the embedded defaults are returned unchanged.
	Load(cwd string) (domain.Config, error)

	// LoadFile reads the configuration from an explicit file path.
	LoadFile(path string) (domain.Config, error)

	// DiscoverRoot walks up from cwd to find the directory containing
	// qrun.yaml. When no config file exists it returns cwd.
	DiscoverRoot(cwd string) (string, error)
}
