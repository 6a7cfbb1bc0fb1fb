// Package config provides the configuration loader for qrun.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/mohitmv/qrun/internal/core/domain"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers qrun.yaml starting from cwd and returns the merged
// configuration. A missing config file is not an error: the embedded
// defaults describe a complete invocation on their own.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	configPath, found, err := l.findConfiguration(cwd)
	if err != nil {
		return domain.Config{}, err
	}
	if !found {
		return domain.DefaultConfig(), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile reads the configuration from an explicit file path. File values
// override the embedded defaults field by field; empty fields inherit the
// default.
func (l *Loader) LoadFile(path string) (domain.Config, error) {
	// #nosec G304 -- path comes from discovery or an explicit user flag
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file File
	if parseErr := yaml.Unmarshal(data, &file); parseErr != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	cfg := merge(file)
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// DiscoverRoot walks up from cwd to find the directory containing qrun.yaml.
// When no config file exists it returns cwd, which anchors run state next to
// where the harness was invoked.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, found, err := l.findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	if !found {
		return cwd, nil
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) findConfiguration(cwd string) (string, bool, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", false, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "cwd", cwd)
	}

	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", false, nil
}

// merge overlays non-empty file values on the embedded defaults.
func merge(file File) domain.Config {
	cfg := domain.DefaultConfig()

	if file.Compiler != "" {
		cfg.Compiler = file.Compiler
	}
	if file.Source != "" {
		cfg.Source = file.Source
	}
	if file.Include != "" {
		cfg.IncludeDir = file.Include
	}
	if file.Library != "" {
		cfg.Library = file.Library
	}
	if file.Output != "" {
		cfg.Output = file.Output
	}

	return cfg
}
