// Package config provides the configuration loader for refold.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds refold.yaml by walking up from cwd, parses and validates it,
// and resolves output paths relative to the configuration directory.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	root := filepath.Dir(configPath)
	watch, err := resolveWatch(file.Watch)
	if err != nil {
		return nil, err
	}

	bundles, err := resolveBundles(file.Bundles, cwd, root)
	if err != nil {
		return nil, err
	}

	return &domain.Config{
		Root:    root,
		Watch:   watch,
		Bundles: bundles,
	}, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func resolveWatch(dto *WatchDTO) (domain.WatchConfig, error) {
	watch := domain.WatchConfig{
		Mode:     domain.WatchAuto,
		Debounce: domain.DefaultDebounce,
		Notifier: domain.NotifierOptions{EventBuffer: domain.DefaultEventBuffer},
	}
	if dto == nil {
		return watch, nil
	}

	switch dto.Mode {
	case "", string(domain.WatchAuto):
	case string(domain.WatchDisabled):
		watch.Mode = domain.WatchDisabled
	default:
		return watch, zerr.With(domain.ErrInvalidWatchMode, "mode", dto.Mode)
	}

	if dto.DebounceMs > 0 {
		watch.Debounce = time.Duration(dto.DebounceMs) * time.Millisecond
	}
	if dto.EventBuffer > 0 {
		watch.Notifier.EventBuffer = dto.EventBuffer
	}
	return watch, nil
}

func resolveBundles(dtos []*BundleDTO, cwd, root string) ([]domain.BundleOptions, error) {
	if len(dtos) == 0 {
		return nil, domain.ErrNoBundles
	}

	names := make(map[string]bool, len(dtos))
	bundles := make([]domain.BundleOptions, 0, len(dtos))
	for _, dto := range dtos {
		bundle, err := resolveBundle(dto, cwd, root)
		if err != nil {
			return nil, err
		}
		if names[bundle.Name] {
			return nil, zerr.With(domain.ErrDuplicateBundleName, "bundle", bundle.Name)
		}
		names[bundle.Name] = true
		bundles = append(bundles, bundle)
	}
	return bundles, nil
}

func resolveBundle(dto *BundleDTO, cwd, root string) (domain.BundleOptions, error) {
	bundle := domain.BundleOptions{
		Name:    dto.Name,
		Entry:   dto.Entry,
		Include: dto.Include,
		Exclude: dto.Exclude,
	}
	if bundle.Name == "" {
		bundle.Name = dto.Entry
	}
	if bundle.Entry == "" {
		return bundle, zerr.With(domain.ErrMissingEntry, "bundle", bundle.Name)
	}
	if len(dto.Outputs) == 0 {
		return bundle, zerr.With(domain.ErrMissingOutput, "bundle", bundle.Name)
	}

	if len(dto.WatchExclude) > 0 {
		bundle.Exclude = append(bundle.Exclude, dto.WatchExclude...)
		bundle.Deprecations = append(bundle.Deprecations, fmt.Sprintf(
			"bundle %s: 'watchExclude' is deprecated, use 'exclude'", bundle.Name))
	}

	seen := make(map[string]bool, len(dto.Outputs))
	for _, out := range dto.Outputs {
		if err := validateFormat(out.Format); err != nil {
			return bundle, zerr.With(err, "bundle", bundle.Name)
		}
		path := resolveOutputPath(out.Path, cwd, root)
		if seen[path] {
			return bundle, zerr.With(zerr.With(domain.ErrDuplicateOutputPath, "bundle", bundle.Name), "path", path)
		}
		seen[path] = true
		bundle.Outputs = append(bundle.Outputs, domain.OutputOptions{Path: path, Format: out.Format})
	}
	return bundle, nil
}

func validateFormat(format string) error {
	switch format {
	case "", "esm", "cjs", "iife":
		return nil
	default:
		return zerr.With(domain.ErrInvalidFormat, "format", format)
	}
}

// resolveOutputPath anchors an output path at the configuration directory,
// expressed relative to the working directory so output targets compare
// exactly against the module identifiers the build engine reports.
func resolveOutputPath(path, cwd, root string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	anchored := filepath.Join(root, path)
	if rel, err := filepath.Rel(cwd, anchored); err == nil {
		return rel
	}
	return filepath.Clean(anchored)
}
