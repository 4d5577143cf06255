package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.refold.dev/refold/internal/adapters/config"
	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func createConfig(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644)
	require.NoError(t, err)
}

func TestLoader_Load(t *testing.T) {
	loader := newLoader(t)
	dir := t.TempDir()

	createConfig(t, dir, `
version: "1"
watch:
  mode: auto
  debounceMs: 250
  eventBuffer: 64
bundles:
  - name: app
    entry: src/index.js
    exclude:
      - "*.css"
    outputs:
      - path: dist/app.js
        format: esm
  - entry: src/worker.js
    outputs:
      - path: dist/worker.js
`)

	cfg, err := loader.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, domain.WatchAuto, cfg.Watch.Mode)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 64, cfg.Watch.Notifier.EventBuffer)

	require.Len(t, cfg.Bundles, 2)
	assert.Equal(t, "app", cfg.Bundles[0].Name)
	assert.Equal(t, "src/index.js", cfg.Bundles[0].Entry)
	assert.Equal(t, []string{"*.css"}, cfg.Bundles[0].Exclude)
	require.Len(t, cfg.Bundles[0].Outputs, 1)
	assert.Equal(t, "dist/app.js", cfg.Bundles[0].Outputs[0].Path)
	assert.Equal(t, "esm", cfg.Bundles[0].Outputs[0].Format)

	// A bundle without a name is identified by its entry.
	assert.Equal(t, "src/worker.js", cfg.Bundles[1].Name)
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := newLoader(t)
	dir := t.TempDir()

	createConfig(t, dir, `
bundles:
  - entry: src/index.js
    outputs:
      - path: dist/app.js
`)

	cfg, err := loader.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.WatchAuto, cfg.Watch.Mode)
	assert.Equal(t, domain.DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, domain.DefaultEventBuffer, cfg.Watch.Notifier.EventBuffer)
}

func TestLoader_Load_WalksUpToFindConfiguration(t *testing.T) {
	loader := newLoader(t)
	dir := t.TempDir()

	createConfig(t, dir, `
bundles:
  - entry: src/index.js
    outputs:
      - path: dist/app.js
`)

	nested := filepath.Join(dir, "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)

	// Output paths are anchored at the configuration directory but
	// expressed relative to the working directory.
	require.Len(t, cfg.Bundles, 1)
	assert.Equal(t, filepath.Join("..", "..", "dist", "app.js"), cfg.Bundles[0].Outputs[0].Path)
}

func TestLoader_Load_NotFound(t *testing.T) {
	loader := newLoader(t)

	_, err := loader.Load(t.TempDir())
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoader_Load_ParseError(t *testing.T) {
	loader := newLoader(t)
	dir := t.TempDir()

	createConfig(t, dir, "bundles: [unclosed")

	_, err := loader.Load(dir)
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestLoader_Load_WatchExcludeDeprecation(t *testing.T) {
	loader := newLoader(t)
	dir := t.TempDir()

	createConfig(t, dir, `
bundles:
  - name: app
    entry: src/index.js
    exclude:
      - "*.css"
    watchExclude:
      - "*.md"
    outputs:
      - path: dist/app.js
`)

	cfg, err := loader.Load(dir)
	require.NoError(t, err)

	require.Len(t, cfg.Bundles, 1)
	assert.Equal(t, []string{"*.css", "*.md"}, cfg.Bundles[0].Exclude)
	assert.Equal(t, []string{"bundle app: 'watchExclude' is deprecated, use 'exclude'"}, cfg.Bundles[0].Deprecations)
}

func TestLoader_Load_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "no bundles",
			content: `version: "1"`,
			wantErr: domain.ErrNoBundles,
		},
		{
			name: "missing entry",
			content: `
bundles:
  - name: app
    outputs:
      - path: dist/app.js
`,
			wantErr: domain.ErrMissingEntry,
		},
		{
			name: "missing output",
			content: `
bundles:
  - entry: src/index.js
`,
			wantErr: domain.ErrMissingOutput,
		},
		{
			name: "duplicate bundle names",
			content: `
bundles:
  - name: app
    entry: src/a.js
    outputs:
      - path: dist/a.js
  - name: app
    entry: src/b.js
    outputs:
      - path: dist/b.js
`,
			wantErr: domain.ErrDuplicateBundleName,
		},
		{
			name: "duplicate output paths",
			content: `
bundles:
  - entry: src/index.js
    outputs:
      - path: dist/app.js
      - path: dist/app.js
`,
			wantErr: domain.ErrDuplicateOutputPath,
		},
		{
			name: "invalid format",
			content: `
bundles:
  - entry: src/index.js
    outputs:
      - path: dist/app.js
        format: umd
`,
			wantErr: domain.ErrInvalidFormat,
		},
		{
			name: "invalid watch mode",
			content: `
watch:
  mode: polling
bundles:
  - entry: src/index.js
    outputs:
      - path: dist/app.js
`,
			wantErr: domain.ErrInvalidWatchMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newLoader(t)
			dir := t.TempDir()
			createConfig(t, dir, tt.content)

			_, err := loader.Load(dir)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
