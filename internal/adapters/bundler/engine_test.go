package bundler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.refold.dev/refold/internal/adapters/bundler"
	"go.refold.dev/refold/internal/core/domain"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(cwd))
	})

	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	return dir
}

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEngine_Build(t *testing.T) {
	chdirTemp(t)

	writeSource(t, "src/index.js", `import { greet } from "./util.js"; greet();`)
	writeSource(t, "src/util.js", `export function greet() { console.log("hello"); }`)

	engine := bundler.NewEngine()
	opts := domain.BundleOptions{
		Name:    "app",
		Entry:   "src/index.js",
		Outputs: []domain.OutputOptions{{Path: "dist/app.js", Format: "esm"}},
	}

	result, err := engine.Build(context.Background(), opts, nil)
	require.NoError(t, err)

	var chunks []domain.Chunk
	for c := range result.Chunks() {
		chunks = append(chunks, c)
	}
	require.Len(t, chunks, 1)
	assert.Equal(t, "app", chunks[0].Name)
	assert.Contains(t, chunks[0].Modules, "src/index.js")
	assert.Contains(t, chunks[0].Modules, "src/util.js")

	// Nothing touches the disk until Write.
	_, statErr := os.Stat("dist/app.js")
	require.True(t, os.IsNotExist(statErr))

	require.NoError(t, result.Write(context.Background(), opts.Outputs[0]))
	content, err := os.ReadFile("dist/app.js")
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello")
}

func TestEngine_Build_SyntaxError(t *testing.T) {
	chdirTemp(t)

	writeSource(t, "src/index.js", `import { from "./broken`)

	engine := bundler.NewEngine()
	opts := domain.BundleOptions{
		Name:    "app",
		Entry:   "src/index.js",
		Outputs: []domain.OutputOptions{{Path: "dist/app.js", Format: "esm"}},
	}

	_, err := engine.Build(context.Background(), opts, nil)
	require.Error(t, err)
}

func TestEngine_Build_MissingEntry(t *testing.T) {
	chdirTemp(t)

	engine := bundler.NewEngine()
	opts := domain.BundleOptions{
		Name:    "app",
		Entry:   "src/missing.js",
		Outputs: []domain.OutputOptions{{Path: "dist/app.js", Format: "esm"}},
	}

	_, err := engine.Build(context.Background(), opts, nil)
	require.Error(t, err)
}

func TestEngine_Build_InvalidFormat(t *testing.T) {
	engine := bundler.NewEngine()
	opts := domain.BundleOptions{
		Name:    "app",
		Entry:   "src/index.js",
		Outputs: []domain.OutputOptions{{Path: "dist/app.js", Format: "umd"}},
	}

	_, err := engine.Build(context.Background(), opts, nil)
	require.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestEngine_Build_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := bundler.NewEngine()
	opts := domain.BundleOptions{
		Name:    "app",
		Entry:   "src/index.js",
		Outputs: []domain.OutputOptions{{Path: "dist/app.js", Format: "esm"}},
	}

	_, err := engine.Build(ctx, opts, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Build_CommonJSFormat(t *testing.T) {
	chdirTemp(t)

	writeSource(t, "src/index.js", `export const answer = 42;`)

	engine := bundler.NewEngine()
	opts := domain.BundleOptions{
		Name:    "app",
		Entry:   "src/index.js",
		Outputs: []domain.OutputOptions{{Path: "dist/app.cjs", Format: "cjs"}},
	}

	result, err := engine.Build(context.Background(), opts, nil)
	require.NoError(t, err)
	require.NoError(t, result.Write(context.Background(), opts.Outputs[0]))

	content, err := os.ReadFile("dist/app.cjs")
	require.NoError(t, err)
	assert.Contains(t, string(content), "module.exports")
}
