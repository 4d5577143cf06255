// Package bundler implements the build engine port on top of esbuild.
package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"

	"github.com/evanw/esbuild/pkg/api"
	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildEngine = (*Engine)(nil)

// Engine bundles JavaScript modules with esbuild.
type Engine struct{}

// NewEngine creates a new esbuild-backed Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Build runs one esbuild invocation for the bundle. The metafile is always
// requested so the result can report the module set of every chunk. The
// previous result is accepted per the port contract; esbuild rebuilds from
// scratch, so the seed is not consulted.
func (e *Engine) Build(ctx context.Context, opts domain.BundleOptions, _ ports.BuildResult) (ports.BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(opts.Outputs) == 0 {
		return nil, zerr.With(domain.ErrMissingOutput, "bundle", opts.Name)
	}

	format, err := outputFormat(opts.Outputs[0].Format)
	if err != nil {
		return nil, zerr.With(err, "bundle", opts.Name)
	}

	res := api.Build(api.BuildOptions{
		EntryPoints: []string{opts.Entry},
		Outfile:     opts.Outputs[0].Path,
		Bundle:      true,
		Format:      format,
		Metafile:    true,
		Write:       false,
		LogLevel:    api.LogLevelSilent,
	})
	if len(res.Errors) > 0 {
		return nil, buildError(opts, res.Errors)
	}

	chunks, err := chunksFromMetafile(opts.Name, res.Metafile)
	if err != nil {
		return nil, zerr.With(err, "bundle", opts.Name)
	}

	return &result{chunks: chunks, files: res.OutputFiles}, nil
}

// outputFormat maps a configured format name to the esbuild format.
func outputFormat(name string) (api.Format, error) {
	switch name {
	case "", "esm":
		return api.FormatESModule, nil
	case "cjs":
		return api.FormatCommonJS, nil
	case "iife":
		return api.FormatIIFE, nil
	default:
		return api.FormatDefault, zerr.With(domain.ErrInvalidFormat, "format", name)
	}
}

func buildError(opts domain.BundleOptions, messages []api.Message) error {
	msg := messages[0]
	err := zerr.New(msg.Text)
	if msg.Location != nil {
		err = zerr.With(zerr.With(err, "file", msg.Location.File), "line", msg.Location.Line)
	}
	return zerr.With(zerr.With(err, "bundle", opts.Name), "errors", len(messages))
}

// metafile is the subset of esbuild's metafile JSON the engine consumes.
type metafile struct {
	Outputs map[string]struct {
		Inputs     map[string]struct{} `json:"inputs"`
		EntryPoint string              `json:"entryPoint"`
	} `json:"outputs"`
}

// chunksFromMetafile derives the chunk list from the metafile: one chunk
// per produced output file, named after the bundle for the main output and
// after the file for split chunks. Source maps are not chunks.
func chunksFromMetafile(bundleName, data string) ([]domain.Chunk, error) {
	var meta metafile
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, zerr.Wrap(err, "failed to parse esbuild metafile")
	}

	outputs := slices.Sorted(func(yield func(string) bool) {
		for path := range meta.Outputs {
			if filepath.Ext(path) != ".map" {
				if !yield(path) {
					return
				}
			}
		}
	})

	chunks := make([]domain.Chunk, 0, len(outputs))
	for _, path := range outputs {
		out := meta.Outputs[path]
		name := filepath.Base(path)
		if out.EntryPoint != "" {
			name = bundleName
		}
		modules := slices.Sorted(func(yield func(string) bool) {
			for input := range out.Inputs {
				if !yield(input) {
					return
				}
			}
		})
		chunks = append(chunks, domain.Chunk{Name: name, Modules: modules})
	}
	return chunks, nil
}

var _ ports.BuildResult = (*result)(nil)

// result wraps esbuild's in-memory output files.
type result struct {
	chunks []domain.Chunk
	files  []api.OutputFile
}

// Chunks yields every produced chunk.
func (r *result) Chunks() iter.Seq[domain.Chunk] {
	return slices.Values(r.chunks)
}

// Write materializes the in-memory output at the given target. A single
// output file is written to the target path directly; a multi-file result
// (code splitting) treats the target as a directory.
func (r *result) Write(ctx context.Context, out domain.OutputOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(r.files) == 1 {
		return writeFile(out.Path, r.files[0].Contents)
	}
	for _, file := range r.files {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(out.Path, filepath.Base(file.Path))
		if err := writeFile(target, file.Contents); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerr.Wrap(err, fmt.Sprintf("failed to create output directory for %s", path))
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return zerr.Wrap(err, fmt.Sprintf("failed to write %s", path))
	}
	return nil
}
