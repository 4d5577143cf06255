// Package ports defines the interfaces between the watch engine and its
// collaborators: the build engine, the file-change notifier, configuration
// loading, logging and tracing.
package ports

import (
	"context"
	"iter"

	"go.refold.dev/refold/internal/core/domain"
)

//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks

// BuildEngine produces a bundle from a set of build options. The engine is
// opaque to the watch core: it either returns a result graph or an error.
type BuildEngine interface {
	// Build runs one bundler invocation. cache is the previous successful
	// result of the same bundle, or nil on the first build; engines may
	// use it as an incremental seed.
	Build(ctx context.Context, opts domain.BundleOptions, cache BuildResult) (BuildResult, error)
}

// BuildResult is the outcome of a successful build engine invocation.
type BuildResult interface {
	// Chunks yields every produced chunk. Builds that yield a single
	// chunk and builds that yield a set of named chunks are normalized
	// behind this accessor.
	Chunks() iter.Seq[domain.Chunk]
	// Write materializes the result at the given output target.
	Write(ctx context.Context, out domain.OutputOptions) error
}
