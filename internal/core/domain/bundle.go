// Package domain holds the core types shared by the watch engine and its
// adapters: bundle configurations, build chunks, lifecycle events and the
// watch filter.
package domain

// Chunk is one unit of bundler output. A build may produce a single chunk
// or a set of named chunks; both shapes are normalized to a flat sequence
// by the build result, so consumers never branch on the variant.
type Chunk struct {
	// Name is the chunk identifier, e.g. "app" or an entry-derived name.
	Name string
	// Modules lists the file identifiers of every module in the chunk.
	Modules []string
}

// OutputOptions describes one resolved output target of a bundle.
type OutputOptions struct {
	// Path is the resolved output path, relative to the project root.
	Path string
	// Format is the output module format: "esm", "cjs" or "iife".
	Format string
}

// BundleOptions is the per-configuration input to the build engine.
type BundleOptions struct {
	// Name uniquely identifies the bundle within the configuration.
	Name string
	// Entry is the entry module of the bundle.
	Entry string
	// Outputs are the resolved output targets. Every target is written on
	// a successful build, and no watched file may match a target path.
	Outputs []OutputOptions
	// Include and Exclude are the watch filter patterns.
	Include []string
	Exclude []string
	// Deprecations are configuration deprecation notices collected at load
	// time, surfaced once on the first build of the bundle.
	Deprecations []string
}

// OutputPaths returns the paths of all output targets.
func (b BundleOptions) OutputPaths() []string {
	paths := make([]string, len(b.Outputs))
	for i, out := range b.Outputs {
		paths[i] = out.Path
	}
	return paths
}
