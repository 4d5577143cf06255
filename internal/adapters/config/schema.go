package config

// File represents the structure of the refold.yaml configuration file.
type File struct {
	Version string       `yaml:"version"`
	Watch   *WatchDTO    `yaml:"watch"`
	Bundles []*BundleDTO `yaml:"bundles"`
}

// WatchDTO is the watch section of the configuration.
type WatchDTO struct {
	Mode        string `yaml:"mode"`
	DebounceMs  int    `yaml:"debounceMs"`
	EventBuffer int    `yaml:"eventBuffer"`
}

// BundleDTO represents one bundle definition in the configuration.
type BundleDTO struct {
	Name    string       `yaml:"name"`
	Entry   string       `yaml:"entry"`
	Include []string     `yaml:"include"`
	Exclude []string     `yaml:"exclude"`
	Outputs []*OutputDTO `yaml:"outputs"`

	// WatchExclude is the deprecated spelling of Exclude. Values are
	// merged into Exclude and a deprecation notice is attached to the
	// bundle.
	WatchExclude []string `yaml:"watchExclude"`
}

// OutputDTO represents one output target of a bundle.
type OutputDTO struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}
