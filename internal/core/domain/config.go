package domain

import "time"

const (
	// ConfigFileName is the name of the configuration file refold looks
	// for, walking up from the working directory.
	ConfigFileName = "refold.yaml"

	// DefaultDebounce is the window during which change notifications are
	// coalesced into a single upcoming build round.
	DefaultDebounce = 100 * time.Millisecond
)

// WatchMode selects how file changes are observed.
type WatchMode string

const (
	// WatchAuto observes the file system through the change notifier.
	WatchAuto WatchMode = "auto"
	// WatchDisabled runs without a change notifier. Nothing can mark a
	// bundle dirty after its first build, so watch mode degrades to a
	// single build. This is an explicit configuration choice for
	// environments where file watching is unavailable, never a silent
	// fallback.
	WatchDisabled WatchMode = "disabled"
)

// WatchConfig is the watch section of the configuration.
type WatchConfig struct {
	Mode     WatchMode
	Debounce time.Duration
	Notifier NotifierOptions
}

// Config is the fully resolved refold configuration.
type Config struct {
	// Root is the directory containing the configuration file. Output
	// paths are resolved relative to it.
	Root    string
	Watch   WatchConfig
	Bundles []BundleOptions
}
