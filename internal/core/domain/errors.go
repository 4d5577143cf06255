package domain

import "go.trai.ch/zerr"

var (
	// ErrSelfWatch is returned when a module produced by a build exactly
	// matches one of the bundle's resolved output targets. A generated
	// artifact cannot be its own watched input; this indicates a cyclic
	// configuration and fails the build immediately.
	ErrSelfWatch = zerr.New("output target cannot be a watched input")

	// ErrBundleFailed is returned when the build engine rejects a bundle.
	ErrBundleFailed = zerr.New("bundle failed")

	// ErrSchedulerClosed is returned when an operation is attempted on a
	// scheduler after shutdown.
	ErrSchedulerClosed = zerr.New("scheduler is closed")

	// ErrNoBundles is returned when the configuration declares no bundles.
	ErrNoBundles = zerr.New("configuration declares no bundles")

	// ErrDuplicateBundleName is returned when two bundles share a name.
	ErrDuplicateBundleName = zerr.New("duplicate bundle name")

	// ErrDuplicateOutputPath is returned when two outputs of a bundle
	// resolve to the same path.
	ErrDuplicateOutputPath = zerr.New("duplicate output path")

	// ErrMissingEntry is returned when a bundle declares no entry module.
	ErrMissingEntry = zerr.New("bundle declares no entry module")

	// ErrMissingOutput is returned when a bundle declares no output target.
	ErrMissingOutput = zerr.New("bundle declares no output target")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = zerr.New("invalid output format, expected 'esm', 'cjs' or 'iife'")

	// ErrInvalidWatchMode is returned for an unknown watch mode.
	ErrInvalidWatchMode = zerr.New("invalid watch mode, expected 'auto' or 'disabled'")

	// ErrConfigNotFound is returned when no refold.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find refold.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrOutputWriteFailed is returned when writing a build output fails.
	ErrOutputWriteFailed = zerr.New("failed to write output")

	// ErrWatchRegistration is returned when registering a file with the
	// change notifier fails.
	ErrWatchRegistration = zerr.New("failed to register watched file")
)
