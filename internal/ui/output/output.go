// Package output constructs the termenv.Output instances every renderer and
// log handler writes through, so color handling is decided in one place.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile detects the terminal's color capabilities. NO_COLOR and
// CLICOLOR conventions are honored through termenv's environment checks, so
// piping bundler output through CI strips escape sequences without flags.
func ColorProfile() termenv.Profile {
	if termenv.EnvNoColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New wraps w in a termenv.Output carrying the detected profile. A nil
// writer falls back to stderr, where the bundler's progress lines belong.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
