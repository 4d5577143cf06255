package notifier

import (
	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/core/ports"
)

var _ ports.Notifier = disabled{}

// Disabled returns the notifier selected by watch mode "disabled". Every
// operation succeeds and records nothing, so no change notification is ever
// delivered and nothing can mark a bundle dirty after its first build:
// watch mode deliberately degrades to a single build. This mode exists for
// environments without a usable file-watching facility and must be chosen
// explicitly in the configuration.
func Disabled() ports.Notifier {
	return disabled{}
}

type disabled struct{}

func (disabled) Register(string, string, domain.NotifierOptions, string) error { return nil }
func (disabled) Unregister(string, string, string)                             {}
func (disabled) Subscribe(string, func(string))                                {}
func (disabled) Close() error                                                  { return nil }
