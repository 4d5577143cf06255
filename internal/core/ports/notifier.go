package ports

import "go.refold.dev/refold/internal/core/domain"

//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks

// Notifier is the file-change notification service shared by all bundle
// units. Units with identical notifier options share one physical
// subscription group, keyed by the options hash; within a group,
// registrations are refcounted by (file identifier, owner), so register and
// unregister calls from different owners never disturb each other.
type Notifier interface {
	// Register subscribes owner to change events for fileID. Registering
	// the same (fileID, owner, hash) twice is a no-op.
	Register(fileID, owner string, opts domain.NotifierOptions, hash string) error
	// Unregister removes owner's subscription for fileID. Unregistering a
	// file that is not registered is a no-op.
	Unregister(fileID, owner, hash string)
	// Subscribe installs the change callback for an owner. The callback
	// receives the identifier of the changed file.
	Subscribe(owner string, fn func(fileID string))
	// Close releases all subscriptions and underlying resources.
	Close() error
}
