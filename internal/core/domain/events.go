package domain

import "time"

// EventKind identifies a watch lifecycle event.
type EventKind uint8

const (
	// EventStart is emitted when a build round begins.
	EventStart EventKind = iota
	// EventBundleStart is emitted when a single bundle begins building.
	EventBundleStart
	// EventBundleEnd is emitted when a single bundle finishes building.
	EventBundleEnd
	// EventEnd is emitted when a build round completes without error.
	EventEnd
	// EventError is emitted when a round fails after at least one prior
	// round has succeeded. Watch mode keeps running.
	EventError
	// EventFatal is emitted when a round fails before any round has ever
	// succeeded, meaning no usable artifact exists yet.
	EventFatal
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "START"
	case EventBundleStart:
		return "BUNDLE_START"
	case EventBundleEnd:
		return "BUNDLE_END"
	case EventEnd:
		return "END"
	case EventError:
		return "ERROR"
	case EventFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Event is a watch lifecycle notification. Which fields are populated
// depends on Kind: bundle events carry Input and Outputs, EventBundleEnd
// additionally carries Duration, and EventError/EventFatal carry Err.
type Event struct {
	Kind     EventKind
	Input    string
	Outputs  []string
	Duration time.Duration
	Err      error
}
