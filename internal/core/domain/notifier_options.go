package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// DefaultEventBuffer is the default change-event channel capacity of a
// notifier subscription group.
const DefaultEventBuffer = 100

// NotifierOptions configures a file-change notifier subscription group.
// Units with identical options share one physical subscription group,
// identified by Hash.
type NotifierOptions struct {
	// EventBuffer is the capacity of the group's change-event channel.
	EventBuffer int
}

// Hash returns a stable identifier for the subscription group this option
// set belongs to. Two option values hash equal iff their canonical
// encodings are identical.
func (o NotifierOptions) Hash() string {
	digest := xxhash.New()
	_, _ = fmt.Fprintf(digest, "event_buffer=%d", o.EventBuffer)
	return fmt.Sprintf("%016x", digest.Sum64())
}
