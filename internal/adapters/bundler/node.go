package bundler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.refold.dev/refold/internal/core/ports"
)

// NodeID is the unique identifier for the build engine Graft node.
const NodeID graft.ID = "adapter.bundler"

func init() {
	graft.Register(graft.Node[ports.BuildEngine]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildEngine, error) {
			return NewEngine(), nil
		},
	})
}
