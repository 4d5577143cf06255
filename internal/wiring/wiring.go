// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.refold.dev/refold/internal/adapters/bundler"
	_ "go.refold.dev/refold/internal/adapters/config"
	_ "go.refold.dev/refold/internal/adapters/logger"
	_ "go.refold.dev/refold/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.refold.dev/refold/internal/app"
)
