package linear_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"go.refold.dev/refold/internal/adapters/linear"
	"go.refold.dev/refold/internal/core/domain"
)

// newTestRenderer creates a renderer with an injected buffer and NO_COLOR=1
// for deterministic output without ANSI escape codes.
func newTestRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return linear.NewRenderer(buf), buf
}

func TestRenderer_Handle_SuccessfulRound(t *testing.T) {
	r, buf := newTestRenderer(t)

	events := []domain.Event{
		{Kind: domain.EventStart},
		{Kind: domain.EventBundleStart, Input: "src/index.js", Outputs: []string{"dist/app.js"}},
		{Kind: domain.EventBundleEnd, Input: "src/index.js", Outputs: []string{"dist/app.js"}, Duration: 12 * time.Millisecond},
		{Kind: domain.EventBundleStart, Input: "src/worker.js", Outputs: []string{"dist/worker.esm.js", "dist/worker.cjs.js"}},
		{Kind: domain.EventBundleEnd, Input: "src/worker.js", Outputs: []string{"dist/worker.esm.js", "dist/worker.cjs.js"}, Duration: 340 * time.Millisecond},
		{Kind: domain.EventEnd},
	}
	for _, e := range events {
		r.Handle(e)
	}

	g := goldie.New(t)
	g.Assert(t, "round_success", buf.Bytes())
}

func TestRenderer_Handle_FailedRound(t *testing.T) {
	r, buf := newTestRenderer(t)

	events := []domain.Event{
		{Kind: domain.EventStart},
		{Kind: domain.EventBundleStart, Input: "src/index.js", Outputs: []string{"dist/app.js"}},
		{Kind: domain.EventError, Err: errors.New("could not resolve \"./missing.js\"")},
	}
	for _, e := range events {
		r.Handle(e)
	}

	g := goldie.New(t)
	g.Assert(t, "round_error", buf.Bytes())
}

func TestRenderer_Handle_FatalRound(t *testing.T) {
	r, buf := newTestRenderer(t)

	events := []domain.Event{
		{Kind: domain.EventStart},
		{Kind: domain.EventBundleStart, Input: "src/index.js", Outputs: []string{"dist/app.js"}},
		{Kind: domain.EventFatal, Err: errors.New("could not resolve \"./missing.js\"")},
	}
	for _, e := range events {
		r.Handle(e)
	}

	g := goldie.New(t)
	g.Assert(t, "round_fatal", buf.Bytes())
}
