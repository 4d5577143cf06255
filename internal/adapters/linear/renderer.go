// Package linear renders watch lifecycle events as plain, line-oriented
// output suitable for terminals and CI logs.
package linear

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/ui/output"
	"go.refold.dev/refold/internal/ui/style"
)

// Renderer writes one line per lifecycle event.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{out: output.New(w)}
}

// Handle formats and writes a single lifecycle event. It is installed as a
// scheduler event listener.
func (r *Renderer) Handle(e domain.Event) {
	switch e.Kind {
	case domain.EventStart:
		r.line(style.Circle+" build started", style.Slate)
	case domain.EventBundleStart:
		r.line(fmt.Sprintf("  bundling %s %s %s", e.Input, style.Arrow, joinOutputs(e.Outputs)), style.Slate)
	case domain.EventBundleEnd:
		r.line(fmt.Sprintf("%s bundled %s %s %s in %s",
			style.Check, e.Input, style.Arrow, joinOutputs(e.Outputs), e.Duration.Round(time.Millisecond)), style.Green)
	case domain.EventEnd:
		r.line(style.Dot+" waiting for changes...", style.Slate)
	case domain.EventError:
		r.line(fmt.Sprintf("%s build failed: %v (watching for changes)", style.Cross, e.Err), style.Red)
	case domain.EventFatal:
		r.line(fmt.Sprintf("%s fatal: %v", style.Cross, e.Err), style.Red)
	}
}

func (r *Renderer) line(msg string, color lipgloss.Color) {
	styled := r.out.String(msg).Foreground(termenv.RGBColor(string(color)))
	_, _ = r.out.WriteString(styled.String() + "\n")
}

func joinOutputs(outputs []string) string {
	return strings.Join(outputs, ", ")
}
