// Package style holds the bundler's terminal palette and the icon set its
// renderers and log handler share.
package style

import "github.com/charmbracelet/lipgloss"

// Palette. Amber is the brand color; Slate carries informational lines, and
// Green/Red/Yellow mark build outcomes.
var (
	Amber  = lipgloss.Color("#D97706")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons. Dot and Circle mark watch-loop states (building vs. idle), Arrow
// connects an entry point to its output path.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)
