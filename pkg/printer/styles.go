package printer

import "github.com/charmbracelet/lipgloss"

// Diff color palette: added = green, removed = red, modified = orange.
var (
	addedColor    = lipgloss.Color("#04B575")
	removedColor  = lipgloss.Color("#FF4B4B")
	modifiedColor = lipgloss.Color("#FFA500")
)

type styles struct {
	enabled  bool
	added    lipgloss.Style
	removed  lipgloss.Style
	modified lipgloss.Style
	changed  lipgloss.Style
}

func newStyles(enabled bool) styles {
	return styles{
		enabled:  enabled,
		added:    lipgloss.NewStyle().Foreground(addedColor),
		removed:  lipgloss.NewStyle().Foreground(removedColor),
		modified: lipgloss.NewStyle().Foreground(modifiedColor),
		changed: lipgloss.NewStyle().
			Bold(true).
			Reverse(true),
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}
