// Package styles contains Lip Gloss colour definitions shared by the
// terminal renderer and the pager.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#303030", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Status
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#C28A00", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Diff lines
	DiffAdditionColor = lipgloss.AdaptiveColor{Light: "#1E7F3C", Dark: "#73F59F"}
	DiffDeletionColor = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF8787"}
	DiffContextColor  = lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BBBBBB"}
	DiffHunkColor     = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#54A0FF"}
	DiffFileColor     = lipgloss.AdaptiveColor{Light: "#303030", Dark: "#FFFFFF"}

	// Intraline emphasis backgrounds
	DiffWordAdditionBgColor = lipgloss.AdaptiveColor{Light: "#ACF2BD", Dark: "#1F5F34"}
	DiffWordDeletionBgColor = lipgloss.AdaptiveColor{Light: "#FDB8C0", Dark: "#7A2630"}

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)
)
