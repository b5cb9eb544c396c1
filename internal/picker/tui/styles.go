package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorHeader = lipgloss.Color("12") // bright blue
	colorMuted  = lipgloss.Color("8")  // dim
	colorCursor = lipgloss.Color("6")  // cyan
	colorError  = lipgloss.Color("1")  // red
	colorMatch  = lipgloss.Color("3")  // yellow

	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	subheaderStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorCursor).
			Bold(true)

	selectedNameStyle = lipgloss.NewStyle().
				Bold(true)

	columnHeaderStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Underline(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	notificationBarStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorMatch).
			Bold(true)
)

// formatStyle returns the style for an image format column.
func formatStyle(format string) lipgloss.Style {
	switch format {
	case "png", "webp":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "jpg", "jpeg", "heic":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "gif":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}
