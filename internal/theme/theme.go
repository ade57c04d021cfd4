// Package theme builds the Lip Gloss style set from the three display
// colors in the configuration.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/seivan/hoard/internal/config"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Tab         *lipgloss.Style
	SelectedTab *lipgloss.Style

	Item         *lipgloss.Style
	SelectedItem *lipgloss.Style

	PaneTitle       *lipgloss.Style
	PaneBody        *lipgloss.Style
	ActivePaneTitle *lipgloss.Style

	QueryPrefix *lipgloss.Style
	Query       *lipgloss.Style
	Cursor      *lipgloss.Style

	Error  *lipgloss.Style
	Footer *lipgloss.Style
	Popup  *lipgloss.Style
}

// FromConfig derives the style set from the configured primary, secondary,
// and tertiary colors.
func FromConfig(file config.File) *Styles {
	primary := lipgloss.Color(file.PrimaryColor.Hex())
	secondary := lipgloss.Color(file.SecondaryColor.Hex())
	tertiary := lipgloss.Color(file.TertiaryColor.Hex())

	return &Styles{
		Tab: ptr(
			lipgloss.NewStyle().Foreground(primary),
		),
		SelectedTab: ptr(
			lipgloss.NewStyle().Foreground(secondary).Underline(true),
		),
		Item: ptr(
			lipgloss.NewStyle().Foreground(primary),
		),
		SelectedItem: ptr(
			lipgloss.NewStyle().Foreground(tertiary).Background(secondary).Bold(true),
		),
		PaneTitle: ptr(
			lipgloss.NewStyle().Foreground(primary).Bold(true),
		),
		PaneBody: ptr(
			lipgloss.NewStyle().Foreground(primary),
		),
		ActivePaneTitle: ptr(
			lipgloss.NewStyle().Foreground(secondary).Bold(true),
		),
		QueryPrefix: ptr(
			lipgloss.NewStyle().Foreground(secondary).Bold(true),
		),
		Query: ptr(
			lipgloss.NewStyle().Foreground(primary),
		),
		Cursor: ptr(
			lipgloss.NewStyle().Foreground(tertiary).Background(secondary),
		),
		Error: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		),
		Footer: ptr(
			lipgloss.NewStyle().Foreground(primary).Faint(true),
		),
		Popup: ptr(
			lipgloss.NewStyle().Foreground(primary).Border(lipgloss.NormalBorder()).BorderForeground(secondary).Padding(1, 2),
		),
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
