// Package styles provides shared lipgloss styles for CLI and TUI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/redline/internal/core/highlight"
	"github.com/colonyops/redline/internal/core/review"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	HeaderStyle  lipgloss.Style
	MutedStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	DividerStyle lipgloss.Style

	// Highlight styles, one per category. Risks vary by level.
	RiskHighStyle   lipgloss.Style
	RiskMediumStyle lipgloss.Style
	RiskLowStyle    lipgloss.Style
	LegalStyle      lipgloss.Style
	SuggestionStyle lipgloss.Style
	EditStyle       lipgloss.Style
	ActiveStyle     lipgloss.Style

	// TUI styles.
	StatusBarStyle   lipgloss.Style
	AcceptedStyle    lipgloss.Style
	RejectedStyle    lipgloss.Style
	UndecidedStyle   lipgloss.Style
	HelpStyle        lipgloss.Style
	SelectedRowStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	WarningStyle = lipgloss.NewStyle().
		Foreground(p.Warning)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Surface)

	RiskHighStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Error)
	RiskMediumStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Warning)
	RiskLowStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Underline(true)
	LegalStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Underline(true)
	SuggestionStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Italic(true)
	EditStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Success)
	ActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Reverse(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface).
		Padding(0, 1)
	AcceptedStyle = lipgloss.NewStyle().Foreground(p.Success)
	RejectedStyle = lipgloss.NewStyle().Foreground(p.Error)
	UndecidedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)
	SelectedRowStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
}

// ForHighlight returns the style for a highlight category. Risks without a
// known level use the medium style.
func ForHighlight(typ highlight.Type, level review.Level) lipgloss.Style {
	switch typ {
	case highlight.TypeRisk:
		switch level {
		case review.LevelHigh:
			return RiskHighStyle
		case review.LevelLow:
			return RiskLowStyle
		default:
			return RiskMediumStyle
		}
	case highlight.TypeLegal:
		return LegalStyle
	case highlight.TypeSuggestion:
		return SuggestionStyle
	case highlight.TypeEdit:
		return EditStyle
	default:
		return lipgloss.NewStyle()
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
