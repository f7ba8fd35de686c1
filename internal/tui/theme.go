package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the TUI.
// Inspired by btop and Tokyo Night color scheme.
type Theme struct {
	// Backgrounds
	BgDark   lipgloss.Color // Deep background
	BgAccent lipgloss.Color // Accent background (selection)

	// Text
	TextPrimary lipgloss.Color // Main text
	TextDim     lipgloss.Color // Secondary/dim text
	TextMuted   lipgloss.Color // Very dim text

	// Borders
	Border        lipgloss.Color // Default border
	BorderFocused lipgloss.Color // Focused/active border

	// Semantic colors
	Accent  lipgloss.Color // Primary accent (blue)
	Success lipgloss.Color // Success/positive (green)
	Warning lipgloss.Color // Warning/caution (amber)
	Error   lipgloss.Color // Error/danger (red/pink)
	Info    lipgloss.Color // Info/neutral (cyan)
}

// DefaultTheme returns the default dark theme inspired by btop/Tokyo Night.
var DefaultTheme = Theme{
	BgDark:   lipgloss.Color("#1a1b26"),
	BgAccent: lipgloss.Color("#414868"),

	TextPrimary: lipgloss.Color("#c0caf5"),
	TextDim:     lipgloss.Color("#565f89"),
	TextMuted:   lipgloss.Color("#414868"),

	Border:        lipgloss.Color("#414868"),
	BorderFocused: lipgloss.Color("#7aa2f7"),

	Accent:  lipgloss.Color("#7aa2f7"), // Blue
	Success: lipgloss.Color("#9ece6a"), // Green
	Warning: lipgloss.Color("#e0af68"), // Amber
	Error:   lipgloss.Color("#f7768e"), // Red/Pink
	Info:    lipgloss.Color("#7dcfff"), // Cyan
}

// Styles provides pre-configured lipgloss styles using the theme.
type Styles struct {
	Base  lipgloss.Style
	Dim   lipgloss.Style
	Muted lipgloss.Style

	Title lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Step trail
	StepCurrent lipgloss.Style
	StepVisited lipgloss.Style
	StepPending lipgloss.Style

	// Navigation buttons
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style

	KeyBinding lipgloss.Style
	KeyHint    lipgloss.Style

	Panel        lipgloss.Style
	PanelLeaving lipgloss.Style
}

// NewStyles creates a new Styles instance from a Theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Base:  lipgloss.NewStyle().Foreground(t.TextPrimary),
		Dim:   lipgloss.NewStyle().Foreground(t.TextDim),
		Muted: lipgloss.NewStyle().Foreground(t.TextMuted),

		Title: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Padding(0, 1),

		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Info:    lipgloss.NewStyle().Foreground(t.Info),

		StepCurrent: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		StepVisited: lipgloss.NewStyle().Foreground(t.Success),
		StepPending: lipgloss.NewStyle().Foreground(t.TextDim),

		Button: lipgloss.NewStyle().
			Foreground(t.BgDark).
			Background(t.Accent).
			Padding(0, 2),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(t.TextDim).
			Background(t.BgAccent).
			Padding(0, 2),

		KeyBinding: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		KeyHint: lipgloss.NewStyle().
			Foreground(t.TextDim),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocused).
			Padding(1, 2),
		PanelLeaving: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Foreground(t.TextMuted).
			Padding(1, 2),
	}
}

// DefaultStyles returns styles using the default theme.
var DefaultStyles = NewStyles(DefaultTheme)

// FormTheme is the huh theme matching the palette.
func FormTheme(t Theme) *huh.Theme {
	ht := huh.ThemeBase()
	ht.Focused.Title = ht.Focused.Title.Foreground(t.Accent).Bold(true)
	ht.Focused.Description = ht.Focused.Description.Foreground(t.TextDim)
	ht.Focused.ErrorMessage = ht.Focused.ErrorMessage.Foreground(t.Error)
	ht.Focused.ErrorIndicator = ht.Focused.ErrorIndicator.Foreground(t.Error)
	ht.Focused.SelectSelector = ht.Focused.SelectSelector.Foreground(t.Accent)
	ht.Focused.SelectedOption = ht.Focused.SelectedOption.Foreground(t.Success)
	ht.Focused.FocusedButton = ht.Focused.FocusedButton.Foreground(t.BgDark).Background(t.Accent)
	ht.Focused.BlurredButton = ht.Focused.BlurredButton.Foreground(t.TextDim).Background(t.BgAccent)
	ht.Focused.TextInput.Cursor = ht.Focused.TextInput.Cursor.Foreground(t.Accent)
	ht.Blurred.Title = ht.Blurred.Title.Foreground(t.TextDim)
	ht.Blurred.Description = ht.Blurred.Description.Foreground(t.TextMuted)
	return ht
}

// CheckIcon returns a styled check/cross icon.
func CheckIcon(checked bool, s Styles) string {
	if checked {
		return s.Success.Render("✓")
	}
	return s.Error.Render("✗")
}
