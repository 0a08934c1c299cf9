package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatull/internal/config"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	// ULLTheme uses the university's purple as the primary color
	ULLTheme = TUITheme{
		Name:        "ull",
		Description: "Purple accents on a dark background",

		Surface: lipgloss.Color("#241b2f"),
		Border:  lipgloss.Color("#4a3b5c"),

		Primary:   lipgloss.Color("#a66cd6"),
		Secondary: lipgloss.Color("#7fc8a9"),
		Accent:    lipgloss.Color("#f2b950"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#e6e1ee"),
		TextDim:  lipgloss.Color("#8a7f9c"),
		TextMute: lipgloss.Color("#5a4f6b"),
	}

	// TokyoNightTheme is a dark theme with blue accents
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night, dark with blue accents",

		Surface: lipgloss.Color("#24283b"),
		Border:  lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// LightTheme is for light terminal backgrounds
	LightTheme = TUITheme{
		Name:        "light",
		Description: "Dark text for light terminals",

		Surface: lipgloss.Color("#f4f1f8"),
		Border:  lipgloss.Color("#c9bfd6"),

		Primary:   lipgloss.Color("#5c068c"),
		Secondary: lipgloss.Color("#2e7d5b"),
		Accent:    lipgloss.Color("#b35c00"),
		Warning:   lipgloss.Color("#9a6700"),
		Error:     lipgloss.Color("#c62828"),

		Text:     lipgloss.Color("#2b2433"),
		TextDim:  lipgloss.Color("#6b6177"),
		TextMute: lipgloss.Color("#a399ae"),
	}
)

// DefaultTUITheme is the theme used when none is configured
const DefaultTUITheme = config.DefaultTheme

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// TUIThemeOrDefault returns the named theme, or the default one when the
// name is unknown
func TUIThemeOrDefault(name string) TUITheme {
	if t, ok := GetTUIThemeByName(name); ok {
		return t
	}
	return ULLTheme
}

// AvailableTUIThemes returns all built-in TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{ULLTheme, TokyoNightTheme, LightTheme}
}

// TUIThemeNames returns just the theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
