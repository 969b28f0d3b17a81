package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme colours the terminal view and the GIF frames.
type Theme struct {
	Name       string
	Field      lipgloss.Color // arrows
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
}

var (
	ThemeField = Theme{
		Name:       "field",
		Field:      lipgloss.Color("#00ccff"),
		Accent:     lipgloss.Color("#ffcc00"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#666688"),
		Warning:    lipgloss.Color("#ff8800"),
	}

	ThemePhosphor = Theme{
		Name:       "phosphor",
		Field:      lipgloss.Color("#00ff00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Warning:    lipgloss.Color("#ffff00"),
	}

	ThemePaper = Theme{
		Name:       "paper",
		Field:      lipgloss.Color("#1a1a1a"),
		Accent:     lipgloss.Color("#0055aa"),
		Background: lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#1a1a1a"),
		Muted:      lipgloss.Color("#888888"),
		Warning:    lipgloss.Color("#cc3300"),
	}

	Themes = []Theme{ThemeField, ThemePhosphor, ThemePaper}
)

// GetTheme returns the named theme, or the default one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeField
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Next cycles through Themes.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// Palette is the GIF palette: background, arrows, then negatively toned
// arrows.
func (t Theme) Palette() color.Palette {
	return color.Palette{rgb(t.Background), rgb(t.Field), rgb(t.Accent)}
}

func rgb(c lipgloss.Color) color.RGBA {
	r, g, b := parseHex(string(c))
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}
