// Package ui holds the visual building blocks of the mate terminal front end:
// the colour theme, shared styles and static renderers for buckets, tables
// and usage figures.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"matebuilder/internal/allocation"
)

var (
	// Light mode
	LightBackground = lipgloss.Color("#fff7f9")
	LightForeground = lipgloss.Color("#3b1f2b")
	LightPrimary    = lipgloss.Color("#c2185b")
	LightAccent     = lipgloss.Color("#f06292")
	LightMuted      = lipgloss.Color("#a1887f")
	LightBorder     = lipgloss.Color("#f8bbd0")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode
	DarkBackground = lipgloss.Color("#1d1320")
	DarkForeground = lipgloss.Color("#f5eef2")
	DarkPrimary    = lipgloss.Color("#f48fb1")
	DarkAccent     = lipgloss.Color("#ec407a")
	DarkMuted      = lipgloss.Color("#8d7b86")
	DarkBorder     = lipgloss.Color("#4a2f3d")
	DarkCard       = lipgloss.Color("#2a1b27")

	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#43a047")
	Warning     = lipgloss.Color("#ffb300")
	Info        = lipgloss.Color("#1e88e5")
)

// bucketColors tints each bucket column.
var bucketColors = map[allocation.Bucket]lipgloss.Color{
	allocation.Pool:        lipgloss.Color("#90a4ae"),
	allocation.MustHave:    lipgloss.Color("#d81b60"),
	allocation.Bonus:       lipgloss.Color("#43a047"),
	allocation.DealBreaker: lipgloss.Color("#424242"),
	allocation.Flaw:        lipgloss.Color("#fb8c00"),
}

// Theme is a colour scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from MATE_DARK_MODE or COLORFGBG, defaulting to
// light.
func DetectTheme() Theme {
	switch os.Getenv("MATE_DARK_MODE") {
	case "1", "true":
		return DarkTheme()
	case "0", "false":
		return LightTheme()
	}
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}
	return LightTheme()
}

// Styles holds the styled components.
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Column       lipgloss.Style
	ActiveColumn lipgloss.Style
	Cursor       lipgloss.Style
	Selected     lipgloss.Style
	Coins        lipgloss.Style
	Spinner      lipgloss.Style
	Divider      lipgloss.Style
	Badge        lipgloss.Style
}

// NewStyles builds Styles for theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().Foreground(Success).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(Destructive).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(Warning).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(Info),

		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		ActiveColumn: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1),
		Cursor: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.Accent),
		Coins: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),
		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),
		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// BucketTitle renders a bucket heading in the bucket's colour.
func (s Styles) BucketTitle(b allocation.Bucket, title string) string {
	c, ok := bucketColors[b]
	if !ok {
		c = s.Theme.Primary
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(title)
}

// RenderDivider returns a horizontal rule of width cells.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
