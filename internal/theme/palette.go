package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the terminal color set for one mode.
type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
}

// Light palette; text matches the chart font color #333.
var Light = Palette{
	Background: lipgloss.Color("#ffffff"),
	Surface:    lipgloss.Color("#f0f3f6"),
	Border:     lipgloss.Color("#d0d7de"),
	Text:       lipgloss.Color("#333333"),
	Muted:      lipgloss.Color("#6e7781"),
	Accent:     lipgloss.Color("#3498db"),
	Error:      lipgloss.Color("#cf222e"),
	Success:    lipgloss.Color("#2ecc71"),
}

// Dark palette; text matches the chart font color #e0e0e0.
var Dark = Palette{
	Background: lipgloss.Color("#0d1117"),
	Surface:    lipgloss.Color("#161b22"),
	Border:     lipgloss.Color("#30363d"),
	Text:       lipgloss.Color("#e0e0e0"),
	Muted:      lipgloss.Color("#8b949e"),
	Accent:     lipgloss.Color("#58a6ff"),
	Error:      lipgloss.Color("#f85149"),
	Success:    lipgloss.Color("#3fb950"),
}

// For returns the palette for a mode.
func For(isDark bool) Palette {
	if isDark {
		return Dark
	}
	return Light
}

// Styles are the lipgloss styles derived from a palette.
type Styles struct {
	Header       lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	Panel        lipgloss.Style
	Title        lipgloss.Style
	Text         lipgloss.Style
	Muted        lipgloss.Style
	Selected     lipgloss.Style
	Notification lipgloss.Style
	Hiding       lipgloss.Style
	StatusBar    lipgloss.Style
	Key          lipgloss.Style
	Disabled     lipgloss.Style
	Bar          lipgloss.Style
	Overlay      lipgloss.Style
}

// NewStyles builds the style set for a mode.
func NewStyles(isDark bool) Styles {
	p := For(isDark)
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 2).
			Bold(true),
		TabActive: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Underline(true).
			Padding(0, 1),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Text:  lipgloss.NewStyle().Foreground(p.Text),
		Muted: lipgloss.NewStyle().Foreground(p.Muted),
		Selected: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Notification: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true).
			Padding(0, 1),
		Hiding: lipgloss.NewStyle().
			Foreground(p.Muted).
			Faint(true).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			Background(p.Surface).
			Padding(0, 1),
		Key: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Disabled: lipgloss.NewStyle().
			Foreground(p.Muted).
			Strikethrough(true),
		Bar: lipgloss.NewStyle().Foreground(p.Accent),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Accent).
			Padding(1, 3),
	}
}
