package report

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used by the comparison report.
// Use DarkTheme() or LightTheme() to get a pre-built theme,
// or construct a custom Theme.
type Theme struct {
	Title     lipgloss.Color // section headings
	Improving lipgloss.Color // improving trends, improved tests
	Degrading lipgloss.Color // degrading trends, regressed tests
	Variable  lipgloss.Color // variable trends, volatile tests
	Muted     lipgloss.Color // stable trends, secondary text
	Accent    lipgloss.Color // config-drift highlights
}

// DarkTheme returns the default theme for dark terminal backgrounds.
func DarkTheme() Theme {
	return Theme{
		Title:     lipgloss.Color("#fab283"),
		Improving: lipgloss.Color("#7fd88f"),
		Degrading: lipgloss.Color("#e06c75"),
		Variable:  lipgloss.Color("#f5a742"),
		Muted:     lipgloss.Color("#808080"),
		Accent:    lipgloss.Color("#5c9cf5"),
	}
}

// LightTheme returns a theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Title:     lipgloss.Color("#b35c00"),
		Improving: lipgloss.Color("#116329"),
		Degrading: lipgloss.Color("#cf222e"),
		Variable:  lipgloss.Color("#bf8700"),
		Muted:     lipgloss.Color("#656d76"),
		Accent:    lipgloss.Color("#0550ae"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds the lipgloss styles derived from a Theme.
type styles struct {
	title     lipgloss.Style
	improving lipgloss.Style
	degrading lipgloss.Style
	variable  lipgloss.Style
	muted     lipgloss.Style
	accent    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:     lipgloss.NewStyle().Foreground(t.Title).Bold(true),
		improving: lipgloss.NewStyle().Foreground(t.Improving),
		degrading: lipgloss.NewStyle().Foreground(t.Degrading),
		variable:  lipgloss.NewStyle().Foreground(t.Variable),
		muted:     lipgloss.NewStyle().Foreground(t.Muted),
		accent:    lipgloss.NewStyle().Foreground(t.Accent),
	}
}

// plainStyles renders everything unstyled, for --no-color and piped output.
func plainStyles() styles {
	plain := lipgloss.NewStyle()
	return styles{
		title:     plain,
		improving: plain,
		degrading: plain,
		variable:  plain,
		muted:     plain,
		accent:    plain,
	}
}
