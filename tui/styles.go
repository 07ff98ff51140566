package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rustyeddy/magnate/news"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7C3AED") // Purple
	GoldColor    = lipgloss.Color("#F5C542")
	AccentColor  = lipgloss.Color("#F59E0B") // Amber

	UpColor      = lipgloss.Color("#10B981") // Green
	DownColor    = lipgloss.Color("#EF4444") // Red
	NeutralColor = lipgloss.Color("#6B7280") // Gray

	BorderColor        = lipgloss.Color("#374151")
	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
)

var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(GoldColor)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	PriceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(GoldColor)

	UpStyle = lipgloss.NewStyle().
			Foreground(UpColor)

	DownStyle = lipgloss.NewStyle().
			Foreground(DownColor)

	StatusStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(DownColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(NeutralColor)
)

// News styles by headline color class.
var newsStyles = map[news.Color]lipgloss.Style{
	news.ColorScripted:      lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor),
	news.ColorBullish:       lipgloss.NewStyle().Foreground(UpColor),
	news.ColorStrongBullish: lipgloss.NewStyle().Bold(true).Foreground(UpColor),
	news.ColorBearish:       lipgloss.NewStyle().Foreground(DownColor),
	news.ColorStrongBearish: lipgloss.NewStyle().Bold(true).Foreground(DownColor),
}

func newsStyle(c news.Color) lipgloss.Style {
	if s, ok := newsStyles[c]; ok {
		return s
	}
	return ValueStyle
}
