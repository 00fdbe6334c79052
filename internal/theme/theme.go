// Package theme provides theme definitions and management for the TUI.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines all colors used in the application UI. DirtyBg and
// CleanBg are the default buffer backgrounds for unevaluated and
// evaluated buffers; an explicit color in the configuration takes
// precedence over both.
type Theme struct {
	Background lipgloss.Color
	DirtyBg    lipgloss.Color // Buffer background while unevaluated edits exist
	CleanBg    lipgloss.Color // Buffer background after a successful eval ("" = no override)
	Accent     lipgloss.Color
	AccentFg   lipgloss.Color // Foreground color for text on Accent background
	Border     lipgloss.Color
	MutedFg    lipgloss.Color
	TextFg     lipgloss.Color
	SuccessFg  lipgloss.Color
	ErrorFg    lipgloss.Color
}

// Theme names.
const (
	DraculaName        = "dracula"
	NarnaName          = "narna"
	GruvboxDarkName    = "gruvbox-dark"
	CleanLightName     = "clean-light"
	SolarizedLightName = "solarized-light"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Background: lipgloss.Color("#282A36"), // Background
		DirtyBg:    lipgloss.Color("#332f2f"), // Reddish-brown wash on edited buffers
		CleanBg:    lipgloss.Color(""),        // Defer to terminal background
		Accent:     lipgloss.Color("#BD93F9"), // Purple (primary accent)
		AccentFg:   lipgloss.Color("#282A36"), // Dark text on accent
		Border:     lipgloss.Color("#6272A4"), // Comment (subtle borders)
		MutedFg:    lipgloss.Color("#6272A4"), // Comment (muted text)
		TextFg:     lipgloss.Color("#F8F8F2"), // Foreground (primary text)
		SuccessFg:  lipgloss.Color("#50FA7B"), // Green (success)
		ErrorFg:    lipgloss.Color("#FF5555"), // Red (error)
	}
}

// Narna returns a balanced dark theme with blue accents.
func Narna() *Theme {
	return &Theme{
		Background: lipgloss.Color("#0D1117"), // Charcoal background
		DirtyBg:    lipgloss.Color("#2A1F1F"), // Warm dark wash
		CleanBg:    lipgloss.Color(""),
		Accent:     lipgloss.Color("#41ADFF"), // Blue accent
		AccentFg:   lipgloss.Color("#0D1117"), // Dark text on accent
		Border:     lipgloss.Color("#30363D"), // Subtle borders
		MutedFg:    lipgloss.Color("#8B949E"), // Muted text
		TextFg:     lipgloss.Color("#E6EDF3"), // Primary text
		SuccessFg:  lipgloss.Color("#3FB950"), // Success green
		ErrorFg:    lipgloss.Color("#F47067"), // Soft red
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Background: lipgloss.Color("#282828"),
		DirtyBg:    lipgloss.Color("#32302F"), // Slightly warmer than the base background
		CleanBg:    lipgloss.Color(""),
		Accent:     lipgloss.Color("#83A598"),
		AccentFg:   lipgloss.Color("#282828"),
		Border:     lipgloss.Color("#504945"),
		MutedFg:    lipgloss.Color("#928374"),
		TextFg:     lipgloss.Color("#EBDBB2"),
		SuccessFg:  lipgloss.Color("#B8BB26"),
		ErrorFg:    lipgloss.Color("#FB4934"),
	}
}

// CleanLight returns a theme optimized for light terminal backgrounds.
func CleanLight() *Theme {
	return &Theme{
		Background: lipgloss.Color("#FFFFFF"), // Pure White
		DirtyBg:    lipgloss.Color("#FBEAEA"), // Pale red wash
		CleanBg:    lipgloss.Color(""),
		Accent:     lipgloss.Color("#c6dbe5"), // Cyan (matching header)
		AccentFg:   lipgloss.Color("#24292F"), // Dark text on accent
		Border:     lipgloss.Color("#D0D7DE"), // Subtle cool gray
		MutedFg:    lipgloss.Color("#6E7781"), // Muted gray text
		TextFg:     lipgloss.Color("#24292F"), // Deep charcoal (softer than black)
		SuccessFg:  lipgloss.Color("#1A7F37"), // Success green
		ErrorFg:    lipgloss.Color("#CF222E"), // Error red
	}
}

// SolarizedLight returns the Solarized light theme.
func SolarizedLight() *Theme {
	return &Theme{
		Background: lipgloss.Color("#FDF6E3"),
		DirtyBg:    lipgloss.Color("#F5E6DC"), // Warm tint over the base paper tone
		CleanBg:    lipgloss.Color(""),
		Accent:     lipgloss.Color("#268BD2"),
		AccentFg:   lipgloss.Color("#FDF6E3"),
		Border:     lipgloss.Color("#93A1A1"),
		MutedFg:    lipgloss.Color("#93A1A1"),
		TextFg:     lipgloss.Color("#657B83"),
		SuccessFg:  lipgloss.Color("#859900"),
		ErrorFg:    lipgloss.Color("#DC322F"),
	}
}

// GetTheme returns the theme for a name, falling back to Dracula.
func GetTheme(name string) *Theme {
	switch name {
	case NarnaName:
		return Narna()
	case GruvboxDarkName:
		return GruvboxDark()
	case CleanLightName:
		return CleanLight()
	case SolarizedLightName:
		return SolarizedLight()
	default:
		return Dracula()
	}
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	switch name {
	case CleanLightName, SolarizedLightName:
		return true
	default:
		return false
	}
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string {
	return DraculaName
}

// DefaultLight returns the default light theme name.
func DefaultLight() string {
	return CleanLightName
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		NarnaName,
		GruvboxDarkName,
		CleanLightName,
		SolarizedLightName,
	}
}

// NormalizeThemeName returns the canonical theme name if it is supported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case DraculaName, NarnaName, GruvboxDarkName, CleanLightName, SolarizedLightName:
		return name
	default:
		return ""
	}
}
