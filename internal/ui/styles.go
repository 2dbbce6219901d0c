package ui

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA, configurable): highlights, paths
// - Muted (gray): Secondary info, hints
// - No colored success/error/warning - use unicode symbols only

// defaultAccent is used when no accent override is configured.
const defaultAccent = "#A78BFA"

var (
	// Accent style for file paths, report sections, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

// accentColor holds the configured accent override ("" = default palette).
var accentColor string

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// normalizeAccentColor validates a configured accent value: an ANSI
// color code ("0" to "255") or a hex color ("#RGB" or "#RRGGBB", the
// short form expanded). "none", "off", and "default" disable the
// override.
func normalizeAccentColor(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}
	switch strings.ToLower(v) {
	case "none", "off", "default":
		return "", false
	}

	if hexColorRe.MatchString(v) {
		v = strings.ToLower(v)
		if len(v) == 4 {
			v = "#" + strings.Repeat(string(v[1]), 2) +
				strings.Repeat(string(v[2]), 2) +
				strings.Repeat(string(v[3]), 2)
		}
		return v, true
	}

	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 255 {
		return strconv.Itoa(n), true
	}

	return "", false
}

// ConfigureTheme applies a configured accent color to the palette.
// Invalid or disabled values reset to the default accent.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))
		AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
		return
	}

	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AccentColor returns the configured accent override, if any.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}
