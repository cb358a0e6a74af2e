// Package design holds the user's QR design configuration and the rules that
// keep it consistent.
package design

import (
	"image/color"
	"math"
	"strings"
)

// Theme is the page color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Defaults mirror the initial values of the design form.
const (
	DefaultTheme             = ThemeDark
	DefaultAccentColor       = "#00ffff"
	DefaultBackgroundOpacity = 0.3
	DefaultQRSize            = 250
	DefaultQuietZone         = 4
	DefaultCornerRounding    = 0
	DefaultForegroundColor   = "#005e8d"
	DefaultBackgroundColor   = "#ffffff"
	DefaultLogoSizePercent   = 20
)

// Bounds applied by Normalize.
const (
	MinQRSize    = 50
	MaxQRSize    = 2000
	MaxQuietZone = 200
)

// Settings is the flat design record edited by the form and persisted on save.
type Settings struct {
	URL                   string  `json:"url"`
	Theme                 Theme   `json:"theme"`
	AccentColor           string  `json:"accentColor"`
	BackgroundOpacity     float64 `json:"backgroundOpacity"`
	QRSize                int     `json:"qrSize"`
	QuietZone             int     `json:"quietZone"`
	CornerRoundingPercent int     `json:"cornerRoundingPercent"`
	ForegroundColor       string  `json:"foregroundColor"`
	BackgroundColor       string  `json:"backgroundColor"`
	TransparentBackground bool    `json:"transparentBackground"`
	LogoSizePercent       int     `json:"logoSizePercent"`
	LogoImageData         string  `json:"logoImageData,omitempty"`
}

// Defaults returns the settings a fresh form starts with.
func Defaults() Settings {
	return Settings{
		Theme:                 DefaultTheme,
		AccentColor:           DefaultAccentColor,
		BackgroundOpacity:     DefaultBackgroundOpacity,
		QRSize:                DefaultQRSize,
		QuietZone:             DefaultQuietZone,
		CornerRoundingPercent: DefaultCornerRounding,
		ForegroundColor:       DefaultForegroundColor,
		BackgroundColor:       DefaultBackgroundColor,
		LogoSizePercent:       DefaultLogoSizePercent,
	}
}

// Normalize returns a copy of s with every field inside its valid range.
// Colors are rewritten in canonical lowercase "#rrggbb" form.
func (s Settings) Normalize() Settings {
	s.URL = strings.TrimSpace(s.URL)
	s.Theme = ParseTheme(string(s.Theme))
	s.AccentColor = normalizeColor(s.AccentColor, DefaultAccentColor)
	s.ForegroundColor = normalizeColor(s.ForegroundColor, DefaultForegroundColor)
	s.BackgroundColor = normalizeColor(s.BackgroundColor, DefaultBackgroundColor)

	if math.IsNaN(s.BackgroundOpacity) {
		s.BackgroundOpacity = DefaultBackgroundOpacity
	}
	s.BackgroundOpacity = math.Min(1, math.Max(0, s.BackgroundOpacity))

	if s.QRSize <= 0 {
		s.QRSize = DefaultQRSize
	}
	s.QRSize = clamp(s.QRSize, MinQRSize, MaxQRSize)
	s.QuietZone = clamp(s.QuietZone, 0, MaxQuietZone)
	s.CornerRoundingPercent = clamp(s.CornerRoundingPercent, 0, 100)
	s.LogoSizePercent = clamp(s.LogoSizePercent, 0, 100)
	return s
}

// HasURL reports whether there is anything to encode.
func (s Settings) HasURL() bool {
	return strings.TrimSpace(s.URL) != ""
}

// Foreground returns the parsed module color.
func (s Settings) Foreground() color.RGBA {
	return ParseHexColor(s.ForegroundColor, ParseHexColor(DefaultForegroundColor, color.RGBA{A: 255}))
}

// RenderBackground returns the background passed to the encoder, or nil when
// the transparent flag is set; the stored color is then ignored.
func (s Settings) RenderBackground() *color.RGBA {
	if s.TransparentBackground {
		return nil
	}
	bg := ParseHexColor(s.BackgroundColor, color.RGBA{255, 255, 255, 255})
	return &bg
}

// HasLogo reports whether a logo source is attached.
func (s Settings) HasLogo() bool {
	return s.LogoImageData != ""
}

// ParseTheme maps free text to a Theme, falling back to dark.
func ParseTheme(v string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(v))) {
	case ThemeLight:
		return ThemeLight
	default:
		return ThemeDark
	}
}

// normalizeColor returns the canonical "#rrggbb" lowercase form of v, so
// "#FFF" and "#FFFFFF" are both stored as "#ffffff".
func normalizeColor(v, def string) string {
	if !ValidHexColor(v) {
		return def
	}
	return FormatHexColor(ParseHexColor(v, color.RGBA{}))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
