package studio

import (
	"fmt"
	"strconv"

	"github.com/cristianadrielbraun/qrdesigner/internal/compose"
	"github.com/cristianadrielbraun/qrdesigner/internal/design"
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

const (
	bodyBaseClass  = "min-h-screen font-sans antialiased transition-colors bg-slate-950 text-slate-100"
	bodyLightClass = "light-theme bg-slate-50 text-slate-900"
	bodyDarkClass  = "dark-theme"
)

// CSS custom properties set on the document root.
const (
	VarAccentColor       = "--accent-color"
	VarAccentGlow        = "--accent-glow"
	VarBackgroundOpacity = "--background-opacity"
)

// Labels mirror the numeric controls next to their sliders.
type Labels struct {
	QRSize    string `json:"qrSizeValue"`
	QuietZone string `json:"qrQuietZoneValue"`
	Rounding  string `json:"qrRoundingValue"`
	LogoSize  string `json:"logoSizeValue"`
	BgOpacity string `json:"bgOpacityValue"`
}

// ThemeView is the page styling derived from the theme controls.
type ThemeView struct {
	Theme     design.Theme      `json:"theme"`
	BodyClass string            `json:"bodyClass"`
	Vars      map[string]string `json:"vars"`
}

// View is everything the page needs to draw itself.
type View struct {
	State           State           `json:"state"`
	SurfaceVisible  bool            `json:"surfaceVisible"`
	DownloadEnabled bool            `json:"downloadEnabled"`
	LogoVisible     bool            `json:"logoVisible"`
	LogoPending     bool            `json:"logoPending"`
	LogoSizePx      float64         `json:"logoSizePx"`
	LogoSrc         string          `json:"logoSrc,omitempty"`
	CornerRadius    string          `json:"cornerRadius"`
	Labels          Labels          `json:"labels"`
	Theme           ThemeView       `json:"theme"`
	Revision        uint64          `json:"revision"`
	Notice          *Notice         `json:"notice,omitempty"`
	Settings        design.Settings `json:"settings"`
}

// NewThemeView derives body class and CSS variables from settings.
func NewThemeView(s design.Settings) ThemeView {
	themeClass := bodyDarkClass
	if s.Theme == design.ThemeLight {
		themeClass = bodyLightClass
	}
	return ThemeView{
		Theme:     s.Theme,
		BodyClass: twmerge.Merge(bodyBaseClass, themeClass),
		Vars: map[string]string{
			VarAccentColor:       s.AccentColor,
			VarAccentGlow:        fmt.Sprintf("0 0 10px %s, 0 0 20px %s inset", s.AccentColor, s.AccentColor),
			VarBackgroundOpacity: formatFloat(s.BackgroundOpacity),
		},
	}
}

// NewLabels formats the mirrored slider values.
func NewLabels(s design.Settings) Labels {
	return Labels{
		QRSize:    strconv.Itoa(s.QRSize),
		QuietZone: strconv.Itoa(s.QuietZone),
		Rounding:  strconv.Itoa(s.CornerRoundingPercent),
		LogoSize:  strconv.Itoa(s.LogoSizePercent),
		BgOpacity: formatFloat(s.BackgroundOpacity),
	}
}

// view builds the View. Callers hold c.mu.
func (c *Controller) view() View {
	rendered := c.state == StateRendered
	settings := c.settings
	settings.LogoImageData = ""

	v := View{
		State:           c.state,
		SurfaceVisible:  rendered,
		DownloadEnabled: rendered,
		LogoPending:     c.cancelDecode != nil,
		CornerRadius:    strconv.Itoa(c.settings.CornerRoundingPercent) + "%",
		Labels:          NewLabels(c.settings),
		Theme:           NewThemeView(c.settings),
		Revision:        c.revision,
		Notice:          c.notice,
		Settings:        settings,
	}
	if rendered && c.logo != nil {
		v.LogoVisible = true
		v.LogoSizePx = compose.Place(c.settings.QRSize, c.renderer.QuietZone(), c.settings.LogoSizePercent).LogoSize
		v.LogoSrc = c.logo.Source
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
