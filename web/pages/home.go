// Package pages holds the page components. The *_templ.go files are
// generated from the .templ sources with `templ generate`.
package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianadrielbraun/qrdesigner/internal/studio"
)

func rootStyle(view studio.View) string {
	return fmt.Sprintf("%s: %s; %s: %s; %s: %s;",
		studio.VarAccentColor, view.Theme.Vars[studio.VarAccentColor],
		studio.VarAccentGlow, view.Theme.Vars[studio.VarAccentGlow],
		studio.VarBackgroundOpacity, view.Theme.Vars[studio.VarBackgroundOpacity],
	)
}

func opacityValue(view studio.View) string {
	return strconv.FormatFloat(view.Settings.BackgroundOpacity, 'f', -1, 64)
}

func canvasClass(view studio.View) string {
	if view.SurfaceVisible {
		return "visible"
	}
	return ""
}

func canvasStyle(view studio.View) string {
	return "border-radius: " + view.CornerRadius + ";"
}

// previewSrc changes with every redraw so the browser refetches the image.
func previewSrc(view studio.View) string {
	return "/api/preview.png?rev=" + strconv.FormatUint(view.Revision, 10)
}

func logoBoxStyle(view studio.View) string {
	display := "none"
	if view.LogoVisible {
		display = "block"
	}
	size := strconv.FormatFloat(view.LogoSizePx, 'f', -1, 64)
	return fmt.Sprintf("display: %s; width: %spx; height: %spx;", display, size, size)
}

// logoSrc only lets image data URLs through as an img source.
func logoSrc(view studio.View) string {
	if strings.HasPrefix(view.LogoSrc, "data:image/") {
		return view.LogoSrc
	}
	return ""
}

func downloadClass(view studio.View) string {
	if view.DownloadEnabled {
		return ""
	}
	return "hidden"
}
