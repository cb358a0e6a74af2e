// Package compose paints a logo over a rendered QR surface.
package compose

import (
	"math"

	"github.com/cristianadrielbraun/qrdesigner/internal/render"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Backing plate look: white at 90% opacity, inset by 10% of the logo size.
const (
	PlateAlpha         = 0.9
	PlatePaddingFactor = 0.1
)

// Placement is the geometry of a logo centred on a QR raster.
type Placement struct {
	LogoSize      float64
	Total         float64
	X, Y          float64
	BorderPadding float64
}

// Place computes where a logo of logoSizePercent of qrSize lands on a
// raster of qrSize + 2*quietZone pixels.
func Place(qrSize, quietZone, logoSizePercent int) Placement {
	logoSize := float64(qrSize) * (float64(logoSizePercent) / 100)
	total := float64(qrSize + 2*quietZone)
	x := total/2 - logoSize/2
	return Placement{
		LogoSize:      logoSize,
		Total:         total,
		X:             x,
		Y:             x,
		BorderPadding: logoSize * PlatePaddingFactor,
	}
}

// Plate returns the backing plate rectangle as min and max corners.
func (p Placement) Plate() (x0, y0, x1, y1 float64) {
	x0 = p.X - p.BorderPadding
	y0 = p.Y - p.BorderPadding
	side := p.LogoSize + 2*p.BorderPadding
	return x0, y0, x0 + side, y0 + side
}

// Composite paints the backing plate and the scaled logo over the surface.
// It returns false, drawing nothing, when there is no logo or no render.
func Composite(surface *render.Surface, quietZone, qrSize int, logo *LogoAsset, logoSizePercent int) bool {
	if logo == nil || logo.Image == nil {
		return false
	}
	if surface == nil || surface.Empty() {
		return false
	}

	p := Place(qrSize, quietZone, logoSizePercent)
	side := int(math.Round(p.LogoSize))
	if side <= 0 {
		return true
	}

	dc := gg.NewContextForRGBA(surface.RGBA())
	x0, y0, x1, y1 := p.Plate()
	dc.SetRGBA(1, 1, 1, PlateAlpha)
	dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	dc.Fill()

	scaled := imaging.Resize(logo.Image, side, side, imaging.Lanczos)
	dc.DrawImage(scaled, int(math.Round(p.X)), int(math.Round(p.Y)))
	return true
}
