package render

import (
	"image"
	"image/draw"
)

// Surface is the raster a QR code is drawn into. Its identity never changes;
// only the backing pixels are replaced when the dimensions change.
type Surface struct {
	img *image.RGBA
}

func NewSurface() *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, 0, 0))}
}

// RGBA returns the current pixels. The returned image is replaced on resize,
// so callers must not keep it across renders.
func (s *Surface) RGBA() *image.RGBA {
	return s.img
}

// Size returns the side length in pixels.
func (s *Surface) Size() int {
	return s.img.Bounds().Dx()
}

// Empty reports whether nothing has been drawn yet.
func (s *Surface) Empty() bool {
	return s.img.Bounds().Empty()
}

// Snapshot returns an independent copy of the pixels.
func (s *Surface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	draw.Draw(out, out.Bounds(), s.img, s.img.Bounds().Min, draw.Src)
	return out
}

func (s *Surface) resize(side int) {
	if s.img.Bounds().Dx() == side && s.img.Bounds().Dy() == side {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, side, side))
}
