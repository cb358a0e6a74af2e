// Package export encodes a rendered surface into a downloadable file.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/render"
	"github.com/disintegration/imaging"
)

// ErrNothingRendered is returned when there is no QR image to export.
var ErrNothingRendered = errors.New("nothing rendered")

// ErrUnsupportedFormat is returned for formats other than png and jpg.
var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
)

const (
	filePrefix  = "qr-code"
	jpegQuality = 92
)

// File is an encoded image ready to be sent as an attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ParseFormat maps a query value to a Format. Empty means png.
func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, v)
}

// FileName returns qr-code_<unix-ms>.<ext>.
func FileName(now time.Time, format Format) string {
	return fmt.Sprintf("%s_%d.%s", filePrefix, now.UnixMilli(), format)
}

// Encode serializes the surface. PNG keeps transparency; JPG is flattened
// onto background, or white when background is nil.
func Encode(surface *render.Surface, format Format, now time.Time, background *color.RGBA) (File, error) {
	if surface == nil || surface.Empty() {
		return File{}, ErrNothingRendered
	}
	img := surface.Snapshot()

	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return File{}, fmt.Errorf("encode png: %w", err)
		}
		return File{Name: FileName(now, format), ContentType: "image/png", Data: buf.Bytes()}, nil
	case FormatJPG:
		if err := imaging.Encode(&buf, flatten(img, background), imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return File{}, fmt.Errorf("encode jpg: %w", err)
		}
		return File{Name: FileName(now, format), ContentType: "image/jpeg", Data: buf.Bytes()}, nil
	}
	return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func flatten(img image.Image, background *color.RGBA) image.Image {
	bg := color.RGBA{255, 255, 255, 255}
	if background != nil && background.A != 0 {
		bg = color.RGBA{background.R, background.G, background.B, 255}
	}
	b := img.Bounds()
	return imaging.Overlay(imaging.New(b.Dx(), b.Dy(), bg), img, image.Pt(0, 0), 1.0)
}
