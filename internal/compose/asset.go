package compose

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/webp"
)

// ErrNotDataURL is returned for sources that are not "data:" URLs.
var ErrNotDataURL = errors.New("logo source is not a data URL")

const svgRasterSide = 512

// LogoAsset is a decoded logo together with the data URL it came from.
// Assets are immutable; a new upload produces a new asset.
type LogoAsset struct {
	Image      image.Image
	Source     string
	Generation uint64
}

// NewLogoAsset wraps a decoded image.
func NewLogoAsset(img image.Image, source string, generation uint64) *LogoAsset {
	return &LogoAsset{Image: img, Source: source, Generation: generation}
}

// EncodeDataURL builds a base64 data URL, sniffing the content type when
// contentType is empty or generic.
func EncodeDataURL(data []byte, contentType string) string {
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = mimetype.Detect(data).String()
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL decodes any raster or SVG image carried in a data URL.
func DecodeDataURL(src string) (image.Image, error) {
	contentType, data, err := parseDataURL(src)
	if err != nil {
		return nil, err
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	if strings.Contains(contentType, "svg") {
		return rasterizeSVG(data)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s logo: %w", contentType, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("logo image has no pixels")
	}
	return img, nil
}

func parseDataURL(src string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrNotDataURL)
	}

	isBase64 := false
	parts := strings.Split(meta, ";")
	contentType := strings.ToLower(strings.TrimSpace(parts[0]))
	for _, p := range parts[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if !isBase64 {
		text, err := url.PathUnescape(payload)
		if err != nil {
			return "", nil, fmt.Errorf("unescape logo payload: %w", err)
		}
		return contentType, []byte(text), nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("decode logo payload: %w", err)
		}
	}
	return contentType, data, nil
}

func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg logo: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = svgRasterSide, svgRasterSide
	}
	scale := svgRasterSide / max(w, h)
	width, height := int(w*scale), int(h*scale)
	if width == 0 || height == 0 {
		return nil, errors.New("svg logo has no area")
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return img, nil
}
