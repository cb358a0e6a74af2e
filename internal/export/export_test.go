package export

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedSurface(t *testing.T, bg *color.RGBA) *render.Surface {
	t.Helper()
	surface := render.NewSurface()
	err := render.NewAdapter(surface).RenderOrUpdate(render.Options{
		Value:      "https://example.com",
		Size:       100,
		Foreground: color.RGBA{0, 0, 0, 255},
		Background: bg,
		QuietZone:  4,
	})
	require.NoError(t, err)
	return surface
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	assert.Equal(t, "qr-code_1700000000000.png", FileName(now, FormatPNG))
	assert.Equal(t, "qr-code_1700000000000.jpg", FileName(now, FormatJPG))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatPNG},
		{"png", FormatPNG},
		{"PNG", FormatPNG},
		{"jpg", FormatJPG},
		{"jpeg", FormatJPG},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFormat("svg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncode_NothingRendered(t *testing.T) {
	_, err := Encode(render.NewSurface(), FormatPNG, time.Now(), nil)
	assert.ErrorIs(t, err, ErrNothingRendered)

	_, err = Encode(nil, FormatPNG, time.Now(), nil)
	assert.ErrorIs(t, err, ErrNothingRendered)
}

func TestEncode_PNGKeepsPixelsAndTransparency(t *testing.T) {
	surface := renderedSurface(t, nil)
	now := time.UnixMilli(1700000000000)

	f, err := Encode(surface, FormatPNG, now, nil)
	require.NoError(t, err)
	assert.Equal(t, "qr-code_1700000000000.png", f.Name)
	assert.Equal(t, "image/png", f.ContentType)

	img, err := png.Decode(bytes.NewReader(f.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 108, 108), img.Bounds())
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestEncode_JPGFlattensTransparentOntoWhite(t *testing.T) {
	surface := renderedSurface(t, nil)

	f, err := Encode(surface, FormatJPG, time.UnixMilli(1), nil)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", f.ContentType)
	assert.Equal(t, "qr-code_1.jpg", f.Name)

	img, err := jpeg.Decode(bytes.NewReader(f.Data))
	require.NoError(t, err)
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	bg := color.RGBA{255, 255, 255, 255}
	_, err := Encode(renderedSurface(t, &bg), Format("gif"), time.Now(), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
