package studio

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/cristianadrielbraun/qrdesigner/internal/design"
	"github.com/cristianadrielbraun/qrdesigner/internal/export"
	"github.com/cristianadrielbraun/qrdesigner/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

// spyRenderer records every render request and draws with a real adapter.
type spyRenderer struct {
	*render.Adapter
	calls []render.Options
}

func newSpy() *spyRenderer {
	return &spyRenderer{Adapter: render.NewAdapter(render.NewSurface())}
}

func (s *spyRenderer) RenderOrUpdate(opts render.Options) error {
	s.calls = append(s.calls, opts)
	return s.Adapter.RenderOrUpdate(opts)
}

// gatedDecoder returns fixed images per data URL. Decodes for URLs with a
// gate block until the gate is closed, ignoring cancellation.
type gatedDecoder struct {
	images map[string]image.Image
	gates  map[string]chan struct{}
}

func (d *gatedDecoder) Decode(_ context.Context, dataURL string) (image.Image, error) {
	if gate, ok := d.gates[dataURL]; ok {
		<-gate
	}
	img, ok := d.images[dataURL]
	if !ok {
		return nil, errors.New("not an image")
	}
	return img, nil
}

func solid(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func withURL(url string) design.Settings {
	s := design.Defaults()
	s.URL = url
	s.ForegroundColor = "#000000"
	return s
}

func wait(t *testing.T, task *LogoTask) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := task.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return err
}

func center(c *Controller) color.RGBA {
	// 250px QR, quiet zone 4: the logo box spans [104,154)
	return c.renderer.Surface().RGBA().RGBAAt(129, 129)
}

func TestNext(t *testing.T) {
	assert.Equal(t, StateEmpty, Next(""))
	assert.Equal(t, StateEmpty, Next("   \t"))
	assert.Equal(t, StateRendered, Next("https://example.com"))
	assert.Equal(t, StateRendered, Next(" x "))
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "rendered", StateRendered.String())
}

func TestUpdate_BlankURLDrawsNothing(t *testing.T) {
	spy := newSpy()
	c := NewController("client", WithRenderer(spy))

	v := c.Update(context.Background(), withURL("   "))

	assert.Equal(t, StateEmpty, v.State)
	assert.False(t, v.SurfaceVisible)
	assert.False(t, v.DownloadEnabled)
	assert.False(t, v.LogoVisible)
	assert.Empty(t, spy.calls)
	assert.True(t, spy.Surface().Empty())
}

func TestUpdate_Transitions(t *testing.T) {
	spy := newSpy()
	c := NewController("client", WithRenderer(spy))
	ctx := context.Background()

	v := c.Update(ctx, withURL("https://example.com"))
	assert.Equal(t, StateRendered, v.State)
	assert.True(t, v.SurfaceVisible)
	assert.True(t, v.DownloadEnabled)
	assert.Equal(t, uint64(1), v.Revision)
	require.Len(t, spy.calls, 1)
	assert.Equal(t, "https://example.com", spy.calls[0].Value)
	assert.Equal(t, 250, spy.calls[0].Size)
	assert.Equal(t, 4, spy.calls[0].QuietZone)

	surface := spy.Surface()
	v = c.Update(ctx, withURL("https://example.org"))
	assert.Equal(t, StateRendered, v.State)
	assert.Same(t, surface, spy.Surface())
	assert.Len(t, spy.calls, 2)

	v = c.Update(ctx, withURL(""))
	assert.Equal(t, StateEmpty, v.State)
	assert.False(t, v.DownloadEnabled)
	assert.Len(t, spy.calls, 2)
}

func TestUpdate_TransparentBackgroundReachesRendererAsNil(t *testing.T) {
	spy := newSpy()
	c := NewController("client", WithRenderer(spy))

	s := withURL("https://example.com")
	s.BackgroundColor = "#ff0000"
	s.TransparentBackground = true
	c.Update(context.Background(), s)

	require.Len(t, spy.calls, 1)
	assert.Nil(t, spy.calls[0].Background)
	assert.Zero(t, spy.Surface().RGBA().RGBAAt(0, 0).A)

	s.TransparentBackground = false
	c.Update(context.Background(), s)
	require.NotNil(t, spy.calls[1].Background)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, *spy.calls[1].Background)
}

func TestUpdate_LabelsMirroredInEveryState(t *testing.T) {
	c := NewController("client", WithRenderer(newSpy()))

	s := withURL("")
	s.QRSize = 300
	s.QuietZone = 8
	s.CornerRoundingPercent = 15
	s.LogoSizePercent = 25
	v := c.Update(context.Background(), s)

	assert.Equal(t, StateEmpty, v.State)
	assert.Equal(t, Labels{QRSize: "300", QuietZone: "8", Rounding: "15", LogoSize: "25", BgOpacity: "0.3"}, v.Labels)
	assert.Equal(t, "15%", v.CornerRadius)
}

func TestUpdate_KeepsThemeFields(t *testing.T) {
	c := NewController("client", WithRenderer(newSpy()))
	c.UpdateTheme(design.ThemeLight, "#ff00ff", 0.5)

	c.Update(context.Background(), withURL("https://example.com"))

	s := c.Settings()
	assert.Equal(t, design.ThemeLight, s.Theme)
	assert.Equal(t, "#ff00ff", s.AccentColor)
	assert.Equal(t, 0.5, s.BackgroundOpacity)
}

func TestUpdateTheme_DoesNotRender(t *testing.T) {
	spy := newSpy()
	c := NewController("client", WithRenderer(spy))

	v := c.UpdateTheme(design.ThemeLight, "#ff00ff", 0.5)

	assert.Empty(t, spy.calls)
	assert.Equal(t, StateEmpty, v.State)
	assert.Equal(t, design.ThemeLight, v.Theme.Theme)
	assert.Contains(t, v.Theme.BodyClass, "light-theme")
	assert.Contains(t, v.Theme.BodyClass, "bg-slate-50")
	assert.NotContains(t, v.Theme.BodyClass, "bg-slate-950")
	assert.Equal(t, "#ff00ff", v.Theme.Vars[VarAccentColor])
	assert.Equal(t, "0 0 10px #ff00ff, 0 0 20px #ff00ff inset", v.Theme.Vars[VarAccentGlow])
	assert.Equal(t, "0.5", v.Theme.Vars[VarBackgroundOpacity])
	assert.Equal(t, "0.5", v.Labels.BgOpacity)

	v = c.UpdateTheme(design.ThemeDark, "#00ffff", 0.3)
	assert.Contains(t, v.Theme.BodyClass, "dark-theme")
	assert.Contains(t, v.Theme.BodyClass, "bg-slate-950")
}

func TestUploadLogo_AppliesAndComposites(t *testing.T) {
	spy := newSpy()
	dec := &gatedDecoder{images: map[string]image.Image{"red": solid(red)}}
	c := NewController("client", WithRenderer(spy), WithDecoder(dec))
	c.Update(context.Background(), withURL("https://example.com"))

	require.NoError(t, wait(t, c.UploadLogo(context.Background(), "red")))

	assert.Equal(t, red, center(c))
	v := c.View()
	assert.True(t, v.LogoVisible)
	assert.False(t, v.LogoPending)
	assert.Equal(t, 50.0, v.LogoSizePx)
	assert.Equal(t, "red", v.LogoSrc)
	assert.Empty(t, v.Settings.LogoImageData)
	assert.Equal(t, "red", c.Settings().LogoImageData)
	// the logo redraw starts from a fresh render
	assert.Len(t, spy.calls, 2)
}

func TestUploadLogo_BeforeURLIsKeptForLater(t *testing.T) {
	dec := &gatedDecoder{images: map[string]image.Image{"red": solid(red)}}
	c := NewController("client", WithRenderer(newSpy()), WithDecoder(dec))

	require.NoError(t, wait(t, c.UploadLogo(context.Background(), "red")))
	assert.False(t, c.View().LogoVisible)

	v := c.Update(context.Background(), withURL("https://example.com"))
	assert.True(t, v.LogoVisible)
	assert.Equal(t, red, center(c))
}

func TestUploadLogo_StaleDecodeNeverWins(t *testing.T) {
	gate := make(chan struct{})
	dec := &gatedDecoder{
		images: map[string]image.Image{"red": solid(red), "blue": solid(blue)},
		gates:  map[string]chan struct{}{"red": gate},
	}
	c := NewController("client", WithRenderer(newSpy()), WithDecoder(dec))
	c.Update(context.Background(), withURL("https://example.com"))

	first := c.UploadLogo(context.Background(), "red")
	second := c.UploadLogo(context.Background(), "blue")
	assert.Greater(t, second.Generation(), first.Generation())

	require.NoError(t, wait(t, second))
	assert.Equal(t, blue, center(c))

	close(gate)
	assert.ErrorIs(t, wait(t, first), ErrLogoSuperseded)

	assert.Equal(t, blue, center(c))
	assert.Equal(t, "blue", c.Settings().LogoImageData)
}

func TestUploadLogo_FailureKeepsPreviousLogo(t *testing.T) {
	dec := &gatedDecoder{images: map[string]image.Image{"blue": solid(blue)}}
	c := NewController("client", WithRenderer(newSpy()), WithDecoder(dec))
	c.Update(context.Background(), withURL("https://example.com"))
	require.NoError(t, wait(t, c.UploadLogo(context.Background(), "blue")))
	c.View()

	err := wait(t, c.UploadLogo(context.Background(), "garbage"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLogoSuperseded)

	assert.Equal(t, blue, center(c))
	assert.Equal(t, "blue", c.Settings().LogoImageData)

	v := c.View()
	require.NotNil(t, v.Notice)
	assert.Equal(t, VariantError, v.Notice.Variant)
	assert.True(t, v.LogoVisible)
	assert.Nil(t, c.View().Notice)
}

func TestRestore_AppliesSettingsThenLogo(t *testing.T) {
	spy := newSpy()
	dec := &gatedDecoder{images: map[string]image.Image{"red": solid(red)}}
	c := NewController("client", WithRenderer(spy), WithDecoder(dec))

	saved := withURL("https://example.com")
	saved.Theme = design.ThemeLight
	saved.LogoImageData = "red"

	require.NoError(t, wait(t, c.Restore(context.Background(), saved)))

	v := c.View()
	assert.Equal(t, StateRendered, v.State)
	assert.True(t, v.LogoVisible)
	assert.Equal(t, design.ThemeLight, v.Theme.Theme)
	assert.Equal(t, red, center(c))
	assert.Equal(t, saved.Normalize(), c.Settings())
}

func TestRestore_WithoutLogoCompletesImmediately(t *testing.T) {
	c := NewController("client", WithRenderer(newSpy()))

	task := c.Restore(context.Background(), withURL(""))
	select {
	case <-task.Done():
	default:
		t.Fatal("task should be complete")
	}
	assert.NoError(t, wait(t, task))
	assert.Equal(t, StateEmpty, c.State())
}

func TestExport(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	c := NewController("client", WithRenderer(newSpy()), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := c.Export(ctx, export.FormatPNG)
	assert.ErrorIs(t, err, export.ErrNothingRendered)

	c.Update(ctx, withURL("https://example.com"))
	f, err := c.Export(ctx, export.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, "qr-code_1700000000000.png", f.Name)
	assert.NotEmpty(t, f.Data)

	preview, err := c.Preview()
	require.NoError(t, err)
	assert.Equal(t, f.Data, preview.Data)

	c.Update(ctx, withURL(" "))
	_, err = c.Export(ctx, export.FormatPNG)
	assert.ErrorIs(t, err, export.ErrNothingRendered)
	_, err = c.Preview()
	assert.ErrorIs(t, err, export.ErrNothingRendered)
}

func TestExport_IncludesLogo(t *testing.T) {
	dec := &gatedDecoder{images: map[string]image.Image{"red": solid(red)}}
	spy := newSpy()
	c := NewController("client", WithRenderer(spy), WithDecoder(dec))
	ctx := context.Background()
	c.Update(ctx, withURL("https://example.com"))
	require.NoError(t, wait(t, c.UploadLogo(ctx, "red")))
	before := spy.Surface().Snapshot()

	_, err := c.Export(ctx, export.FormatPNG)
	require.NoError(t, err)

	// re-rendering before export leaves the preview pixels unchanged
	assert.Equal(t, before.Pix, spy.Surface().RGBA().Pix)
	assert.Equal(t, red, center(c))
}

func TestUpdate_RenderFailureRaisesNotice(t *testing.T) {
	c := NewController("client", WithRenderer(failingRenderer{newSpy()}))

	v := c.Update(context.Background(), withURL("https://example.com"))

	assert.Equal(t, StateEmpty, v.State)
	require.NotNil(t, v.Notice)
	assert.Equal(t, VariantError, v.Notice.Variant)
}

func TestUpdate_SizeBelowModuleCountIsEmpty(t *testing.T) {
	c := NewController("client")
	s := withURL("https://example.com/" + strings.Repeat("a", 200))
	s.QRSize = 50

	v := c.Update(context.Background(), s)

	assert.Equal(t, StateEmpty, v.State)
	assert.False(t, v.SurfaceVisible)
	assert.False(t, v.DownloadEnabled)
	require.NotNil(t, v.Notice)
	assert.Equal(t, constant.NoticeSizeTooSmall, v.Notice.Description)

	_, err := c.Export(context.Background(), export.FormatPNG)
	assert.ErrorIs(t, err, export.ErrNothingRendered)

	s.QRSize = 400
	assert.Equal(t, StateRendered, c.Update(context.Background(), s).State)
}

type failingRenderer struct {
	*spyRenderer
}

func (failingRenderer) RenderOrUpdate(render.Options) error {
	return errors.New("data too long")
}
