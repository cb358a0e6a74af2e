// Package studio keeps the per-client design session: the current settings,
// the live QR render, the logo and what the page should show.
package studio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/compose"
	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/cristianadrielbraun/qrdesigner/internal/design"
	"github.com/cristianadrielbraun/qrdesigner/internal/export"
	appLogger "github.com/cristianadrielbraun/qrdesigner/internal/logger"
	"github.com/cristianadrielbraun/qrdesigner/internal/render"
)

// Renderer is the part of render.Adapter the controller drives.
type Renderer interface {
	RenderOrUpdate(opts render.Options) error
	Rendered() bool
	QuietZone() int
	Surface() *render.Surface
}

// Option configures a Controller.
type Option func(*Controller)

// WithRenderer replaces the default render.Adapter.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithDecoder replaces DataURLDecoder.
func WithDecoder(d LogoDecoder) Option {
	return func(c *Controller) { c.decoder = d }
}

// WithClock sets the time source used for export file names.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns one client's design session. All methods are safe for
// concurrent use.
type Controller struct {
	mu sync.Mutex

	clientID string
	renderer Renderer
	decoder  LogoDecoder
	now      func() time.Time

	settings design.Settings
	state    State
	revision uint64
	notice   *Notice

	logo         *compose.LogoAsset
	logoGen      uint64
	cancelDecode context.CancelFunc
}

func NewController(clientID string, opts ...Option) *Controller {
	c := &Controller{
		clientID: clientID,
		decoder:  DataURLDecoder,
		now:      time.Now,
		settings: design.Defaults(),
		state:    StateEmpty,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.renderer == nil {
		c.renderer = render.NewAdapter(render.NewSurface())
	}
	return c
}

// ClientID returns the client this session belongs to.
func (c *Controller) ClientID() string {
	return c.clientID
}

// State returns the current render state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update applies the QR-affecting controls of s and re-renders. Theme fields
// and the logo image are left untouched.
func (c *Controller) Update(ctx context.Context, s design.Settings) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.settings
	next.URL = s.URL
	next.QRSize = s.QRSize
	next.QuietZone = s.QuietZone
	next.CornerRoundingPercent = s.CornerRoundingPercent
	next.ForegroundColor = s.ForegroundColor
	next.BackgroundColor = s.BackgroundColor
	next.TransparentBackground = s.TransparentBackground
	next.LogoSizePercent = s.LogoSizePercent
	c.settings = next.Normalize()

	c.refresh(ctx)
	return c.view()
}

// UpdateTheme changes the page styling only. The QR is not redrawn.
func (c *Controller) UpdateTheme(theme design.Theme, accentColor string, backgroundOpacity float64) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.settings
	next.Theme = theme
	next.AccentColor = accentColor
	next.BackgroundOpacity = backgroundOpacity
	c.settings = next.Normalize()
	return c.view()
}

// UploadLogo starts decoding dataURL in the background. A newer upload
// cancels this one and its result is then discarded. On success the QR is
// redrawn with the new logo; on failure the previous logo stays.
func (c *Controller) UploadLogo(ctx context.Context, dataURL string) *LogoTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLogo(ctx, dataURL)
}

// Restore applies a saved design: settings and theme at once, then the saved
// logo, if any, through the same asynchronous path as an upload.
func (c *Controller) Restore(ctx context.Context, s design.Settings) *LogoTask {
	c.mu.Lock()
	defer c.mu.Unlock()

	s = s.Normalize()
	logoSrc := s.LogoImageData
	s.LogoImageData = ""
	c.settings = s
	c.logo = nil
	c.refresh(ctx)

	if logoSrc == "" {
		c.dropDecode()
		return completedLogoTask(c.logoGen, nil)
	}
	return c.startLogo(ctx, logoSrc)
}

// Settings returns the design as it would be saved, including the data URL
// of the active logo.
func (c *Controller) Settings() design.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// View returns what the page should show. A pending notice is delivered once.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view()
	c.notice = nil
	return v
}

// Preview encodes the current surface as PNG.
func (c *Controller) Preview() (export.File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRendered || !c.renderer.Rendered() {
		return export.File{}, export.ErrNothingRendered
	}
	return export.Encode(c.renderer.Surface(), export.FormatPNG, c.now(), nil)
}

// Export redraws the QR and logo and encodes the result for download.
func (c *Controller) Export(ctx context.Context, format export.Format) (export.File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRendered || !c.renderer.Rendered() {
		return export.File{}, export.ErrNothingRendered
	}

	c.refresh(ctx)
	if c.state != StateRendered {
		return export.File{}, export.ErrNothingRendered
	}

	file, err := export.Encode(c.renderer.Surface(), format, c.now(), c.settings.RenderBackground())
	if err != nil {
		appLogger.CtxError(ctx, constant.MsgExportFailed, appLogger.LoggerInfo{
			ContextFunction: constant.CtxStudio,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeExport,
				Message: err.Error(),
				Type:    constant.ErrTypeStudio,
			},
			Data: map[string]interface{}{
				constant.DataClientID: c.clientID,
				constant.DataFormat:   string(format),
			},
		})
		return export.File{}, err
	}

	appLogger.CtxInfo(ctx, constant.MsgExported, appLogger.LoggerInfo{
		ContextFunction: constant.CtxStudio,
		Data: map[string]interface{}{
			constant.DataClientID: c.clientID,
			constant.DataFilename: file.Name,
			constant.DataBytes:    len(file.Data),
		},
	})
	return file, nil
}

// Close cancels any logo decode in flight.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropDecode()
}

// dropDecode cancels the running decode and makes its result stale.
func (c *Controller) dropDecode() {
	if c.cancelDecode != nil {
		c.cancelDecode()
		c.cancelDecode = nil
	}
	c.logoGen++
}

func (c *Controller) snapshot() design.Settings {
	s := c.settings
	s.LogoImageData = ""
	if c.logo != nil {
		s.LogoImageData = c.logo.Source
	}
	return s
}

// refresh recomputes the state and, when rendered, draws the QR and logo.
// Callers hold c.mu.
func (c *Controller) refresh(ctx context.Context) {
	c.state = Next(c.settings.URL)
	if c.state == StateEmpty {
		return
	}

	err := c.renderer.RenderOrUpdate(render.Options{
		Value:      strings.TrimSpace(c.settings.URL),
		Size:       c.settings.QRSize,
		Foreground: c.settings.Foreground(),
		Background: c.settings.RenderBackground(),
		QuietZone:  c.settings.QuietZone,
	})
	if err != nil {
		appLogger.CtxError(ctx, constant.MsgRenderFailed, appLogger.LoggerInfo{
			ContextFunction: constant.CtxStudio,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeRender,
				Message: err.Error(),
				Type:    constant.ErrTypeStudio,
			},
			Data: map[string]interface{}{
				constant.DataClientID: c.clientID,
				constant.DataSize:     c.settings.QRSize,
			},
		})
		c.state = StateEmpty
		description := constant.NoticeRenderFailed
		if errors.Is(err, render.ErrSizeTooSmall) {
			description = constant.NoticeSizeTooSmall
		}
		c.notice = NewNotice(VariantError, constant.NoticeTitleError, description)
		return
	}

	compose.Composite(c.renderer.Surface(), c.renderer.QuietZone(), c.settings.QRSize, c.logo, c.settings.LogoSizePercent)
	c.revision++
}

// startLogo begins a decode for a new generation. Callers hold c.mu.
func (c *Controller) startLogo(ctx context.Context, dataURL string) *LogoTask {
	if c.cancelDecode != nil {
		c.cancelDecode()
	}
	c.logoGen++
	task := newLogoTask(c.logoGen)

	decodeCtx, cancel := context.WithCancel(ctx)
	c.cancelDecode = cancel

	go func() {
		img, err := c.decoder.Decode(decodeCtx, dataURL)
		c.finishLogo(ctx, task, dataURL, img, err)
	}()
	return task
}

func (c *Controller) finishLogo(ctx context.Context, task *LogoTask, dataURL string, img image.Image, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if task.generation != c.logoGen {
		appLogger.CtxDebug(ctx, constant.MsgLogoStale, appLogger.LoggerInfo{
			ContextFunction: constant.CtxStudio,
			Data: map[string]interface{}{
				constant.DataClientID:   c.clientID,
				constant.DataGeneration: task.generation,
			},
		})
		task.finish(ErrLogoSuperseded)
		return
	}

	if c.cancelDecode != nil {
		c.cancelDecode()
		c.cancelDecode = nil
	}

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			appLogger.CtxInfo(ctx, constant.MsgLogoCanceled, appLogger.LoggerInfo{
				ContextFunction: constant.CtxStudio,
				Data: map[string]interface{}{
					constant.DataClientID:   c.clientID,
					constant.DataGeneration: task.generation,
				},
			})
			task.finish(err)
			return
		}

		appLogger.CtxWarn(ctx, constant.MsgLogoDecodeFailed, appLogger.LoggerInfo{
			ContextFunction: constant.CtxStudio,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeLogoDecode,
				Message: err.Error(),
				Type:    constant.ErrTypeStudio,
			},
			Data: map[string]interface{}{
				constant.DataClientID:   c.clientID,
				constant.DataGeneration: task.generation,
			},
		})
		c.notice = NewNotice(VariantError, constant.NoticeTitleError, constant.NoticeLogoInvalid)
		task.finish(fmt.Errorf("decode logo: %w", err))
		return
	}

	c.logo = compose.NewLogoAsset(img, dataURL, task.generation)
	c.refresh(ctx)

	appLogger.CtxInfo(ctx, constant.MsgLogoApplied, appLogger.LoggerInfo{
		ContextFunction: constant.CtxStudio,
		Data: map[string]interface{}{
			constant.DataClientID:   c.clientID,
			constant.DataGeneration: task.generation,
			constant.DataState:      c.state.String(),
		},
	})
	task.finish(nil)
}
