package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cristianadrielbraun/qrdesigner/internal/compose"
	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/cristianadrielbraun/qrdesigner/internal/design"
	"github.com/cristianadrielbraun/qrdesigner/internal/export"
	"github.com/cristianadrielbraun/qrdesigner/internal/settings"
	"github.com/cristianadrielbraun/qrdesigner/internal/studio"
	"github.com/cristianadrielbraun/qrdesigner/web/pages"
	"github.com/gin-gonic/gin"
)

// designForm carries the controls that change the QR itself. Field names
// match the form control ids.
type designForm struct {
	URL         string `form:"urlInput" binding:"max=4096"`
	QRSize      int    `form:"qrSize"`
	QuietZone   int    `form:"qrQuietZone"`
	Rounding    int    `form:"qrPixelRounding"`
	Foreground  string `form:"qrColor1"`
	Background  string `form:"qrBgColor"`
	Transparent bool   `form:"qrTransparentBg"`
	LogoSize    int    `form:"logoSize"`
}

func (f designForm) settings() design.Settings {
	s := design.Defaults()
	s.URL = f.URL
	s.QRSize = f.QRSize
	s.QuietZone = f.QuietZone
	s.CornerRoundingPercent = f.Rounding
	s.ForegroundColor = f.Foreground
	s.BackgroundColor = f.Background
	s.TransparentBackground = f.Transparent
	s.LogoSizePercent = f.LogoSize
	return s
}

// themeForm carries the page styling controls.
type themeForm struct {
	Theme   string   `form:"themeSelect"`
	Accent  string   `form:"accentColor"`
	Opacity *float64 `form:"bgOpacity"`
}

// Home renders the designer page. Every page load starts again from the
// client's saved design.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	ctrl, created := h.registry.Acquire(ctx, h.clientID(c))
	if !created {
		restoreSaved(ctx, ctrl, h.store, h.restoreTimeout)
	}
	view := ctrl.View()
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pages.HomePage(view).Render(c.Request.Context(), c.Writer); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

// View returns the current view state.
func (h *Handler) View(c *gin.Context) {
	ctrl, _ := h.controller(c)
	c.JSON(http.StatusOK, ctrl.View())
}

// Design applies the QR controls and re-renders.
func (h *Handler) Design(c *gin.Context) {
	var form designForm
	if err := c.ShouldBind(&form); err != nil {
		respondNotice(c, http.StatusBadRequest, studio.VariantError, constant.NoticeInvalidForm)
		return
	}
	ctrl, _ := h.controller(c)
	ctrl.Update(c.Request.Context(), form.settings())
	c.JSON(http.StatusOK, ctrl.View())
}

// Theme applies theme, accent color and panel opacity.
func (h *Handler) Theme(c *gin.Context) {
	var form themeForm
	if err := c.ShouldBind(&form); err != nil {
		respondNotice(c, http.StatusBadRequest, studio.VariantError, constant.NoticeInvalidForm)
		return
	}
	ctrl, _ := h.controller(c)
	current := ctrl.Settings()

	theme := current.Theme
	if form.Theme != "" {
		theme = design.ParseTheme(form.Theme)
	}
	accent := current.AccentColor
	if form.Accent != "" {
		accent = form.Accent
	}
	opacity := current.BackgroundOpacity
	if form.Opacity != nil {
		opacity = *form.Opacity
	}

	ctrl.UpdateTheme(theme, accent, opacity)
	c.JSON(http.StatusOK, ctrl.View())
}

// Logo accepts a multipart image upload and waits for it to be applied.
func (h *Handler) Logo(c *gin.Context) {
	header, err := c.FormFile("logo")
	if err != nil {
		respondNotice(c, http.StatusBadRequest, studio.VariantWarning, constant.NoticeLogoMissing)
		return
	}
	if h.maxLogoBytes > 0 && header.Size > h.maxLogoBytes {
		respondNotice(c, http.StatusRequestEntityTooLarge, studio.VariantError, constant.NoticeLogoTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondNotice(c, http.StatusBadRequest, studio.VariantError, constant.NoticeLogoInvalid)
		return
	}
	defer file.Close()

	reader := io.Reader(file)
	if h.maxLogoBytes > 0 {
		reader = io.LimitReader(file, h.maxLogoBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil || len(data) == 0 {
		respondNotice(c, http.StatusBadRequest, studio.VariantError, constant.NoticeLogoInvalid)
		return
	}
	if h.maxLogoBytes > 0 && int64(len(data)) > h.maxLogoBytes {
		respondNotice(c, http.StatusRequestEntityTooLarge, studio.VariantError, constant.NoticeLogoTooLarge)
		return
	}

	ctx := c.Request.Context()
	ctrl, _ := h.controller(c)
	task := ctrl.UploadLogo(ctx, compose.EncodeDataURL(data, header.Header.Get("Content-Type")))

	err = task.Wait(ctx)
	switch {
	case err == nil, errors.Is(err, studio.ErrLogoSuperseded):
		c.JSON(http.StatusOK, ctrl.View())
	case ctx.Err() != nil:
		// client went away
		c.Status(http.StatusRequestTimeout)
	default:
		view := ctrl.View()
		if view.Notice != nil {
			c.JSON(http.StatusUnprocessableEntity, view.Notice)
			return
		}
		respondNotice(c, http.StatusUnprocessableEntity, studio.VariantError, constant.NoticeLogoInvalid)
	}
}

// SaveSettings persists the client's current design.
func (h *Handler) SaveSettings(c *gin.Context) {
	ctrl, id := h.controller(c)
	err := h.store.Save(c.Request.Context(), id, ctrl.Settings())
	switch {
	case err == nil:
		respondNotice(c, http.StatusOK, studio.VariantSuccess, constant.NoticeSaved)
	case errors.Is(err, settings.ErrQuotaExceeded):
		respondNotice(c, http.StatusRequestEntityTooLarge, studio.VariantWarning, constant.NoticeQuotaExceeded)
	default:
		respondNotice(c, http.StatusInternalServerError, studio.VariantError, constant.NoticeSaveFailed)
	}
}

// Preview streams the current surface as PNG.
func (h *Handler) Preview(c *gin.Context) {
	ctrl, _ := h.controller(c)
	file, err := ctrl.Preview()
	if errors.Is(err, export.ErrNothingRendered) {
		respondNotice(c, http.StatusConflict, studio.VariantWarning, constant.NoticeNothingRendered)
		return
	}
	if err != nil {
		respondNotice(c, http.StatusInternalServerError, studio.VariantError, constant.NoticeExportFailed)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Export sends the current QR as a download.
func (h *Handler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondNotice(c, http.StatusBadRequest, studio.VariantError, err.Error())
		return
	}

	ctrl, _ := h.controller(c)
	file, err := ctrl.Export(c.Request.Context(), format)
	if errors.Is(err, export.ErrNothingRendered) {
		respondNotice(c, http.StatusConflict, studio.VariantWarning, constant.NoticeNothingRendered)
		return
	}
	if err != nil {
		respondNotice(c, http.StatusInternalServerError, studio.VariantError, constant.NoticeExportFailed)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
