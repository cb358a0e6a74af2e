package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/cristianadrielbraun/qrdesigner/internal/design"
	"github.com/cristianadrielbraun/qrdesigner/internal/export"
	appLogger "github.com/cristianadrielbraun/qrdesigner/internal/logger"
	"github.com/cristianadrielbraun/qrdesigner/internal/render"
	"github.com/cristianadrielbraun/qrdesigner/internal/studio"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	"github.com/yeqown/go-qrcode/writer/standard/shapes"
)

// Module width handed to the standard writer before the image is scaled to
// the requested size.
const quickModuleWidth = 16

// normalizeHTTPURL validates and normalizes a URL string for QR generation.
// It ensures an http/https scheme, a non-empty hostname, and returns a cleaned absolute URL.
func normalizeHTTPURL(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("URL parameter is required")
	}
	// If missing scheme, default to https
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	if len(v) > 4096 {
		return "", fmt.Errorf("URL is too long")
	}
	u, err := url.ParseRequestURI(v)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("only http and https URLs are supported")
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL must include a valid host")
	}
	return u.String(), nil
}

// quickQuery reads the design from query parameters, defaulting every
// missing value the same way the designer form does.
func quickQuery(c *gin.Context) design.Settings {
	s := design.Defaults()
	s.QRSize = intQuery(c, "size", s.QRSize)
	s.QuietZone = intQuery(c, "quietZone", s.QuietZone)
	if fg := c.Query("fg"); fg != "" {
		s.ForegroundColor = fg
	}
	if bg := c.Query("bg"); bg != "" {
		if strings.EqualFold(bg, "transparent") {
			s.TransparentBackground = true
		} else {
			s.BackgroundColor = bg
		}
	}
	if t, err := strconv.ParseBool(c.Query("transparent")); err == nil {
		s.TransparentBackground = t
	}
	return s.Normalize()
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return def
	}
	return v
}

// QuickQR renders a QR for the url query parameter without touching the
// client's session. Shapes other than rectangle come from the standard writer.
func (h *Handler) QuickQR(c *gin.Context) {
	normalizedURL, err := normalizeHTTPURL(c.Query("url"))
	if err != nil {
		respondNotice(c, http.StatusBadRequest, studio.VariantError, err.Error())
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondNotice(c, http.StatusBadRequest, studio.VariantError, err.Error())
		return
	}

	s := quickQuery(c)
	qrShape := c.DefaultQuery("qrShape", "rectangle")
	ctx := c.Request.Context()

	qrc, err := qrcode.NewWith(normalizedURL, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest))
	if err != nil {
		h.quickFailed(c, err, s, qrShape)
		return
	}

	img, err := h.writeQuickQR(qrc, s, qrShape)
	if errors.Is(err, render.ErrSizeTooSmall) {
		respondNotice(c, http.StatusBadRequest, studio.VariantError, constant.NoticeSizeTooSmall)
		return
	}
	if err != nil {
		h.quickFailed(c, err, s, qrShape)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("X-QR-Debug", fmt.Sprintf("format=%s;size=%d;shape=%s", format, s.QRSize, qrShape))

	switch format {
	case export.FormatJPG:
		bg := color.RGBA{255, 255, 255, 255}
		if b := s.RenderBackground(); b != nil {
			bg = *b
		}
		flat := imaging.Overlay(imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), bg), img, image.Pt(0, 0), 1.0)
		c.Header("Content-Type", "image/jpeg")
		err = imaging.Encode(c.Writer, flat, imaging.JPEG, imaging.JPEGQuality(92))
	default:
		c.Header("Content-Type", "image/png")
		err = imaging.Encode(c.Writer, img, imaging.PNG)
	}
	if err != nil {
		h.quickFailed(c, err, s, qrShape)
		return
	}

	appLogger.CtxDebug(ctx, constant.MsgQuickRenderServed, appLogger.LoggerInfo{
		ContextFunction: constant.CtxQR,
		Data: map[string]interface{}{
			constant.DataFormat: string(format),
			constant.DataSize:   s.QRSize,
			constant.DataShape:  qrShape,
		},
	})
}

func (h *Handler) quickFailed(c *gin.Context, err error, s design.Settings, qrShape string) {
	appLogger.CtxError(c.Request.Context(), constant.MsgQuickRenderFailed, appLogger.LoggerInfo{
		ContextFunction: constant.CtxQR,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeRender,
			Message: err.Error(),
			Type:    constant.ErrTypeStudio,
		},
		Data: map[string]interface{}{
			constant.DataSize:  s.QRSize,
			constant.DataShape: qrShape,
		},
	})
	if !c.Writer.Written() {
		respondNotice(c, http.StatusInternalServerError, studio.VariantError, constant.NoticeRenderFailed)
	}
}

// writeQuickQR draws qrc with the standard writer into a temp file, then
// scales it to s.QRSize and pads it with the quiet zone.
func (h *Handler) writeQuickQR(qrc *qrcode.QRCode, s design.Settings, qrShape string) (image.Image, error) {
	tmpFile := filepath.Join(os.TempDir(), generateUniqueFilename("qr", ".png"))
	defer os.Remove(tmpFile)

	options := []standard.ImageOption{
		standard.WithQRWidth(quickModuleWidth),
		standard.WithBorderWidth(0),
		standard.WithFgColor(s.Foreground()),
	}

	bg := s.RenderBackground()
	if bg == nil {
		options = append(options, standard.WithBgTransparent(), standard.WithBuiltinImageEncoder(standard.PNG_FORMAT))
	} else {
		options = append(options, standard.WithBgColor(*bg), standard.WithBuiltinImageEncoder(standard.PNG_FORMAT))
	}

	switch qrShape {
	case "circle":
		options = append(options, standard.WithCircleShape())
	case "liquid":
		options = append(options, standard.WithCustomShape(&customShape{drawFunc: shapes.LiquidBlock()}))
	case "chain":
		options = append(options, standard.WithCustomShape(&customShape{drawFunc: shapes.ChainBlock()}))
	case "hstripe":
		options = append(options, standard.WithCustomShape(&customShape{drawFunc: shapes.HStripeBlock(0.85)}))
	case "vstripe":
		options = append(options, standard.WithCustomShape(&customShape{drawFunc: shapes.VStripeBlock(0.85)}))
	default:
		// rectangle
	}

	writer, err := standard.New(tmpFile, options...)
	if err != nil {
		return nil, fmt.Errorf("create qr writer: %w", err)
	}
	if err := qrc.Save(writer); err != nil {
		return nil, fmt.Errorf("write qr image: %w", err)
	}

	img, err := imaging.Open(tmpFile)
	if err != nil {
		return nil, fmt.Errorf("read qr image: %w", err)
	}
	if modules := img.Bounds().Dx() / quickModuleWidth; s.QRSize < modules {
		return nil, fmt.Errorf("%w: %d px for %d modules", render.ErrSizeTooSmall, s.QRSize, modules)
	}
	if bg == nil {
		img = cleanupAntiAliasing(img, s.Foreground())
	}

	// nearest neighbour keeps module edges hard
	scaled := imaging.Resize(img, s.QRSize, s.QRSize, imaging.NearestNeighbor)
	if s.QuietZone == 0 {
		return scaled, nil
	}

	padColor := color.RGBA{}
	if bg != nil {
		padColor = *bg
	}
	side := s.QRSize + 2*s.QuietZone
	return imaging.PasteCenter(imaging.New(side, side, padColor), scaled), nil
}

// generateUniqueFilename names a temp file. Without random bytes the
// timestamp alone is used.
func generateUniqueFilename(prefix, extension string) string {
	timestamp := time.Now().UnixNano()
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("%s_%d%s", prefix, timestamp, extension)
	}
	return fmt.Sprintf("%s_%d_%x%s", prefix, timestamp, randomBytes, extension)
}

// customShape implements the IShape interface by wrapping drawing functions from the shapes package
type customShape struct {
	drawFunc func(ctx *standard.DrawContext)
}

// Draw implements the IShape interface
func (cs *customShape) Draw(ctx *standard.DrawContext) {
	cs.drawFunc(ctx)
}

// DrawFinder implements the IShape interface for finder patterns
func (cs *customShape) DrawFinder(ctx *standard.DrawContext) {
	cs.drawFunc(ctx)
}

// cleanupAntiAliasing clears the semi-transparent fringe the writer leaves
// around modules on a transparent background.
func cleanupAntiAliasing(img image.Image, fgColor color.RGBA) *image.NRGBA {
	clean := imaging.Clone(img)
	for i := 0; i < len(clean.Pix); i += 4 {
		r, g, b, a := clean.Pix[i], clean.Pix[i+1], clean.Pix[i+2], clean.Pix[i+3]
		if isAntiAliasingArtifact(r, g, b, a, fgColor) {
			clean.Pix[i], clean.Pix[i+1], clean.Pix[i+2], clean.Pix[i+3] = 0, 0, 0, 0
		}
	}
	return clean
}

// isAntiAliasingArtifact detects semi-transparent white/gray pixels that are anti-aliasing artifacts
func isAntiAliasingArtifact(r, g, b, a uint8, fgColor color.RGBA) bool {
	if a == 0 {
		return false
	}
	// real module pixel
	if a == 255 && r == fgColor.R && g == fgColor.G && b == fgColor.B {
		return false
	}
	if a < 255 {
		return true
	}
	return r > 200 && g > 200 && b > 200
}
