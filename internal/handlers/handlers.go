package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/cristianadrielbraun/qrdesigner/internal/design"
	appLogger "github.com/cristianadrielbraun/qrdesigner/internal/logger"
	"github.com/cristianadrielbraun/qrdesigner/internal/studio"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// clientCookieMaxAge keeps the client id for a year.
const clientCookieMaxAge = 365 * 24 * 60 * 60

// DefaultRestoreTimeout bounds how long a page load waits for the saved logo.
const DefaultRestoreTimeout = 5 * time.Second

// SettingsStore loads and persists a client's design.
type SettingsStore interface {
	Load(ctx context.Context, clientID string) design.Settings
	Save(ctx context.Context, clientID string, settings design.Settings) error
}

// Options tune the HTTP layer.
type Options struct {
	CookieName     string
	MaxLogoBytes   int64
	BaseURL        string
	RestoreTimeout time.Duration
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	registry       *studio.Registry
	store          SettingsStore
	cookieName     string
	maxLogoBytes   int64
	baseURL        string
	restoreTimeout time.Duration
}

// New returns a new Handler instance.
func New(registry *studio.Registry, store SettingsStore, opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = constant.ClientCookieName
	}
	if opts.RestoreTimeout <= 0 {
		opts.RestoreTimeout = DefaultRestoreTimeout
	}
	return &Handler{
		registry:       registry,
		store:          store,
		cookieName:     opts.CookieName,
		maxLogoBytes:   opts.MaxLogoBytes,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		restoreTimeout: opts.RestoreTimeout,
	}
}

// SessionFactory builds controllers that start from the client's saved design.
func SessionFactory(store SettingsStore, timeout time.Duration) studio.Factory {
	return func(ctx context.Context, clientID string) *studio.Controller {
		ctrl := studio.NewController(clientID)
		restoreSaved(ctx, ctrl, store, timeout)
		return ctrl
	}
}

// restoreSaved applies the stored design to ctrl, waiting at most timeout
// for the saved logo. Unsaved edits are discarded.
func restoreSaved(ctx context.Context, ctrl *studio.Controller, store SettingsStore, timeout time.Duration) {
	clientID := ctrl.ClientID()
	// the decode outlives the request that started it
	task := ctrl.Restore(context.WithoutCancel(ctx), store.Load(ctx, clientID))

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := task.Wait(waitCtx); err != nil {
		appLogger.CtxWarn(ctx, constant.MsgLogoRestoreFailed, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRegistry,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeLogoRestore,
				Message: err.Error(),
				Type:    constant.ErrTypeStudio,
			},
			Data: map[string]interface{}{
				constant.DataClientID: clientID,
			},
		})
	}
}

// clientID returns the id from the client cookie, issuing a new one when
// the cookie is missing or malformed.
func (h *Handler) clientID(c *gin.Context) string {
	if id, err := c.Cookie(h.cookieName); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, id, clientCookieMaxAge, "/", "", c.Request.TLS != nil, true)
	return id
}

func (h *Handler) controller(c *gin.Context) (*studio.Controller, string) {
	id := h.clientID(c)
	return h.registry.Get(c.Request.Context(), id), id
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SitemapXML serves a minimal sitemap for the site.
func (h *Handler) SitemapXML(c *gin.Context) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	base := h.baseURL
	if base == "" {
		scheme := "https"
		host := c.Request.Host
		if xf := c.Request.Header.Get("X-Forwarded-Proto"); xf != "" {
			scheme = xf
		} else if c.Request.TLS == nil && (strings.HasPrefix(host, "localhost:") || strings.HasPrefix(host, "127.0.0.1:")) {
			scheme = "http"
		}
		base = scheme + "://" + host
	}
	xml := "" +
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n" +
		"  <url>\n" +
		"    <loc>" + base + "/" + "</loc>\n" +
		"    <changefreq>weekly</changefreq>\n" +
		"    <priority>1.0</priority>\n" +
		"  </url>\n" +
		"</urlset>\n"
	c.String(http.StatusOK, xml)
}
