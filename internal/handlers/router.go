package handlers

import (
	"net/http"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/cristianadrielbraun/qrdesigner/web/static"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())

	// Static assets, embedded so the binary runs from any directory
	r.StaticFS(constant.RouteStatic, http.FS(static.Files))

	r.GET(constant.RouteHome, h.Home)
	r.GET(constant.RouteHealth, h.Health)
	r.GET(constant.RouteSitemap, h.SitemapXML)

	// API routes
	api := r.Group(constant.RouteAPIGroup)
	{
		api.GET(constant.RouteView, h.View)
		api.POST(constant.RouteDesign, h.Design)
		api.POST(constant.RouteTheme, h.Theme)
		api.POST(constant.RouteLogo, h.Logo)
		api.POST(constant.RouteSettings, h.SaveSettings)
		api.GET(constant.RoutePreview, h.Preview)
		api.GET(constant.RouteExport, h.Export)
		api.GET(constant.RouteQuickQR, h.QuickQR)
	}
	return r
}
