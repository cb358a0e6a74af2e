package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/cristianadrielbraun/qrdesigner/internal/design"
	"github.com/cristianadrielbraun/qrdesigner/internal/studio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, v studio.View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, HomePage(v).Render(context.Background(), &buf))
	return buf.String()
}

func TestHomePage_EmptyState(t *testing.T) {
	html := render(t, studio.NewController("c").View())

	for _, id := range []string{"urlInput", "qrSize", "qrQuietZone", "qrPixelRounding", "qrColor1",
		"qrBgColor", "qrTransparentBg", "logoSize", "themeSelect", "accentColor", "bgOpacity",
		"logoUpload", "generateBtn", "downloadBtn", "saveSettingsBtn", "qrCanvas", "logoContainer"} {
		assert.Contains(t, html, `id="`+id+`"`)
	}
	assert.NotContains(t, html, "/api/preview.png")
	assert.Contains(t, html, "disabled")
	assert.Contains(t, html, "--accent-color: #00ffff")
	assert.Contains(t, html, "dark-theme")
}

func TestHomePage_RenderedState(t *testing.T) {
	c := studio.NewController("c")
	s := design.Defaults()
	s.URL = "https://example.com"
	s.CornerRoundingPercent = 12
	c.UpdateTheme(design.ThemeLight, "#ff00ff", 0.5)
	v := c.Update(context.Background(), s)

	html := render(t, v)
	assert.Contains(t, html, `src="/api/preview.png?rev=1"`)
	assert.Contains(t, html, "border-radius: 12%")
	assert.Contains(t, html, `value="https://example.com"`)
	assert.Contains(t, html, "light-theme")
	assert.Contains(t, html, "0 0 10px #ff00ff, 0 0 20px #ff00ff inset")
	assert.Contains(t, html, `<option value="light" selected>`)
	assert.NotContains(t, html, `id="downloadBtn" type="button" class="hidden"`)
}

func TestHomePage_EscapesValues(t *testing.T) {
	v := studio.NewController("c").View()
	v.Settings.URL = `"><script>alert(1)</script>`
	v.Settings.TransparentBackground = true

	html := render(t, v)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&#34;&gt;&lt;script&gt;")
	assert.Contains(t, html, `type="checkbox" checked>`)
}

func TestHomePage_OnlyImageDataURLsAsLogo(t *testing.T) {
	v := studio.NewController("c").View()
	v.LogoVisible = true
	v.LogoSizePx = 50

	v.LogoSrc = "javascript:alert(1)"
	html := render(t, v)
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "display: block; width: 50px; height: 50px;")

	v.LogoSrc = "data:image/png;base64,iVBORw0KGgo="
	assert.Contains(t, render(t, v), `src="data:image/png;base64,iVBORw0KGgo="`)
}
