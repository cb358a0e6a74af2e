// Package static holds the page script and stylesheet.
package static

import "embed"

//go:embed app.js app.css
var Files embed.FS
