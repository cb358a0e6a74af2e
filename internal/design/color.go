package design

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rrggbb", "#rgb" or "transparent". Anything else
// yields defaultColor.
func ParseHexColor(param string, defaultColor color.RGBA) color.RGBA {
	c, ok := parseHex(param)
	if !ok {
		return defaultColor
	}
	return c
}

// ValidHexColor reports whether s parses as an opaque hex color.
func ValidHexColor(s string) bool {
	c, ok := parseHex(s)
	return ok && c.A == 255
}

// FormatHexColor renders c as lowercase "#rrggbb", ignoring alpha.
func FormatHexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func parseHex(param string) (color.RGBA, bool) {
	param = strings.TrimSpace(param)
	if param == "" {
		return color.RGBA{}, false
	}
	if strings.EqualFold(param, "transparent") {
		return color.RGBA{0, 0, 0, 0}, true
	}

	param = strings.TrimPrefix(param, "#")
	if len(param) == 3 {
		param = string([]byte{param[0], param[0], param[1], param[1], param[2], param[2]})
	}
	if len(param) != 6 {
		return color.RGBA{}, false
	}

	r, err1 := strconv.ParseUint(param[0:2], 16, 8)
	g, err2 := strconv.ParseUint(param[2:4], 16, 8)
	b, err3 := strconv.ParseUint(param[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}, true
}
