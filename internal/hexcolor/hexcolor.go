// Package hexcolor normalizes the display colors typed into the stat sheet.
package hexcolor

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentinel is returned for anything that is not a 6-digit hex color. It is loud on
// purpose so bad cells stand out in the output.
const Sentinel = "#FF00BF"

var hexRe = regexp.MustCompile(`^#?([0-9A-Fa-f]{6})$`)

// Sanitize returns v as "#RRGGBB" with uppercase digits, or Sentinel.
func Sanitize(v any) string {
	s, ok := v.(string)
	if !ok {
		return Sentinel
	}
	m := hexRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Sentinel
	}
	return "#" + strings.ToUpper(m[1])
}

// RGB splits a color into its components. Input that Sanitize would reject decodes
// as Sentinel.
func RGB(s string) (r, g, b uint8) {
	c := Sanitize(s)
	n, _ := strconv.ParseUint(c[1:], 16, 32)
	return uint8(n >> 16), uint8(n >> 8), uint8(n)
}
