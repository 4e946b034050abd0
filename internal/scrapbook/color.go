package scrapbook

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"unicode"
)

// Color is an opaque RGB colour. The body format stores it as "#RRGGBB";
// there is no alpha channel.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{R: 0xFF, G: 0xFF, B: 0xFF}
)

// Hex formats c as "#RRGGBB" with upper-case digits.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// RGBA converts c to an opaque image/color value.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// ParseColor reads a hex colour such as "#FF8800" or "ff8800".
// Leading and trailing non-alphanumeric characters are ignored. Anything that
// does not scan as hex yields black, never an error. A hex run too long for
// 64 bits yields white.
func ParseColor(s string) Color {
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	// Scan the longest hex prefix, like a lenient scanner would.
	end := 0
	for end < len(s) && isHexDigit(s[end]) {
		end++
	}
	if end == 0 {
		return Black
	}
	// Overlong runs saturate to all ones, which masks to white.
	v, err := strconv.ParseUint(s[:end], 16, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Black
	}
	return Color{
		R: uint8((v & 0xFF0000) >> 16),
		G: uint8((v & 0x00FF00) >> 8),
		B: uint8(v & 0x0000FF),
	}
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
