package render

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// glyphHeight is the line height of the built-in face in pixels. Font sizes
// are expressed relative to it.
const glyphHeight = 13

var face = basicfont.Face7x13

// textImage draws s in c on a transparent image at the face's native size.
// Lines are split on newlines and left aligned. It returns nil for text
// without visible width.
func textImage(s string, c color.Color) *image.RGBA {
	lines := strings.Split(s, "\n")

	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}
	if width == 0 {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, width, glyphHeight*len(lines)))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	ascent := face.Metrics().Ascent
	for i, line := range lines {
		d.Dot = fixed.Point26_6{X: 0, Y: ascent + fixed.I(i*glyphHeight)}
		d.DrawString(line)
	}
	return img
}

// wrapWords breaks s into lines of at most limit characters, splitting on
// spaces. A single word longer than limit gets a line of its own.
func wrapWords(s string, limit int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > limit {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
