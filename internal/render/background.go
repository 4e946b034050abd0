package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"scrapbook-go/internal/scrapbook"
)

// Pattern spacing in page units.
const (
	lineSpacing = 30
	gridSpacing = 20
	dotSpacing  = 20
	dotDiameter = 3
)

var (
	paperColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	// mid grey at 30% over white
	ruleColor = color.RGBA{R: 217, G: 217, B: 217, A: 0xFF}
	// mid grey at 40% over white
	dotColor = color.RGBA{R: 204, G: 204, B: 204, A: 0xFF}
)

// Background paints the paper for style on a w by h image. Pattern spacing
// is given in page units and multiplied by scale.
func Background(style scrapbook.PageStyle, w, h int, scale float64) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(paperColor), image.Point{}, draw.Src)

	switch style.Normalize() {
	case scrapbook.StyleLined:
		horizontalRules(dst, lineSpacing*scale, scale)
	case scrapbook.StyleGrid:
		horizontalRules(dst, gridSpacing*scale, scale)
		verticalRules(dst, gridSpacing*scale, scale)
	case scrapbook.StyleDotted:
		dots(dst, dotSpacing*scale, dotDiameter*scale/2)
	}
	return dst
}

func ruleThickness(scale float64) int {
	return max(1, int(math.Round(scale)))
}

func horizontalRules(dst *image.RGBA, step, scale float64) {
	if step < 1 {
		return
	}
	b := dst.Bounds()
	t := ruleThickness(scale)
	src := image.NewUniform(ruleColor)
	for y := step; int(y) < b.Max.Y; y += step {
		r := image.Rect(b.Min.X, int(y), b.Max.X, int(y)+t)
		draw.Draw(dst, r, src, image.Point{}, draw.Src)
	}
}

func verticalRules(dst *image.RGBA, step, scale float64) {
	if step < 1 {
		return
	}
	b := dst.Bounds()
	t := ruleThickness(scale)
	src := image.NewUniform(ruleColor)
	for x := step; int(x) < b.Max.X; x += step {
		r := image.Rect(int(x), b.Min.Y, int(x)+t, b.Max.Y)
		draw.Draw(dst, r, src, image.Point{}, draw.Src)
	}
}

func dots(dst *image.RGBA, step, radius float64) {
	if step < 1 || radius <= 0 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for y := step; y < float64(b.Max.Y); y += step {
		for x := step; x < float64(b.Max.X); x += step {
			disc(z, x, y, radius)
		}
	}
	z.Draw(dst, b, image.NewUniform(dotColor), image.Point{})
}

// disc adds a counter-clockwise polygon approximating a circle.
func disc(z *vector.Rasterizer, cx, cy, r float64) {
	const segments = 12
	z.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		z.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	z.ClosePath()
}
