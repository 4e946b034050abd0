package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// StickerSize is the edge length of a sticker image in pixels.
const StickerSize = 120

var ErrUnknownSticker = errors.New("unknown sticker")

type sticker struct {
	name  string
	color color.RGBA
	shape func(z *vector.Rasterizer, size float64)
}

// Sticker colours.
var (
	inkBlack  = color.RGBA{A: 0xFF}
	inkRed    = color.RGBA{R: 0xFF, G: 0x3B, B: 0x30, A: 0xFF}
	inkBlue   = color.RGBA{G: 0x7A, B: 0xFF, A: 0xFF}
	inkGreen  = color.RGBA{R: 0x34, G: 0xC7, B: 0x59, A: 0xFF}
	inkOrange = color.RGBA{R: 0xFF, G: 0x95, A: 0xFF}
	inkPurple = color.RGBA{R: 0xAF, G: 0x52, B: 0xDE, A: 0xFF}
	inkBrown  = color.RGBA{R: 0xA2, G: 0x84, B: 0x5E, A: 0xFF}
)

var stickers = []sticker{
	{name: "sticker1", color: inkOrange, shape: func(z *vector.Rasterizer, s float64) { star(z, s/2, s/2, s*0.48, s*0.2, 5) }},
	{name: "sticker2", color: inkRed, shape: heart},
	{name: "sticker3", color: inkBlue, shape: func(z *vector.Rasterizer, s float64) { polygon(z, s/2, s/2, s*0.45, 48, 0) }},
	{name: "sticker4", color: inkPurple, shape: func(z *vector.Rasterizer, s float64) { polygon(z, s/2, s/2, s*0.48, 4, 0) }},
	{name: "sticker5", color: inkGreen, shape: func(z *vector.Rasterizer, s float64) { polygon(z, s/2, s*0.55, s*0.48, 3, -math.Pi/2) }},
	{name: "sticker6", color: inkBrown, shape: func(z *vector.Rasterizer, s float64) { polygon(z, s/2, s/2, s*0.46, 6, 0) }},
	{name: "sticker7", color: inkRed, shape: func(z *vector.Rasterizer, s float64) { star(z, s/2, s/2, s*0.48, s*0.32, 8) }},
	{name: "sticker8", color: inkBlack, shape: ring},
	{name: "sticker9", color: inkBlue, shape: func(z *vector.Rasterizer, s float64) { polygon(z, s/2, s/2, s*0.5, 4, math.Pi/4) }},
}

// StickerNames lists the available stickers in display order.
func StickerNames() []string {
	names := make([]string, len(stickers))
	for i, s := range stickers {
		names[i] = s.name
	}
	return names
}

// Sticker returns the named sticker as PNG bytes on a transparent
// background.
func Sticker(name string) ([]byte, error) {
	for _, s := range stickers {
		if s.name == name {
			return EncodePNG(s.image())
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSticker, name)
}

func (s sticker) image() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, StickerSize, StickerSize))
	z := vector.NewRasterizer(StickerSize, StickerSize)
	s.shape(z, StickerSize)
	z.Draw(dst, dst.Bounds(), image.NewUniform(s.color), image.Point{})
	return dst
}

// polygon adds a regular n-gon of circumradius r, first vertex at angle
// rot.
func polygon(z *vector.Rasterizer, cx, cy, r float64, n int, rot float64) {
	for i := 0; i < n; i++ {
		a := rot + 2*math.Pi*float64(i)/float64(n)
		x, y := float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
}

// star alternates between the outer and inner radius, first point up.
func star(z *vector.Rasterizer, cx, cy, outer, inner float64, points int) {
	for i := 0; i < 2*points; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + math.Pi*float64(i)/float64(points)
		x, y := float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
}

func heart(z *vector.Rasterizer, s float64) {
	p := func(v float64) float32 { return float32(v * s / 100) }
	z.MoveTo(p(50), p(30))
	z.CubeTo(p(50), p(25), p(45), p(15), p(30), p(15))
	z.CubeTo(p(10), p(15), p(8), p(38), p(8), p(40))
	z.CubeTo(p(8), p(60), p(30), p(78), p(50), p(95))
	z.CubeTo(p(70), p(78), p(92), p(60), p(92), p(40))
	z.CubeTo(p(92), p(38), p(90), p(15), p(70), p(15))
	z.CubeTo(p(55), p(15), p(50), p(25), p(50), p(30))
	z.ClosePath()
}

// ring is a disc with a hole; the inner outline winds the other way.
func ring(z *vector.Rasterizer, s float64) {
	const segments = 48
	c := s / 2
	outer, inner := s*0.46, s*0.3
	z.MoveTo(float32(c+outer), float32(c))
	for i := 1; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		z.LineTo(float32(c+outer*math.Cos(a)), float32(c+outer*math.Sin(a)))
	}
	z.ClosePath()
	z.MoveTo(float32(c+inner), float32(c))
	for i := 1; i < segments; i++ {
		a := -2 * math.Pi * float64(i) / segments
		z.LineTo(float32(c+inner*math.Cos(a)), float32(c+inner*math.Sin(a)))
	}
	z.ClosePath()
}
