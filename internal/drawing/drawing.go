// Package drawing holds the freehand layer of a page: a list of strokes
// serialized as JSON, and a rasterizer that turns them into an image.
package drawing

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"scrapbook-go/internal/scrapbook"
)

// DefaultWidth is used for strokes stored without a positive width.
const DefaultWidth = 3.0

// capSegments is the number of edges used to approximate a round cap.
const capSegments = 16

var ErrEmpty = errors.New("drawing has no data")

// Point is a position in page coordinates, encoded as [x, y].
type Point [2]float64

// Stroke is one continuous pen movement.
type Stroke struct {
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Points []Point `json:"points"`
}

// Drawing is the decoded drawingData of a page.
type Drawing struct {
	Strokes []Stroke `json:"strokes"`
}

// Unmarshal decodes drawing bytes as stored on a page.
func Unmarshal(data []byte) (*Drawing, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	var d Drawing
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding drawing: %w", err)
	}
	return &d, nil
}

// Marshal encodes d for storage on a page.
func Marshal(d *Drawing) ([]byte, error) {
	if d == nil {
		return nil, ErrEmpty
	}
	strokes := d.Strokes
	if strokes == nil {
		strokes = []Stroke{}
	}
	for i, s := range strokes {
		for _, p := range s.Points {
			if !finite(p[0]) || !finite(p[1]) {
				return nil, fmt.Errorf("stroke %d has a non-finite point", i)
			}
		}
	}
	data, err := json.Marshal(Drawing{Strokes: strokes})
	if err != nil {
		return nil, fmt.Errorf("encoding drawing: %w", err)
	}
	return data, nil
}

// Rasterize paints the strokes onto a transparent w by h image. Page
// coordinates are multiplied by scale.
func (d *Drawing) Rasterize(w, h int, scale float64) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if d == nil || w <= 0 || h <= 0 {
		return dst
	}

	var z vector.Rasterizer
	for _, s := range d.Strokes {
		if len(s.Points) == 0 {
			continue
		}
		z.Reset(w, h)
		addStroke(&z, s, scale)
		z.Draw(dst, dst.Bounds(), image.NewUniform(s.RGBA()), image.Point{})
	}
	return dst
}

// addStroke outlines s as a chain of rectangles joined by round caps. All
// outlines wind the same way so overlaps do not cancel.
func addStroke(z *vector.Rasterizer, s Stroke, scale float64) {
	r := strokeWidth(s) * scale / 2

	pts := make([]Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = Point{p[0] * scale, p[1] * scale}
	}

	for i, p := range pts {
		addDisc(z, p, r)
		if i == 0 {
			continue
		}
		addSegment(z, pts[i-1], p, r)
	}
}

func addSegment(z *vector.Rasterizer, a, b Point, r float64) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*r, dx/length*r

	z.MoveTo(f32(a[0]-nx), f32(a[1]-ny))
	z.LineTo(f32(b[0]-nx), f32(b[1]-ny))
	z.LineTo(f32(b[0]+nx), f32(b[1]+ny))
	z.LineTo(f32(a[0]+nx), f32(a[1]+ny))
	z.ClosePath()
}

func addDisc(z *vector.Rasterizer, c Point, r float64) {
	z.MoveTo(f32(c[0]+r), f32(c[1]))
	for i := 1; i < capSegments; i++ {
		a := 2 * math.Pi * float64(i) / capSegments
		z.LineTo(f32(c[0]+r*math.Cos(a)), f32(c[1]+r*math.Sin(a)))
	}
	z.ClosePath()
}

// Bounds returns the smallest rectangle in page coordinates covering every
// stroke, pen width included. It is empty for a drawing without points.
func (d *Drawing) Bounds() image.Rectangle {
	var b image.Rectangle
	first := true
	for _, s := range d.Strokes {
		r := strokeWidth(s) / 2
		for _, p := range s.Points {
			pr := image.Rect(
				int(math.Floor(p[0]-r)), int(math.Floor(p[1]-r)),
				int(math.Ceil(p[0]+r)), int(math.Ceil(p[1]+r)),
			)
			if first {
				b, first = pr, false
				continue
			}
			b = b.Union(pr)
		}
	}
	return b
}

// RGBA parses the stroke colour the same way element text colours are
// parsed.
func (s Stroke) RGBA() color.RGBA {
	return scrapbook.ParseColor(s.Color).RGBA()
}

func strokeWidth(s Stroke) float64 {
	if s.Width <= 0 {
		return DefaultWidth
	}
	return s.Width
}

func f32(v float64) float32 { return float32(v) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
