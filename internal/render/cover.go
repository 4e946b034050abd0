package render

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"scrapbook-go/internal/scrapbook"
)

const (
	CoverWidth  = 440
	CoverHeight = 640

	// coverTextScale enlarges the built-in face for titles.
	coverTextScale = 3
	coverMargin    = 20
)

var coverFill = color.RGBA{R: 153, G: 189, B: 222, A: 0xFF}

// CoverRenderer produces placeholder covers for scrapbooks created without
// a chosen image.
type CoverRenderer struct{}

var _ scrapbook.CoverRenderer = (*CoverRenderer)(nil)

func NewCoverRenderer() *CoverRenderer {
	return &CoverRenderer{}
}

// PlaceholderCover returns a JPEG of the title in white, centered on a
// light blue card.
func (r *CoverRenderer) PlaceholderCover(title string) ([]byte, error) {
	return EncodeJPEG(r.CoverImage(title))
}

// CoverImage draws the placeholder without encoding it.
func (r *CoverRenderer) CoverImage(title string) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, CoverWidth, CoverHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(coverFill), image.Point{}, draw.Src)

	limit := (CoverWidth - 2*coverMargin) / (face.Advance * coverTextScale)
	lines := wrapWords(scrapbook.NormalizeTitle(title), limit)
	text := textImage(centerLines(lines), color.White)
	if text == nil {
		return dst
	}

	tw := float64(text.Bounds().Dx() * coverTextScale)
	th := float64(text.Bounds().Dy() * coverTextScale)
	s2d := f64.Aff3{
		coverTextScale, 0, (CoverWidth - tw) / 2,
		0, coverTextScale, (CoverHeight - th) / 2,
	}
	draw.NearestNeighbor.Transform(dst, s2d, text, text.Bounds(), draw.Over, nil)
	return dst
}

// centerLines pads each line on the left so the block reads centered in a
// monospaced face.
func centerLines(lines []string) string {
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Repeat(" ", (width-len(l))/2) + l
	}
	return strings.Join(out, "\n")
}
