package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"scrapbook-go/internal/drawing"
	"scrapbook-go/internal/scrapbook"
)

// ImageBaseWidth is the width in page units of an image element at scale 1.
// Height follows the image's aspect ratio.
const ImageBaseWidth = 150

var placeholderColor = color.RGBA{R: 0xC7, G: 0xC7, B: 0xCC, A: 0xFF}

// PageRenderer rasterizes pages of a fixed size. Page coordinates are
// multiplied by scale to get pixels.
type PageRenderer struct {
	width  int
	height int
	scale  float64
	logger scrapbook.Logger
}

func NewPageRenderer(width, height int, scale float64, logger scrapbook.Logger) *PageRenderer {
	if logger == nil {
		logger = scrapbook.NewNopLogger()
	}
	if scale <= 0 {
		scale = 1
	}
	return &PageRenderer{width: width, height: height, scale: scale, logger: logger}
}

// Size returns the output dimensions in pixels.
func (r *PageRenderer) Size() image.Point {
	return image.Pt(int(math.Round(float64(r.width)*r.scale)), int(math.Round(float64(r.height)*r.scale)))
}

// Render composes page: background for style, then layer when non-nil, then
// the elements in ascending z-order.
func (r *PageRenderer) Render(page *scrapbook.Page, style scrapbook.PageStyle, layer image.Image) *image.RGBA {
	size := r.Size()
	dst := Background(style, size.X, size.Y, r.scale)
	if layer != nil {
		draw.Draw(dst, dst.Bounds(), layer, layer.Bounds().Min, draw.Over)
	}
	for _, el := range scrapbook.RenderOrder(page.Elements) {
		r.drawElement(dst, &el)
	}
	return dst
}

// RenderDrawing rasterizes the page's drawing at output size. Pages
// without a drawing, or whose strokes all fall off the page, yield nil and
// no error.
func (r *PageRenderer) RenderDrawing(page *scrapbook.Page) (image.Image, error) {
	if !page.HasDrawing() {
		return nil, nil
	}
	d, err := drawing.Unmarshal(page.DrawingData)
	if err != nil {
		return nil, err
	}
	if !d.Bounds().Overlaps(image.Rect(0, 0, r.width, r.height)) {
		return nil, nil
	}
	size := r.Size()
	return d.Rasterize(size.X, size.Y, r.scale), nil
}

func (r *PageRenderer) drawElement(dst *image.RGBA, el *scrapbook.Element) {
	var src image.Image
	var k float64

	switch el.Kind() {
	case scrapbook.ImageElement:
		img, err := DecodeImage(el.ImageData)
		if err != nil {
			r.logger.Warn("element image unreadable, drawing placeholder", "element", el.ID.String(), "error", err.Error())
			img = placeholderImage()
		}
		src = img
		k = ImageBaseWidth / float64(max(1, img.Bounds().Dx()))
	case scrapbook.TextElement:
		txt := textImage(el.TextValue(), el.TextColor.RGBA())
		if txt == nil {
			return
		}
		src = txt
		k = el.FontSize / glyphHeight
	default:
		return
	}

	k *= el.Scale * r.scale
	place(dst, src, el.Position.X*r.scale, el.Position.Y*r.scale, k, el.Rotation)
}

func placeholderImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, ImageBaseWidth, ImageBaseWidth))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderColor), image.Point{}, draw.Src)
	return img
}

// place draws src scaled by k and rotated clockwise by degrees, with its
// centre at (cx, cy).
func place(dst draw.Image, src image.Image, cx, cy, k, degrees float64) {
	sb := src.Bounds()
	mx := float64(sb.Min.X) + float64(sb.Dx())/2
	my := float64(sb.Min.Y) + float64(sb.Dy())/2

	sin, cos := math.Sincos(degrees * math.Pi / 180)
	a, b := k*cos, -k*sin
	d, e := k*sin, k*cos
	s2d := f64.Aff3{
		a, b, cx - a*mx - b*my,
		d, e, cy - d*mx - e*my,
	}
	draw.BiLinear.Transform(dst, s2d, src, sb, draw.Over, nil)
}
