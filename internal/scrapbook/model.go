package scrapbook

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scale bounds applied by every element mutation.
const (
	MinScale = 0.5
	MaxScale = 3.0
)

// Element defaults, matching what the editor places on a fresh page.
const (
	DefaultFontSize = 18.0
	DefaultFontName = "System"
	DefaultTitle    = "Untitled"
)

// DefaultPosition is where new elements are anchored in page coordinates.
var DefaultPosition = Point{X: 200, Y: 300}

var (
	// ErrNotFound is returned by stores and vaults for unknown scrapbooks.
	ErrNotFound = errors.New("scrapbook not found")

	// ErrInvalidElement is returned when an element would carry both an
	// image and a text payload, or neither.
	ErrInvalidElement = errors.New("element must carry exactly one of image or text")

	// ErrInvalidPageStyle is returned when parsing an unknown page style.
	ErrInvalidPageStyle = errors.New("invalid page style")

	// ErrUnchanged is returned by an edit function that decided to leave the
	// document as it was. Service.Edit then skips the save and succeeds.
	ErrUnchanged = errors.New("document unchanged")
)

// PageStyle selects the background pattern drawn behind every page.
type PageStyle string

const (
	StylePlain  PageStyle = "Plain"
	StyleLined  PageStyle = "Lined"
	StyleGrid   PageStyle = "Grid"
	StyleDotted PageStyle = "Dotted"
)

// PageStyles lists every valid style in display order.
var PageStyles = []PageStyle{StylePlain, StyleLined, StyleGrid, StyleDotted}

// ParsePageStyle matches s case-insensitively against the known styles.
func ParsePageStyle(s string) (PageStyle, error) {
	for _, st := range PageStyles {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPageStyle, s)
}

// Normalize returns the style itself if valid, Plain otherwise.
// Stored values are read through this so unknown styles still render.
func (s PageStyle) Normalize() PageStyle {
	st, err := ParsePageStyle(string(s))
	if err != nil {
		return StylePlain
	}
	return st
}

func (s PageStyle) String() string { return string(s) }

// Scrapbook is one user-created book. Body holds the encoded page sequence;
// it is decoded into a Document only while the book is open.
type Scrapbook struct {
	ID           uuid.UUID
	Title        string
	CreationDate time.Time
	PageStyle    PageStyle
	CoverImage   []byte
	Body         []byte
	UpdatedAt    time.Time
}

// NormalizeTitle trims title and substitutes DefaultTitle when nothing is left.
func NormalizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return title
}

// Point is a position in page coordinate space.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Page is one ordered unit of a scrapbook. A nil DrawingData means the page
// has no freehand drawing.
type Page struct {
	ID          uuid.UUID
	Elements    []Element
	DrawingData []byte
}

// NewPage returns an empty page.
func NewPage(id uuid.UUID) Page {
	return Page{ID: id, Elements: []Element{}}
}

// HasDrawing reports whether the page carries drawing bytes.
func (p *Page) HasDrawing() bool {
	return p.DrawingData != nil
}

// ElementKind is the content variant of an Element.
type ElementKind int

const (
	EmptyElement ElementKind = iota
	ImageElement
	TextElement
)

func (k ElementKind) String() string {
	switch k {
	case ImageElement:
		return "image"
	case TextElement:
		return "text"
	default:
		return "empty"
	}
}

// Element is a single placeable item on a page. Exactly one of ImageData and
// Text is expected to be set; decoded records that break this are kept as-is
// and classified by Kind.
type Element struct {
	ID        uuid.UUID
	ImageData []byte
	Text      *string

	// Styling, only meaningful for text elements.
	TextColor Color
	FontSize  float64
	FontName  string

	Position Point
	Scale    float64
	Rotation float64 // degrees
	ZIndex   float64 // seconds since the Unix epoch of the last bring-to-front
}

// NewElement builds an element with the editor defaults. Exactly one of
// imageData and text must be non-nil.
func NewElement(id uuid.UUID, imageData []byte, text *string, zIndex float64) (Element, error) {
	if (imageData == nil) == (text == nil) {
		return Element{}, ErrInvalidElement
	}
	return Element{
		ID:        id,
		ImageData: imageData,
		Text:      text,
		TextColor: Black,
		FontSize:  DefaultFontSize,
		FontName:  DefaultFontName,
		Position:  DefaultPosition,
		Scale:     1.0,
		Rotation:  0,
		ZIndex:    zIndex,
	}, nil
}

// NewImageElement returns an image element carrying encoded image bytes.
func NewImageElement(id uuid.UUID, imageData []byte, zIndex float64) Element {
	if imageData == nil {
		imageData = []byte{}
	}
	el, _ := NewElement(id, imageData, nil, zIndex)
	return el
}

// NewTextElement returns a text element with default styling.
func NewTextElement(id uuid.UUID, text string, zIndex float64) Element {
	el, _ := NewElement(id, nil, &text, zIndex)
	return el
}

// Kind classifies the element: image wins when both payloads are present.
func (e *Element) Kind() ElementKind {
	switch {
	case e.ImageData != nil:
		return ImageElement
	case e.Text != nil:
		return TextElement
	default:
		return EmptyElement
	}
}

// TextValue returns the text payload or "" for non-text elements.
func (e *Element) TextValue() string {
	if e.Text == nil {
		return ""
	}
	return *e.Text
}

// SetScale stores s clamped to [MinScale, MaxScale].
func (e *Element) SetScale(s float64) {
	e.Scale = ClampScale(s)
}

// ClampScale bounds s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	return min(max(s, MinScale), MaxScale)
}
