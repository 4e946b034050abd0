package scrapbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RecoveryError reports that a body could not be decoded and was replaced by
// a single empty page. It is informational: the returned pages are usable.
type RecoveryError struct {
	Err error
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("unreadable scrapbook body, starting from an empty page: %v", e.Err)
}

func (e *RecoveryError) Unwrap() error { return e.Err }

// wirePage and wireElement mirror the stored JSON layout. Required keys are
// pointers so that a missing key is told apart from a zero value.
type wirePage struct {
	ID          *wireUUID      `json:"id"`
	Elements    *[]wireElement `json:"elements"`
	DrawingData *[]byte        `json:"drawingData,omitempty"`
}

type wireElement struct {
	ID        *wireUUID  `json:"id"`
	ImageData *[]byte    `json:"imageData,omitempty"`
	Text      *string    `json:"text,omitempty"`
	TextColor *string    `json:"textColor"`
	FontSize  *float64   `json:"fontSize"`
	FontName  *string    `json:"fontName"`
	Position  *wirePoint `json:"position"`
	Scale     *float64   `json:"scale"`
	Rotation  *float64   `json:"rotation"`
	ZIndex    *float64   `json:"zIndex"`
}

// wireUUID is written upper-case and parsed case-insensitively.
type wireUUID uuid.UUID

func (u wireUUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(uuid.UUID(u).String()))
}

func (u *wireUUID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("parsing id %q: %w", s, err)
	}
	*u = wireUUID(id)
	return nil
}

// wirePoint is written as [x, y]. Objects of the form {"x": .., "y": ..}
// are accepted on read as well.
type wirePoint Point

func (p wirePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *wirePoint) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		if obj.X == nil || obj.Y == nil {
			return errors.New("position needs both x and y")
		}
		*p = wirePoint{X: *obj.X, Y: *obj.Y}
		return nil
	}

	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("position must have 2 coordinates, got %d", len(xy))
	}
	*p = wirePoint{X: xy[0], Y: xy[1]}
	return nil
}

// DecodePages turns a stored body into pages. It always returns at least one
// page. A nil body or an empty page list gives a single empty page with a nil
// error; a body that fails to decode gives the same page together with a
// *RecoveryError.
func DecodePages(data []byte, ids IDGenerator) ([]Page, error) {
	if data == nil {
		return []Page{NewPage(ids.New())}, nil
	}

	pages, err := decodeWirePages(data)
	if err != nil {
		return []Page{NewPage(ids.New())}, &RecoveryError{Err: err}
	}
	if len(pages) == 0 {
		return []Page{NewPage(ids.New())}, nil
	}
	return pages, nil
}

func decodeWirePages(data []byte) ([]Page, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var wire []wirePage
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding pages: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decoding pages: trailing data after page list")
	}

	pages := make([]Page, len(wire))
	for i, wp := range wire {
		p, err := wp.toPage()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages[i] = p
	}
	return pages, nil
}

func (wp *wirePage) toPage() (Page, error) {
	if wp.ID == nil {
		return Page{}, missingKey("id")
	}
	if wp.Elements == nil {
		return Page{}, missingKey("elements")
	}

	p := Page{
		ID:       uuid.UUID(*wp.ID),
		Elements: make([]Element, len(*wp.Elements)),
	}
	if wp.DrawingData != nil {
		p.DrawingData = nonNilBytes(*wp.DrawingData)
	}
	for i, we := range *wp.Elements {
		el, err := we.toElement()
		if err != nil {
			return Page{}, fmt.Errorf("element %d: %w", i, err)
		}
		p.Elements[i] = el
	}
	return p, nil
}

func (we *wireElement) toElement() (Element, error) {
	switch {
	case we.ID == nil:
		return Element{}, missingKey("id")
	case we.TextColor == nil:
		return Element{}, missingKey("textColor")
	case we.FontSize == nil:
		return Element{}, missingKey("fontSize")
	case we.FontName == nil:
		return Element{}, missingKey("fontName")
	case we.Position == nil:
		return Element{}, missingKey("position")
	case we.Scale == nil:
		return Element{}, missingKey("scale")
	case we.Rotation == nil:
		return Element{}, missingKey("rotation")
	case we.ZIndex == nil:
		return Element{}, missingKey("zIndex")
	}
	el := Element{
		ID:        uuid.UUID(*we.ID),
		Text:      we.Text,
		TextColor: ParseColor(*we.TextColor),
		FontSize:  *we.FontSize,
		FontName:  *we.FontName,
		Position:  Point(*we.Position),
		Scale:     *we.Scale,
		Rotation:  *we.Rotation,
		ZIndex:    *we.ZIndex,
	}
	if we.ImageData != nil {
		el.ImageData = nonNilBytes(*we.ImageData)
	}
	return el, nil
}

// EncodePages serializes pages into a body. The output depends only on the
// input. An error means a value could not be represented (NaN or infinite
// coordinates); callers must not store anything in that case.
func EncodePages(pages []Page) ([]byte, error) {
	wire := make([]wirePage, len(pages))
	for i := range pages {
		wire[i] = toWirePage(&pages[i])
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encoding pages: %w", err)
	}
	return data, nil
}

func toWirePage(p *Page) wirePage {
	id := wireUUID(p.ID)
	elements := make([]wireElement, len(p.Elements))
	for i := range p.Elements {
		elements[i] = toWireElement(&p.Elements[i])
	}
	wp := wirePage{ID: &id, Elements: &elements}
	if p.DrawingData != nil {
		d := p.DrawingData
		wp.DrawingData = &d
	}
	return wp
}

func toWireElement(e *Element) wireElement {
	id := wireUUID(e.ID)
	color := e.TextColor.Hex()
	fontSize, fontName := e.FontSize, e.FontName
	position := wirePoint(e.Position)
	scale, rotation, zIndex := e.Scale, e.Rotation, e.ZIndex

	we := wireElement{
		ID:        &id,
		Text:      e.Text,
		TextColor: &color,
		FontSize:  &fontSize,
		FontName:  &fontName,
		Position:  &position,
		Scale:     &scale,
		Rotation:  &rotation,
		ZIndex:    &zIndex,
	}
	if e.ImageData != nil {
		d := e.ImageData
		we.ImageData = &d
	}
	return we
}

func missingKey(key string) error {
	return fmt.Errorf("missing required key %q", key)
}

// nonNilBytes keeps "present but empty" distinct from "absent".
func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
