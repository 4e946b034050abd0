package app

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"scrapbook-go/internal/drawing"
	"scrapbook-go/internal/render"
	"scrapbook-go/internal/scrapbook"
)

// Create adds a new scrapbook. style may be empty for Plain; coverPath may be
// empty, in which case a placeholder cover is generated from the title.
func (a *ScrapbookApp) Create(ctx context.Context, title, style, coverPath string) (*scrapbook.Scrapbook, error) {
	var sb *scrapbook.Scrapbook
	err := a.mutate(ctx, []string{title}, func() error {
		p := scrapbook.CreateParams{Title: title, PageStyle: scrapbook.StylePlain}
		if style != "" {
			st, err := scrapbook.ParsePageStyle(style)
			if err != nil {
				return err
			}
			p.PageStyle = st
		}
		if coverPath != "" {
			cover, err := readCover(coverPath)
			if err != nil {
				return err
			}
			p.Cover = cover
		}

		var err error
		sb, err = a.service.Create(ctx, p)
		return err
	})
	return sb, err
}

// EditOptions carries the metadata changes for Update. Nil fields are left
// alone.
type EditOptions struct {
	Title      *string
	Style      *string
	CoverPath  string
	ResetCover bool
}

// Update changes a scrapbook's title, page style or cover.
func (a *ScrapbookApp) Update(ctx context.Context, rawID string, opts EditOptions) (*scrapbook.Scrapbook, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	var sb *scrapbook.Scrapbook
	err = a.mutate(ctx, []string{id.String()}, func() error {
		p := scrapbook.UpdateParams{Title: opts.Title, ResetCover: opts.ResetCover}
		if opts.Style != nil {
			st, err := scrapbook.ParsePageStyle(*opts.Style)
			if err != nil {
				return err
			}
			p.PageStyle = &st
		}
		if opts.CoverPath != "" {
			cover, err := readCover(opts.CoverPath)
			if err != nil {
				return err
			}
			p.Cover = cover
		}

		var err error
		sb, err = a.service.Update(ctx, id, p)
		return err
	})
	return sb, err
}

// readCover loads an image file and re-encodes it as JPEG.
func readCover(path string) ([]byte, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("reading cover: %w", err)
	}
	img, err := render.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("cover %s: %w", path, err)
	}
	return render.EncodeJPEG(img)
}

// Get returns one scrapbook record.
func (a *ScrapbookApp) Get(ctx context.Context, rawID string) (*scrapbook.Scrapbook, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	return a.service.Get(ctx, id)
}

// List returns all scrapbooks, newest first.
func (a *ScrapbookApp) List(ctx context.Context) ([]*scrapbook.Scrapbook, error) {
	return a.service.List(ctx)
}

// Delete removes a scrapbook and its pages.
func (a *ScrapbookApp) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	return a.mutate(ctx, []string{id.String()}, func() error {
		return a.service.Delete(ctx, id)
	})
}

// Pages returns the decoded pages of a scrapbook. An unreadable body yields
// a single empty page.
func (a *ScrapbookApp) Pages(ctx context.Context, rawID string) ([]scrapbook.Page, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	doc, err := a.service.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.Pages(), nil
}

// AddPage appends an empty page and returns its index.
func (a *ScrapbookApp) AddPage(ctx context.Context, rawID string) (int, error) {
	id, err := parseID(rawID)
	if err != nil {
		return 0, err
	}

	var index int
	err = a.mutate(ctx, []string{id.String()}, func() error {
		_, err := a.edit(ctx, id, func(doc *scrapbook.Document) error {
			doc.AddPage()
			index = doc.CurrentIndex()
			return nil
		})
		return err
	})
	return index, err
}

// DeletePage removes the page at index and reports whether it did. The last
// remaining page is kept: that is not an error, and the body is left as it
// was.
func (a *ScrapbookApp) DeletePage(ctx context.Context, rawID string, index int) (bool, error) {
	id, err := parseID(rawID)
	if err != nil {
		return false, err
	}
	var deleted bool
	err = a.mutate(ctx, []string{id.String(), fmt.Sprint(index)}, func() error {
		_, err := a.edit(ctx, id, func(doc *scrapbook.Document) error {
			if doc.Page(index) == nil {
				return pageRangeError(doc, index)
			}
			if deleted = doc.DeletePage(index); !deleted {
				a.logger.Info("page kept, a scrapbook needs at least one page", "scrapbook", id.String())
				return scrapbook.ErrUnchanged
			}
			return nil
		})
		return err
	})
	return deleted, err
}

func selectPage(doc *scrapbook.Document, index int) error {
	if doc.Page(index) == nil {
		return pageRangeError(doc, index)
	}
	doc.SetCurrentIndex(index)
	return nil
}

func pageRangeError(doc *scrapbook.Document, index int) error {
	return fmt.Errorf("page %d out of range: scrapbook has %d page(s)", index+1, doc.Len())
}

// ElementOptions overrides the defaults of a newly placed element. Zero
// values keep the default.
type ElementOptions struct {
	Position *scrapbook.Point
	Color    string
	FontSize float64
	FontName string
}

func (o ElementOptions) apply(el *scrapbook.Element) {
	if o.Position != nil {
		el.Position = *o.Position
	}
	if el.Kind() != scrapbook.TextElement {
		return
	}
	if o.Color != "" {
		el.TextColor = scrapbook.ParseColor(o.Color)
	}
	if o.FontSize > 0 {
		el.FontSize = o.FontSize
	}
	if o.FontName != "" {
		el.FontName = o.FontName
	}
}

// AddText places a text element on the page at index.
func (a *ScrapbookApp) AddText(ctx context.Context, rawID string, index int, text string, opts ElementOptions) (scrapbook.Element, error) {
	return a.addElement(ctx, rawID, index, opts, func(doc *scrapbook.Document, clock scrapbook.Clock) *scrapbook.Element {
		return doc.AddText(text, clock)
	})
}

// AddImage places the image file at path on the page at index. The file's
// bytes are stored as-is once they are known to decode.
func (a *ScrapbookApp) AddImage(ctx context.Context, rawID string, index int, path string, opts ElementOptions) (scrapbook.Element, error) {
	data, err := readInput(path)
	if err != nil {
		return scrapbook.Element{}, fmt.Errorf("reading image: %w", err)
	}
	if _, err := render.DecodeImage(data); err != nil {
		return scrapbook.Element{}, fmt.Errorf("image %s: %w", path, err)
	}
	return a.addImageData(ctx, rawID, index, data, opts)
}

// AddSticker places one of the built-in stickers on the page at index.
func (a *ScrapbookApp) AddSticker(ctx context.Context, rawID string, index int, name string, opts ElementOptions) (scrapbook.Element, error) {
	data, err := render.Sticker(name)
	if err != nil {
		return scrapbook.Element{}, err
	}
	return a.addImageData(ctx, rawID, index, data, opts)
}

func (a *ScrapbookApp) addImageData(ctx context.Context, rawID string, index int, data []byte, opts ElementOptions) (scrapbook.Element, error) {
	return a.addElement(ctx, rawID, index, opts, func(doc *scrapbook.Document, clock scrapbook.Clock) *scrapbook.Element {
		return doc.AddImage(data, clock)
	})
}

func (a *ScrapbookApp) addElement(ctx context.Context, rawID string, index int, opts ElementOptions, place func(*scrapbook.Document, scrapbook.Clock) *scrapbook.Element) (scrapbook.Element, error) {
	id, err := parseID(rawID)
	if err != nil {
		return scrapbook.Element{}, err
	}

	var added scrapbook.Element
	err = a.mutate(ctx, []string{id.String(), fmt.Sprint(index)}, func() error {
		_, err := a.edit(ctx, id, func(doc *scrapbook.Document) error {
			if err := selectPage(doc, index); err != nil {
				return err
			}
			el := place(doc, a.service.Clock())
			opts.apply(el)
			added = *el
			return nil
		})
		return err
	})
	return added, err
}

// MoveElement drags an element by (dx, dy) page units.
func (a *ScrapbookApp) MoveElement(ctx context.Context, rawID, rawElementID string, dx, dy float64) (scrapbook.Element, error) {
	return a.updateElement(ctx, rawID, rawElementID, func(el *scrapbook.Element) {
		d := scrapbook.Point{X: dx, Y: dy}
		g := scrapbook.NewDragGesture(el)
		g.Begin()
		g.Change(d)
		g.End(d)
	})
}

// ScaleElement pinches an element by factor relative to its current scale.
// The result is clamped to the allowed scale range.
func (a *ScrapbookApp) ScaleElement(ctx context.Context, rawID, rawElementID string, factor float64) (scrapbook.Element, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return scrapbook.Element{}, fmt.Errorf("invalid scale factor %v", factor)
	}
	return a.updateElement(ctx, rawID, rawElementID, func(el *scrapbook.Element) {
		g := scrapbook.NewPinchGesture(el)
		g.Begin()
		g.Change(factor)
		g.End()
	})
}

// RotateElement turns an element clockwise by degrees.
func (a *ScrapbookApp) RotateElement(ctx context.Context, rawID, rawElementID string, degrees float64) (scrapbook.Element, error) {
	return a.updateElement(ctx, rawID, rawElementID, func(el *scrapbook.Element) {
		el.Rotation = math.Mod(el.Rotation+degrees, 360)
	})
}

// FrontElement brings an element above everything else on its page.
func (a *ScrapbookApp) FrontElement(ctx context.Context, rawID, rawElementID string) (scrapbook.Element, error) {
	return a.changeElement(ctx, rawID, rawElementID, func(doc *scrapbook.Document, elID uuid.UUID) bool {
		return doc.BringToFront(elID, a.service.Clock())
	})
}

func (a *ScrapbookApp) updateElement(ctx context.Context, rawID, rawElementID string, fn func(*scrapbook.Element)) (scrapbook.Element, error) {
	return a.changeElement(ctx, rawID, rawElementID, func(doc *scrapbook.Document, elID uuid.UUID) bool {
		return doc.UpdateElement(elID, fn)
	})
}

func (a *ScrapbookApp) changeElement(ctx context.Context, rawID, rawElementID string, change func(*scrapbook.Document, uuid.UUID) bool) (scrapbook.Element, error) {
	id, err := parseID(rawID)
	if err != nil {
		return scrapbook.Element{}, err
	}
	elID, err := parseID(rawElementID)
	if err != nil {
		return scrapbook.Element{}, err
	}

	var updated scrapbook.Element
	err = a.mutate(ctx, []string{id.String(), elID.String()}, func() error {
		_, err := a.edit(ctx, id, func(doc *scrapbook.Document) error {
			if !change(doc, elID) {
				return fmt.Errorf("%w: %s", ErrElementNotFound, elID)
			}
			el, _ := doc.FindElement(elID)
			updated = *el
			return nil
		})
		return err
	})
	return updated, err
}

// RemoveElement deletes an element from whichever page holds it.
func (a *ScrapbookApp) RemoveElement(ctx context.Context, rawID, rawElementID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	elID, err := parseID(rawElementID)
	if err != nil {
		return err
	}
	return a.mutate(ctx, []string{id.String(), elID.String()}, func() error {
		_, err := a.edit(ctx, id, func(doc *scrapbook.Document) error {
			if !doc.RemoveElement(elID) {
				return fmt.Errorf("%w: %s", ErrElementNotFound, elID)
			}
			return nil
		})
		return err
	})
}

// SetDrawing replaces the drawing of the page at index with the strokes in
// the JSON file at path.
func (a *ScrapbookApp) SetDrawing(ctx context.Context, rawID string, index int, path string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	raw, err := readInput(path)
	if err != nil {
		return fmt.Errorf("reading drawing: %w", err)
	}
	d, err := drawing.Unmarshal(raw)
	if err != nil {
		return fmt.Errorf("drawing %s: %w", path, err)
	}
	data, err := drawing.Marshal(d)
	if err != nil {
		return fmt.Errorf("drawing %s: %w", path, err)
	}

	return a.mutate(ctx, []string{id.String(), fmt.Sprint(index)}, func() error {
		_, err := a.edit(ctx, id, func(doc *scrapbook.Document) error {
			if err := selectPage(doc, index); err != nil {
				return err
			}
			doc.SetDrawing(data)
			return nil
		})
		return err
	})
}

// ClearDrawing removes the drawing of the page at index.
func (a *ScrapbookApp) ClearDrawing(ctx context.Context, rawID string, index int) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	return a.mutate(ctx, []string{id.String(), fmt.Sprint(index)}, func() error {
		_, err := a.edit(ctx, id, func(doc *scrapbook.Document) error {
			if err := selectPage(doc, index); err != nil {
				return err
			}
			doc.ClearDrawing()
			return nil
		})
		return err
	})
}
