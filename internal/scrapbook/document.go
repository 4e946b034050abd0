package scrapbook

import (
	"slices"

	"github.com/google/uuid"
)

// ChangeKind identifies what a Document mutation touched.
type ChangeKind int

const (
	PageAdded ChangeKind = iota
	PageDeleted
	CurrentPageChanged
	ElementAdded
	ElementRemoved
	ElementChanged
	DrawingChanged
)

func (k ChangeKind) String() string {
	switch k {
	case PageAdded:
		return "page-added"
	case PageDeleted:
		return "page-deleted"
	case CurrentPageChanged:
		return "current-page-changed"
	case ElementAdded:
		return "element-added"
	case ElementRemoved:
		return "element-removed"
	case ElementChanged:
		return "element-changed"
	case DrawingChanged:
		return "drawing-changed"
	default:
		return "unknown"
	}
}

// Change describes a single Document mutation.
type Change struct {
	Kind      ChangeKind
	PageIndex int
	ElementID uuid.UUID // zero for page-level changes
}

// Observer is notified after every Document mutation. Hosts use it to
// schedule redraws or saves; the Document never depends on how.
type Observer interface {
	DocumentChanged(Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Change)

func (f ObserverFunc) DocumentChanged(c Change) { f(c) }

// Document is the working copy of a scrapbook body while it is open for
// editing or viewing. It always holds at least one page.
//
// A Document is not safe for concurrent use; the host delivers edits from a
// single goroutine.
type Document struct {
	pages     []Page
	current   int
	ids       IDGenerator
	observers []Observer
}

// OpenDocument decodes body into a Document. A *RecoveryError is returned
// alongside a usable single-page document when body is unreadable.
func OpenDocument(body []byte, ids IDGenerator) (*Document, error) {
	pages, err := DecodePages(body, ids)
	return NewDocument(pages, ids), err
}

// NewDocument wraps already-decoded pages. An empty slice is replaced by a
// single empty page.
func NewDocument(pages []Page, ids IDGenerator) *Document {
	if len(pages) == 0 {
		pages = []Page{NewPage(ids.New())}
	}
	return &Document{pages: pages, ids: ids}
}

// Subscribe registers o for change notifications.
func (d *Document) Subscribe(o Observer) {
	d.observers = append(d.observers, o)
}

func (d *Document) notify(c Change) {
	for _, o := range d.observers {
		o.DocumentChanged(c)
	}
}

// Encode serializes the pages for storage.
func (d *Document) Encode() ([]byte, error) {
	return EncodePages(d.pages)
}

// Pages returns the page slice. Callers must not append to it.
func (d *Document) Pages() []Page { return d.pages }

// Len returns the number of pages.
func (d *Document) Len() int { return len(d.pages) }

// CurrentIndex returns the index of the page being viewed.
func (d *Document) CurrentIndex() int { return d.current }

// CurrentPage returns the page being viewed.
func (d *Document) CurrentPage() *Page { return &d.pages[d.current] }

// Page returns the page at i, or nil when i is out of range.
func (d *Document) Page(i int) *Page {
	if i < 0 || i >= len(d.pages) {
		return nil
	}
	return &d.pages[i]
}

// SetCurrentIndex moves the viewing position, clamped to the valid range.
func (d *Document) SetCurrentIndex(i int) {
	i = min(max(i, 0), len(d.pages)-1)
	if i == d.current {
		return
	}
	d.current = i
	d.notify(Change{Kind: CurrentPageChanged, PageIndex: i})
}

// AddPage appends an empty page and makes it current.
func (d *Document) AddPage() *Page {
	d.pages = append(d.pages, NewPage(d.ids.New()))
	d.current = len(d.pages) - 1
	d.notify(Change{Kind: PageAdded, PageIndex: d.current})
	return &d.pages[d.current]
}

// DeletePage removes the page at i. Removing the last remaining page, or an
// index out of range, is refused and reported as false.
//
// When the removed page sits at or before the current position the position
// moves back by one (never below zero), so the viewer lands on the previous
// page.
func (d *Document) DeletePage(i int) bool {
	if len(d.pages) <= 1 || i < 0 || i >= len(d.pages) {
		return false
	}

	d.pages = slices.Delete(d.pages, i, i+1)
	if d.current >= len(d.pages) {
		d.current = len(d.pages) - 1
	} else if d.current >= i {
		d.current = max(0, d.current-1)
	}
	d.notify(Change{Kind: PageDeleted, PageIndex: i})
	return true
}

// AddElement appends el to the current page and returns a pointer to the
// stored copy. The pointer is valid until the page's elements change again.
func (d *Document) AddElement(el Element) *Element {
	p := d.CurrentPage()
	p.Elements = append(p.Elements, el)
	d.notify(Change{Kind: ElementAdded, PageIndex: d.current, ElementID: el.ID})
	return &p.Elements[len(p.Elements)-1]
}

// AddText places a new text element on the current page.
func (d *Document) AddText(text string, clock Clock) *Element {
	return d.AddElement(NewTextElement(d.ids.New(), text, Timestamp(clock.Now())))
}

// AddImage places a new image element on the current page.
func (d *Document) AddImage(data []byte, clock Clock) *Element {
	return d.AddElement(NewImageElement(d.ids.New(), data, Timestamp(clock.Now())))
}

// FindElement looks id up across all pages. It returns the element and the
// index of the page holding it, or nil and -1.
func (d *Document) FindElement(id uuid.UUID) (*Element, int) {
	for pi := range d.pages {
		els := d.pages[pi].Elements
		for ei := range els {
			if els[ei].ID == id {
				return &els[ei], pi
			}
		}
	}
	return nil, -1
}

// UpdateElement applies fn to the element with the given id and notifies
// observers. It reports whether the element exists.
func (d *Document) UpdateElement(id uuid.UUID, fn func(*Element)) bool {
	el, pi := d.FindElement(id)
	if el == nil {
		return false
	}
	fn(el)
	el.SetScale(el.Scale)
	d.notify(Change{Kind: ElementChanged, PageIndex: pi, ElementID: id})
	return true
}

// BringToFront stamps the element with the current time so it draws above
// everything stamped earlier.
func (d *Document) BringToFront(id uuid.UUID, clock Clock) bool {
	return d.UpdateElement(id, func(el *Element) { BringToFront(el, clock) })
}

// RemoveElement deletes the element with the given id from whichever page
// holds it.
func (d *Document) RemoveElement(id uuid.UUID) bool {
	_, pi := d.FindElement(id)
	if pi < 0 {
		return false
	}
	p := &d.pages[pi]
	p.Elements = slices.DeleteFunc(p.Elements, func(e Element) bool { return e.ID == id })
	d.notify(Change{Kind: ElementRemoved, PageIndex: pi, ElementID: id})
	return true
}

// SetDrawing replaces the current page's drawing bytes. nil clears it.
func (d *Document) SetDrawing(data []byte) {
	d.CurrentPage().DrawingData = data
	d.notify(Change{Kind: DrawingChanged, PageIndex: d.current})
}

// ClearDrawing removes the current page's drawing.
func (d *Document) ClearDrawing() {
	d.SetDrawing(nil)
}

// RenderOrder returns a copy of elements sorted by ascending ZIndex, the
// order in which they are drawn. Ties keep insertion order.
func RenderOrder(elements []Element) []Element {
	out := slices.Clone(elements)
	slices.SortStableFunc(out, func(a, b Element) int {
		switch {
		case a.ZIndex < b.ZIndex:
			return -1
		case a.ZIndex > b.ZIndex:
			return 1
		default:
			return 0
		}
	})
	return out
}
