package scrapbook_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"scrapbook-go/internal/scrapbook"
	"scrapbook-go/internal/testutil"
)

func newDocument(t *testing.T, n int) (*scrapbook.Document, *testutil.StubIDGenerator) {
	t.Helper()
	ids := testutil.NewStubIDGenerator()
	pages := make([]scrapbook.Page, n)
	for i := range pages {
		pages[i] = scrapbook.NewPage(ids.New())
	}
	return scrapbook.NewDocument(pages, ids), ids
}

func TestOpenDocument(t *testing.T) {
	t.Run("nil body opens with one page", func(t *testing.T) {
		doc, err := scrapbook.OpenDocument(nil, testutil.NewStubIDGenerator())
		if err != nil {
			t.Fatalf("OpenDocument() error = %v", err)
		}
		if doc.Len() != 1 || doc.CurrentIndex() != 0 {
			t.Errorf("Len/CurrentIndex = %d/%d, want 1/0", doc.Len(), doc.CurrentIndex())
		}
	})

	t.Run("corrupt body opens usable document", func(t *testing.T) {
		doc, err := scrapbook.OpenDocument([]byte("{{"), testutil.NewStubIDGenerator())
		var recovered *scrapbook.RecoveryError
		if !errors.As(err, &recovered) {
			t.Fatalf("OpenDocument() error = %v, want *RecoveryError", err)
		}
		if doc == nil || doc.Len() != 1 {
			t.Fatal("OpenDocument() did not return a single-page document")
		}
		doc.AddText("still works", testutil.FixedClock())
		if len(doc.CurrentPage().Elements) != 1 {
			t.Error("AddText() on recovered document had no effect")
		}
	})

	t.Run("new document from no pages", func(t *testing.T) {
		doc := scrapbook.NewDocument(nil, testutil.NewStubIDGenerator())
		if doc.Len() != 1 {
			t.Errorf("Len() = %d, want 1", doc.Len())
		}
	})
}

func TestDocument_AddPage(t *testing.T) {
	doc, _ := newDocument(t, 1)

	p := doc.AddPage()
	if doc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", doc.Len())
	}
	if doc.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", doc.CurrentIndex())
	}
	if p.ID != doc.CurrentPage().ID {
		t.Error("AddPage() did not return the current page")
	}
	if len(p.Elements) != 0 || p.HasDrawing() {
		t.Error("AddPage() page is not empty")
	}
}

func TestDocument_DeletePage(t *testing.T) {
	tests := []struct {
		name        string
		pages       int
		current     int
		remove      int
		wantOK      bool
		wantLen     int
		wantCurrent int
	}{
		{name: "last page is kept", pages: 1, current: 0, remove: 0, wantOK: false, wantLen: 1, wantCurrent: 0},
		{name: "index out of range", pages: 3, current: 1, remove: 3, wantOK: false, wantLen: 3, wantCurrent: 1},
		{name: "negative index", pages: 3, current: 1, remove: -1, wantOK: false, wantLen: 3, wantCurrent: 1},
		{name: "delete current last page", pages: 3, current: 2, remove: 2, wantOK: true, wantLen: 2, wantCurrent: 1},
		{name: "delete after current", pages: 3, current: 0, remove: 2, wantOK: true, wantLen: 2, wantCurrent: 0},
		{name: "delete before current", pages: 3, current: 2, remove: 0, wantOK: true, wantLen: 2, wantCurrent: 1},
		{name: "delete current middle", pages: 3, current: 1, remove: 1, wantOK: true, wantLen: 2, wantCurrent: 0},
		{name: "delete current first", pages: 3, current: 0, remove: 0, wantOK: true, wantLen: 2, wantCurrent: 0},
		{name: "delete first while on second", pages: 2, current: 1, remove: 0, wantOK: true, wantLen: 1, wantCurrent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _ := newDocument(t, tt.pages)
			doc.SetCurrentIndex(tt.current)
			var removedID uuid.UUID
			if p := doc.Page(tt.remove); p != nil {
				removedID = p.ID
			}

			ok := doc.DeletePage(tt.remove)
			if ok != tt.wantOK {
				t.Errorf("DeletePage(%d) = %v, want %v", tt.remove, ok, tt.wantOK)
			}
			if doc.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", doc.Len(), tt.wantLen)
			}
			if doc.CurrentIndex() != tt.wantCurrent {
				t.Errorf("CurrentIndex() = %d, want %d", doc.CurrentIndex(), tt.wantCurrent)
			}
			if ok {
				for _, p := range doc.Pages() {
					if p.ID == removedID {
						t.Error("deleted page is still present")
					}
				}
			}
		})
	}
}

func TestDocument_NeverEmpty(t *testing.T) {
	doc, _ := newDocument(t, 4)
	for i := 0; i < 10; i++ {
		doc.DeletePage(0)
	}
	if doc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", doc.Len())
	}
	if doc.CurrentPage() == nil {
		t.Error("CurrentPage() = nil")
	}
}

func TestDocument_SetCurrentIndexClamps(t *testing.T) {
	doc, _ := newDocument(t, 3)

	doc.SetCurrentIndex(10)
	if doc.CurrentIndex() != 2 {
		t.Errorf("SetCurrentIndex(10) -> %d, want 2", doc.CurrentIndex())
	}
	doc.SetCurrentIndex(-5)
	if doc.CurrentIndex() != 0 {
		t.Errorf("SetCurrentIndex(-5) -> %d, want 0", doc.CurrentIndex())
	}
}

func TestDocument_Elements(t *testing.T) {
	clock := testutil.FixedClock()
	doc, _ := newDocument(t, 2)

	text := doc.AddText("Hello", clock)
	textID := text.ID
	clock.Advance(time.Second)
	img := doc.AddImage([]byte{1, 2, 3}, clock)
	imgID := img.ID

	if got := len(doc.CurrentPage().Elements); got != 2 {
		t.Fatalf("elements on current page = %d, want 2", got)
	}

	t.Run("find", func(t *testing.T) {
		el, pi := doc.FindElement(textID)
		if el == nil || pi != doc.CurrentIndex() {
			t.Fatalf("FindElement() = %v, %d", el, pi)
		}
		if el.TextValue() != "Hello" {
			t.Errorf("TextValue() = %q, want Hello", el.TextValue())
		}
		if el, pi := doc.FindElement(uuid.New()); el != nil || pi != -1 {
			t.Errorf("FindElement(unknown) = %v, %d, want nil, -1", el, pi)
		}
	})

	t.Run("update clamps scale", func(t *testing.T) {
		ok := doc.UpdateElement(imgID, func(el *scrapbook.Element) { el.Scale = 12 })
		if !ok {
			t.Fatal("UpdateElement() = false")
		}
		el, _ := doc.FindElement(imgID)
		if el.Scale != scrapbook.MaxScale {
			t.Errorf("Scale = %v, want %v", el.Scale, scrapbook.MaxScale)
		}
		if doc.UpdateElement(uuid.New(), func(*scrapbook.Element) {}) {
			t.Error("UpdateElement(unknown) = true")
		}
	})

	t.Run("bring to front", func(t *testing.T) {
		clock.Advance(time.Minute)
		if !doc.BringToFront(textID, clock) {
			t.Fatal("BringToFront() = false")
		}
		order := scrapbook.RenderOrder(doc.CurrentPage().Elements)
		if order[len(order)-1].ID != textID {
			t.Error("text element is not drawn last after BringToFront")
		}
	})

	t.Run("remove", func(t *testing.T) {
		if !doc.RemoveElement(imgID) {
			t.Fatal("RemoveElement() = false")
		}
		if el, _ := doc.FindElement(imgID); el != nil {
			t.Error("removed element is still found")
		}
		if doc.RemoveElement(imgID) {
			t.Error("second RemoveElement() = true")
		}
	})
}

func TestDocument_Drawing(t *testing.T) {
	doc, _ := newDocument(t, 1)

	doc.SetDrawing([]byte("strokes"))
	if !doc.CurrentPage().HasDrawing() {
		t.Fatal("HasDrawing() = false after SetDrawing")
	}
	doc.ClearDrawing()
	if doc.CurrentPage().HasDrawing() {
		t.Error("HasDrawing() = true after ClearDrawing")
	}
}

func TestDocument_Observers(t *testing.T) {
	clock := testutil.FixedClock()
	doc, _ := newDocument(t, 1)

	var got []scrapbook.ChangeKind
	doc.Subscribe(scrapbook.ObserverFunc(func(c scrapbook.Change) {
		got = append(got, c.Kind)
	}))

	doc.AddPage()
	doc.SetCurrentIndex(0)
	el := doc.AddText("x", clock)
	id := el.ID
	doc.UpdateElement(id, func(el *scrapbook.Element) { el.Rotation = 90 })
	doc.SetDrawing([]byte("d"))
	doc.RemoveElement(id)
	doc.DeletePage(1)
	doc.DeletePage(0) // refused, no notification

	want := []scrapbook.ChangeKind{
		scrapbook.PageAdded,
		scrapbook.CurrentPageChanged,
		scrapbook.ElementAdded,
		scrapbook.ElementChanged,
		scrapbook.DrawingChanged,
		scrapbook.ElementRemoved,
		scrapbook.PageDeleted,
	}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderOrder(t *testing.T) {
	els := []scrapbook.Element{
		{ID: testutil.SeqID(1), ZIndex: 30},
		{ID: testutil.SeqID(2), ZIndex: 10},
		{ID: testutil.SeqID(3), ZIndex: 20},
		{ID: testutil.SeqID(4), ZIndex: 10},
	}

	got := scrapbook.RenderOrder(els)

	want := []uuid.UUID{testutil.SeqID(2), testutil.SeqID(4), testutil.SeqID(3), testutil.SeqID(1)}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("RenderOrder()[%d] = %v, want %v", i, got[i].ID, id)
		}
	}
	if els[0].ID != testutil.SeqID(1) {
		t.Error("RenderOrder() modified its input")
	}
}
