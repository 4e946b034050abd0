package scrapbook_test

import (
	"math"
	"testing"
	"time"

	"scrapbook-go/internal/scrapbook"
	"scrapbook-go/internal/testutil"
)

func newTestElement() scrapbook.Element {
	return scrapbook.NewTextElement(testutil.SeqID(1), "x", 0)
}

func TestPinchGesture_ScaleClamp(t *testing.T) {
	tests := []struct {
		name    string
		start   float64
		factors []float64
		live    []float64
	}{
		{name: "overshoot then undershoot", start: 1.0, factors: []float64{5.0, 0.1}, live: []float64{3.0, 0.5}},
		{name: "within range", start: 1.0, factors: []float64{1.2, 1.5, 2.0}, live: []float64{1.2, 1.5, 2.0}},
		{name: "recover after clamp", start: 2.0, factors: []float64{2.0, 1.0}, live: []float64{3.0, 2.0}},
		{name: "from minimum", start: 0.5, factors: []float64{0.5, 4.0}, live: []float64{0.5, 2.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := newTestElement()
			el.Scale = tt.start
			g := scrapbook.NewPinchGesture(&el)

			g.Begin()
			for i, m := range tt.factors {
				g.Change(m)
				if el.Scale != tt.live[i] {
					t.Errorf("after factor %v scale = %v, want %v", m, el.Scale, tt.live[i])
				}
				if el.Scale < scrapbook.MinScale || el.Scale > scrapbook.MaxScale {
					t.Errorf("scale %v out of bounds", el.Scale)
				}
			}
			g.End()

			last := tt.factors[len(tt.factors)-1]
			if want := scrapbook.ClampScale(tt.start * last); el.Scale != want {
				t.Errorf("final scale = %v, want clamp(%v * %v) = %v", el.Scale, tt.start, last, want)
			}
			if g.Active() {
				t.Error("Active() = true after End")
			}
		})
	}
}

func TestPinchGesture_BaseIsCapturedPerGesture(t *testing.T) {
	el := newTestElement()
	g := scrapbook.NewPinchGesture(&el)

	g.Begin()
	g.Change(2.0)
	g.End()

	g.Begin()
	g.Change(1.25)
	g.End()

	if el.Scale != 2.5 {
		t.Errorf("scale = %v, want 2.5", el.Scale)
	}
}

func TestPinchGesture_ChangeWithoutBegin(t *testing.T) {
	el := newTestElement()
	el.Scale = 2.0
	g := scrapbook.NewPinchGesture(&el)

	g.Change(1.25)
	if !g.Active() {
		t.Error("Active() = false after Change")
	}
	if el.Scale != 2.5 {
		t.Errorf("scale = %v, want 2.5", el.Scale)
	}
}

func TestDragGesture_CommitsOnEnd(t *testing.T) {
	el := newTestElement()
	start := el.Position
	g := scrapbook.NewDragGesture(&el)

	g.Begin()
	g.Change(scrapbook.Point{X: 5, Y: 5})
	g.Change(scrapbook.Point{X: 30, Y: -10})

	if el.Position != start {
		t.Errorf("Position changed during drag: %v, want %v", el.Position, start)
	}
	if g.Offset() != (scrapbook.Point{X: 30, Y: -10}) {
		t.Errorf("Offset() = %v, want (30, -10)", g.Offset())
	}
	if !g.Active() {
		t.Error("Active() = false during drag")
	}

	g.End(scrapbook.Point{X: 30, Y: -10})

	want := scrapbook.Point{X: start.X + 30, Y: start.Y - 10}
	if el.Position != want {
		t.Errorf("Position = %v, want %v", el.Position, want)
	}
	if g.Offset() != (scrapbook.Point{}) || g.Active() {
		t.Error("drag did not return to idle")
	}
}

func TestDragAndPinch_Commute(t *testing.T) {
	apply := func(dragFirst bool) scrapbook.Element {
		el := newTestElement()
		drag := scrapbook.NewDragGesture(&el)
		pinch := scrapbook.NewPinchGesture(&el)

		steps := []func(){
			func() { drag.Begin(); drag.Change(scrapbook.Point{X: 4, Y: 4}); drag.End(scrapbook.Point{X: 12, Y: 7}) },
			func() { pinch.Begin(); pinch.Change(1.8); pinch.Change(2.2); pinch.End() },
		}
		if !dragFirst {
			steps[0], steps[1] = steps[1], steps[0]
		}
		for _, s := range steps {
			s()
		}
		return el
	}

	a, b := apply(true), apply(false)
	if a.Position != b.Position || a.Scale != b.Scale {
		t.Errorf("drag-then-pinch = %v/%v, pinch-then-drag = %v/%v", a.Position, a.Scale, b.Position, b.Scale)
	}
}

func TestDragAndPinch_Interleaved(t *testing.T) {
	el := newTestElement()
	drag := scrapbook.NewDragGesture(&el)
	pinch := scrapbook.NewPinchGesture(&el)

	drag.Begin()
	pinch.Begin()
	drag.Change(scrapbook.Point{X: 1, Y: 1})
	pinch.Change(2)
	drag.Change(scrapbook.Point{X: 3, Y: 2})
	pinch.Change(1.5)
	pinch.End()
	drag.End(scrapbook.Point{X: 3, Y: 2})

	if el.Scale != 1.5 {
		t.Errorf("Scale = %v, want 1.5", el.Scale)
	}
	if el.Position != (scrapbook.Point{X: 203, Y: 302}) {
		t.Errorf("Position = %v, want (203, 302)", el.Position)
	}
}

func TestBringToFront_Monotonic(t *testing.T) {
	clock := testutil.FixedClock()
	e1 := scrapbook.NewTextElement(testutil.SeqID(1), "one", clock.ZIndex())
	e2 := scrapbook.NewTextElement(testutil.SeqID(2), "two", clock.ZIndex())

	clock.Advance(time.Millisecond)
	scrapbook.BringToFront(&e1, clock)
	clock.Advance(time.Millisecond)
	scrapbook.BringToFront(&e2, clock)

	if !(e2.ZIndex > e1.ZIndex) {
		t.Errorf("e2.ZIndex = %v, want > e1.ZIndex = %v", e2.ZIndex, e1.ZIndex)
	}
	order := scrapbook.RenderOrder([]scrapbook.Element{e2, e1})
	if order[1].ID != e2.ID {
		t.Error("last tapped element is not drawn on top")
	}

	clock.Advance(time.Millisecond)
	scrapbook.BringToFront(&e1, clock)
	order = scrapbook.RenderOrder([]scrapbook.Element{e1, e2})
	if order[1].ID != e1.ID {
		t.Error("re-tapped element is not drawn on top")
	}
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 500_000_000, time.UTC)
	want := float64(ts.Unix()) + 0.5
	if got := scrapbook.Timestamp(ts); math.Abs(got-want) > 1e-6 {
		t.Errorf("Timestamp() = %v, want %v", got, want)
	}
}
