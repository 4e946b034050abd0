package scrapbook

// Gesture handling for a single element. Drag and pinch are independent
// state machines over disjoint fields (Position and Scale), so a host may
// drive both at once and apply their events in any order.

// DragGesture moves an element. Translations reported while the drag is in
// progress are presentation-only; Position changes once, at End.
type DragGesture struct {
	el     *Element
	active bool
	offset Point
}

// NewDragGesture attaches a drag to el.
func NewDragGesture(el *Element) *DragGesture {
	return &DragGesture{el: el}
}

// Begin starts a drag. Nothing is captured from the element.
func (g *DragGesture) Begin() {
	g.active = true
	g.offset = Point{}
}

// Change records the translation accumulated since Begin. The element is
// not touched; hosts read Offset to draw it displaced.
func (g *DragGesture) Change(translation Point) {
	g.active = true
	g.offset = translation
}

// End commits the total translation to the element and returns to idle.
func (g *DragGesture) End(translation Point) {
	g.el.Position = g.el.Position.Add(translation)
	g.offset = Point{}
	g.active = false
}

// Active reports whether a drag is in progress.
func (g *DragGesture) Active() bool { return g.active }

// Offset is the uncommitted displacement to draw the element with.
func (g *DragGesture) Offset() Point { return g.offset }

// PinchGesture scales an element. Every update recomputes from the scale
// captured at the start of the gesture and writes the clamped result to the
// element immediately.
type PinchGesture struct {
	el        *Element
	active    bool
	baseScale float64
}

// NewPinchGesture attaches a pinch to el.
func NewPinchGesture(el *Element) *PinchGesture {
	return &PinchGesture{el: el}
}

// Begin captures the element's current scale as the base.
func (g *PinchGesture) Begin() {
	g.active = true
	g.baseScale = g.el.Scale
}

// Change applies magnification relative to the base scale. If the host never
// delivered Begin, the base is captured on the first update.
func (g *PinchGesture) Change(magnification float64) {
	if !g.active {
		g.Begin()
	}
	g.el.SetScale(g.baseScale * magnification)
}

// End returns the gesture to idle. The scale set by the last Change stays.
func (g *PinchGesture) End() {
	g.active = false
}

// Active reports whether a pinch is in progress.
func (g *PinchGesture) Active() bool { return g.active }

// BringToFront handles a tap: the element's ZIndex becomes the current time,
// so the most recently tapped element draws on top without renumbering its
// siblings.
func BringToFront(el *Element, clock Clock) {
	el.ZIndex = Timestamp(clock.Now())
}
