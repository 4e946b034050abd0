package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"scrapbook-go/internal/scrapbook"
)

// StubClock is a scrapbook.Clock that only moves when told to.
// Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to 2024-01-15 10:30:00 UTC, the
// creation date of every fixture scrapbook.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
}

// ZIndex is the z-index an element brought to front right now would get.
func (c *StubClock) ZIndex() float64 {
	return scrapbook.Timestamp(c.Now())
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Elements brought to front after an
// Advance stack above earlier ones.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator returns sequential UUIDs:
// 00000000-0000-0000-0000-000000000001, ...0002, and so on.
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return SeqID(g.counter)
}

// SeqID returns the n-th id handed out by a StubIDGenerator.
func SeqID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}
