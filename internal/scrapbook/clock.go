package scrapbook

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. Creation dates and z-order stamps come
// from it so tests can pin them.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator hands out identifiers for scrapbooks, pages and elements.
type IDGenerator interface {
	New() uuid.UUID
}

// UUIDGenerator produces random (version 4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() uuid.UUID { return uuid.New() }

// Timestamp converts t to the fractional seconds-since-epoch form used for
// element z-order.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
