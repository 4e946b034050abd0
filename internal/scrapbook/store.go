package scrapbook

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists scrapbooks. Body bytes are opaque to it; encoding and
// decoding happen in this package.
type Store interface {
	// Create inserts a new scrapbook record.
	Create(ctx context.Context, sb *Scrapbook) error

	// Get returns the full record, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Scrapbook, error)

	// List returns all scrapbooks newest first. Body is not populated.
	List(ctx context.Context) ([]*Scrapbook, error)

	// Update writes title, page style and cover. Body is left alone.
	Update(ctx context.Context, sb *Scrapbook) error

	// Put inserts or fully replaces a record, body included.
	Put(ctx context.Context, sb *Scrapbook) error

	// Delete removes the scrapbook, or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// LoadBody returns the stored body; nil means the book was never edited.
	LoadBody(ctx context.Context, id uuid.UUID) ([]byte, error)

	// SaveBody replaces the stored body in one write.
	SaveBody(ctx context.Context, id uuid.UUID, body []byte) error

	Close() error
}

// OperationLog records CLI operations that change stored data.
type OperationLog interface {
	CreateOperation(ctx context.Context, name, parameters string) (*Operation, error)
	FinishOperation(ctx context.Context, id int64, status string) error
	ListOperations(ctx context.Context, limit int) ([]*Operation, error)
}

// Operation is one recorded command run.
type Operation struct {
	ID         int64
	Name       string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}
