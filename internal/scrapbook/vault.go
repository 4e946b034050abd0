package scrapbook

import (
	"context"
	"io"
)

// Vault stores exported scrapbook archives outside the local database.
// Archives are keyed by scrapbook id; writing the same key again replaces
// the previous archive.
type Vault interface {
	// PutArchive stores size bytes read from r under key.
	PutArchive(ctx context.Context, key string, r io.Reader, size int64) error

	// GetArchive writes the archive stored under key to w, or returns
	// ErrNotFound.
	GetArchive(ctx context.Context, key string, w io.Writer) error

	// ListArchives returns the stored keys in lexical order.
	ListArchives(ctx context.Context) ([]string, error)

	// ValidateSetup checks that the vault is reachable and writable.
	ValidateSetup(ctx context.Context) error
}
