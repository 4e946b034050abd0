package testutil

import (
	"sync"

	"scrapbook-go/internal/encryption"
)

// NewTestEncryptor creates a deterministic header-only encryptor.
func NewTestEncryptor() *encryption.TestEncryptor {
	return encryption.NewTestEncryptor()
}

// StubCoverRenderer returns "cover:<title>" instead of an image and records
// the titles it was asked for.
type StubCoverRenderer struct {
	mu     sync.Mutex
	Titles []string
}

func (r *StubCoverRenderer) PlaceholderCover(title string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Titles = append(r.Titles, title)
	return []byte("cover:" + title), nil
}
