package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"scrapbook-go/internal/scrapbook"
)

// MemoryVault keeps archives in memory. It is safe for concurrent use.
type MemoryVault struct {
	name     string
	archives map[string][]byte
	mu       sync.RWMutex
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:     name,
		archives: make(map[string][]byte),
	}
}

// PutArchive stores the archive, replacing any previous one under key.
func (m *MemoryVault) PutArchive(_ context.Context, key string, r io.Reader, size int64) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.archives[key] = data
	return nil
}

// GetArchive writes the archive stored under key to w.
func (m *MemoryVault) GetArchive(_ context.Context, key string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.archives[key]
	if !ok {
		return fmt.Errorf("%w: archive %s", scrapbook.ErrNotFound, key)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// ListArchives returns the stored keys in lexical order.
func (m *MemoryVault) ListArchives(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.archives))
	for k := range m.archives {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// ValidateSetup always succeeds for an in-memory vault.
func (m *MemoryVault) ValidateSetup(context.Context) error {
	return nil
}

var _ scrapbook.Vault = (*MemoryVault)(nil)
