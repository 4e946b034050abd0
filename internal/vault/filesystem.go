package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"scrapbook-go/internal/scrapbook"
)

// archiveExt is appended to every key to form a file or object name.
const archiveExt = ".archive"

// FileSystemVault stores archives as files:
//
//	<root>/
//	  archives/
//	    <key>.archive
type FileSystemVault struct {
	name       string
	root       string
	archiveDir string
}

// NewFileSystemVault creates a vault rooted at root, creating the directory
// layout if needed.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	archiveDir := filepath.Join(root, "archives")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &FileSystemVault{
		name:       name,
		root:       root,
		archiveDir: archiveDir,
	}, nil
}

// PutArchive writes the archive atomically, replacing any previous one.
func (v *FileSystemVault) PutArchive(_ context.Context, key string, r io.Reader, size int64) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return v.writeFile(filepath.Join(v.archiveDir, key+archiveExt), r, size)
}

// GetArchive copies the archive stored under key to w.
func (v *FileSystemVault) GetArchive(_ context.Context, key string, w io.Writer) error {
	if err := validateKey(key); err != nil {
		return err
	}

	f, err := os.Open(filepath.Join(v.archiveDir, key+archiveExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: archive %s", scrapbook.ErrNotFound, key)
		}
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	return nil
}

// ListArchives returns the stored keys in lexical order. Leftover temp files
// are skipped.
func (v *FileSystemVault) ListArchives(context.Context) ([]string, error) {
	entries, err := os.ReadDir(v.archiveDir)
	if err != nil {
		return nil, fmt.Errorf("reading archive directory: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, archiveExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, archiveExt))
	}
	slices.Sort(keys)
	return keys, nil
}

// ValidateSetup checks that the vault directories exist.
func (v *FileSystemVault) ValidateSetup(context.Context) error {
	for _, dir := range []string{v.root, v.archiveDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

// writeFile copies r to destPath through a temp file in the same directory
// and renames it into place once size bytes were written.
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

// validateKey rejects keys that could escape the archive namespace.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid archive key %q", key)
	}
	return nil
}

var _ scrapbook.Vault = (*FileSystemVault)(nil)
