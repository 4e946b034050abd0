package scrapbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// archiveVersion is bumped whenever the envelope layout changes.
const archiveVersion = 1

// archive is the portable form of a scrapbook written to a vault. The body
// is carried as stored, so an archive restores byte-for-byte.
type archive struct {
	Version      int       `json:"version"`
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreationDate time.Time `json:"creationDate"`
	PageStyle    string    `json:"pageStyle"`
	CoverImage   []byte    `json:"coverImage,omitempty"`
	Body         []byte    `json:"body,omitempty"`
	ExportedAt   time.Time `json:"exportedAt"`
}

// isSealed reports whether data is not a clear-text archive. Clear archives
// are JSON objects.
func isSealed(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) == 0 || trimmed[0] != '{'
}

func marshalArchive(sb *Scrapbook, exportedAt time.Time) ([]byte, error) {
	a := archive{
		Version:      archiveVersion,
		ID:           sb.ID.String(),
		Title:        sb.Title,
		CreationDate: sb.CreationDate.UTC(),
		PageStyle:    sb.PageStyle.String(),
		CoverImage:   sb.CoverImage,
		Body:         sb.Body,
		ExportedAt:   exportedAt.UTC(),
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding archive: %w", err)
	}
	return data, nil
}

func unmarshalArchive(data []byte) (*Scrapbook, error) {
	var a archive
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding archive: %w", err)
	}
	if a.Version != archiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d", a.Version)
	}
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return nil, fmt.Errorf("archive id: %w", err)
	}
	return &Scrapbook{
		ID:           id,
		Title:        NormalizeTitle(a.Title),
		CreationDate: a.CreationDate,
		PageStyle:    PageStyle(a.PageStyle).Normalize(),
		CoverImage:   a.CoverImage,
		Body:         a.Body,
	}, nil
}
