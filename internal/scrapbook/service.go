package scrapbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Service coordinates the store, archive vault, encryption and cover
// rendering behind the operations the CLI exposes.
type Service struct {
	store     Store
	vault     Vault
	encryptor Encryptor
	covers    CoverRenderer
	logger    Logger
	clock     Clock
	ids       IDGenerator
}

// NewService wires a Service. vault, encryptor and covers may be nil: export
// then fails, archives are written in the clear, and books without a cover
// stay without one.
func NewService(store Store, vault Vault, encryptor Encryptor, covers CoverRenderer, logger Logger, clock Clock, ids IDGenerator) *Service {
	return &Service{
		store:     store,
		vault:     vault,
		encryptor: encryptor,
		covers:    covers,
		logger:    logger,
		clock:     clock,
		ids:       ids,
	}
}

// CreateParams are the user's choices when making a new scrapbook.
type CreateParams struct {
	Title     string
	PageStyle PageStyle
	Cover     []byte // encoded image; nil for a generated placeholder
}

// Create stores a new scrapbook with a fresh id and creation date. The body
// starts empty and opens as a single blank page.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Scrapbook, error) {
	now := s.clock.Now()
	sb := &Scrapbook{
		ID:           s.ids.New(),
		Title:        NormalizeTitle(p.Title),
		CreationDate: now,
		PageStyle:    p.PageStyle.Normalize(),
		CoverImage:   p.Cover,
		UpdatedAt:    now,
	}
	if err := s.ensureCover(sb); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, sb); err != nil {
		return nil, fmt.Errorf("creating scrapbook: %w", err)
	}

	s.logger.Info("scrapbook created", "id", sb.ID.String(), "title", sb.Title)
	return sb, nil
}

// UpdateParams carries the edits to apply; nil fields are left unchanged.
type UpdateParams struct {
	Title      *string
	PageStyle  *PageStyle
	Cover      []byte
	ResetCover bool // discard the current cover and generate a placeholder
}

// Update applies edits to title, style and cover.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*Scrapbook, error) {
	sb, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading scrapbook: %w", err)
	}

	if p.Title != nil {
		sb.Title = NormalizeTitle(*p.Title)
	}
	if p.PageStyle != nil {
		sb.PageStyle = p.PageStyle.Normalize()
	}
	switch {
	case p.Cover != nil:
		sb.CoverImage = p.Cover
	case p.ResetCover:
		sb.CoverImage = nil
	}
	if err := s.ensureCover(sb); err != nil {
		return nil, err
	}
	sb.UpdatedAt = s.clock.Now()

	if err := s.store.Update(ctx, sb); err != nil {
		return nil, fmt.Errorf("updating scrapbook: %w", err)
	}

	s.logger.Info("scrapbook updated", "id", id.String())
	return sb, nil
}

// ensureCover fills in a placeholder cover bearing the title when the book
// has none.
func (s *Service) ensureCover(sb *Scrapbook) error {
	if sb.CoverImage != nil || s.covers == nil {
		return nil
	}
	cover, err := s.covers.PlaceholderCover(sb.Title)
	if err != nil {
		return fmt.Errorf("generating placeholder cover: %w", err)
	}
	sb.CoverImage = cover
	return nil
}

// Get returns a scrapbook record, body included.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Scrapbook, error) {
	return s.store.Get(ctx, id)
}

// List returns all scrapbooks, newest first.
func (s *Service) List(ctx context.Context) ([]*Scrapbook, error) {
	return s.store.List(ctx)
}

// Delete removes a scrapbook and its pages.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting scrapbook: %w", err)
	}
	s.logger.Info("scrapbook deleted", "id", id.String())
	return nil
}

// Open loads and decodes a scrapbook's pages. An unreadable body is not an
// error: it is logged and the document opens with a single empty page.
func (s *Service) Open(ctx context.Context, id uuid.UUID) (*Document, error) {
	body, err := s.store.LoadBody(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading body: %w", err)
	}

	doc, err := OpenDocument(body, s.ids)
	var recovered *RecoveryError
	if errors.As(err, &recovered) {
		s.logger.Warn("scrapbook body unreadable, opened blank", "id", id.String(), "error", recovered.Err.Error())
	} else if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save encodes doc and replaces the stored body. If encoding fails nothing
// is written and the previous body stays in place.
func (s *Service) Save(ctx context.Context, id uuid.UUID, doc *Document) error {
	body, err := doc.Encode()
	if err != nil {
		s.logger.Error("encoding scrapbook failed", "id", id.String(), "error", err.Error())
		return fmt.Errorf("encoding scrapbook %s: %w", id, err)
	}
	if err := s.store.SaveBody(ctx, id, body); err != nil {
		return fmt.Errorf("saving body: %w", err)
	}
	s.logger.Debug("scrapbook saved", "id", id.String(), "pages", doc.Len(), "bytes", len(body))
	return nil
}

// Edit opens the document, applies fn and saves the result. Nothing is saved
// when fn fails, or when it returns ErrUnchanged.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, fn func(*Document) error) (*Document, error) {
	doc, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); errors.Is(err, ErrUnchanged) {
		return doc, nil
	} else if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, id, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Clock returns the service clock, used by callers that stamp z-order.
func (s *Service) Clock() Clock { return s.clock }

// IDs returns the service id generator.
func (s *Service) IDs() IDGenerator { return s.ids }

// Export writes the scrapbook to the vault, sealed with the encryptor when
// one is configured. The archive key is the scrapbook id.
func (s *Service) Export(ctx context.Context, id uuid.UUID) (string, error) {
	if s.vault == nil {
		return "", errors.New("no vault configured")
	}

	sb, err := s.store.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("loading scrapbook: %w", err)
	}

	data, err := marshalArchive(sb, s.clock.Now())
	if err != nil {
		return "", err
	}

	if s.encryptor != nil {
		var sealed bytes.Buffer
		if err := s.encryptor.Encrypt(bytes.NewReader(data), &sealed); err != nil {
			return "", fmt.Errorf("encrypting archive: %w", err)
		}
		data = sealed.Bytes()
	}

	key := sb.ID.String()
	if err := s.vault.PutArchive(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("uploading archive: %w", err)
	}

	s.logger.Info("scrapbook exported", "id", key, "bytes", len(data), "encrypted", s.encryptor != nil)
	return key, nil
}

// Unlocker yields a DecryptionContext, typically by prompting for a
// passphrase. It is only called for sealed archives.
type Unlocker func() (DecryptionContext, error)

// Import restores an archive from the vault, replacing any local scrapbook
// with the same id. Archives written in the clear are read directly; sealed
// ones are opened with the context returned by unlock.
func (s *Service) Import(ctx context.Context, key string, unlock Unlocker) (*Scrapbook, error) {
	if s.vault == nil {
		return nil, errors.New("no vault configured")
	}

	var buf bytes.Buffer
	if err := s.vault.GetArchive(ctx, key, &buf); err != nil {
		return nil, fmt.Errorf("downloading archive: %w", err)
	}

	data := buf.Bytes()
	if isSealed(data) {
		if unlock == nil {
			return nil, fmt.Errorf("archive %s is encrypted", key)
		}
		dec, err := unlock()
		if err != nil {
			return nil, fmt.Errorf("unlocking: %w", err)
		}
		var plain bytes.Buffer
		if err := dec.Decrypt(bytes.NewReader(data), &plain); err != nil {
			return nil, fmt.Errorf("decrypting archive: %w", err)
		}
		data = plain.Bytes()
	}

	sb, err := unmarshalArchive(data)
	if err != nil {
		return nil, err
	}
	sb.UpdatedAt = s.clock.Now()

	if err := s.store.Put(ctx, sb); err != nil {
		return nil, fmt.Errorf("restoring scrapbook: %w", err)
	}

	s.logger.Info("scrapbook imported", "id", sb.ID.String(), "title", sb.Title)
	return sb, nil
}

// ListArchives returns the keys of all archives in the vault.
func (s *Service) ListArchives(ctx context.Context) ([]string, error) {
	if s.vault == nil {
		return nil, errors.New("no vault configured")
	}
	return s.vault.ListArchives(ctx)
}
