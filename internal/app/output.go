package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"scrapbook-go/internal/render"
	"scrapbook-go/internal/scrapbook"
)

// slideshow opens the scrapbook and prerenders its drawings.
func (a *ScrapbookApp) slideshow(ctx context.Context, id uuid.UUID) (*scrapbook.Scrapbook, *render.Slideshow, error) {
	sb, err := a.service.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := a.service.Open(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	show := render.NewSlideshow(a.pages, doc.Pages(), sb.PageStyle.Normalize(), a.cfg.Render.WithDefaults().Concurrency, a.logger)
	if err := show.Prerender(ctx); err != nil {
		return nil, nil, fmt.Errorf("rendering drawings: %w", err)
	}
	return sb, show, nil
}

// Render writes every page of the scrapbook to outDir as page-NNN.png, plus
// cover.jpg when the book has a cover. It returns the written paths.
func (a *ScrapbookApp) Render(ctx context.Context, rawID, outDir string) ([]string, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	sb, show, err := a.slideshow(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	for i, frame := range show.Frames() {
		data, err := render.EncodePNG(frame)
		if err != nil {
			return written, err
		}
		path := filepath.Join(outDir, fmt.Sprintf("page-%03d.png", i+1))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}

	if len(sb.CoverImage) > 0 {
		path := filepath.Join(outDir, "cover.jpg")
		if err := os.WriteFile(path, sb.CoverImage, 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}

	a.logger.Info("scrapbook rendered", "id", id.String(), "files", len(written), "dir", outDir)
	return written, nil
}

// SlideshowGIF writes the scrapbook as a looping animated GIF at outPath,
// showing each page for the configured slide interval.
func (a *ScrapbookApp) SlideshowGIF(ctx context.Context, rawID, outPath string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	_, show, err := a.slideshow(ctx, id)
	if err != nil {
		return err
	}

	data, err := render.EncodeGIF(show.Frames(), a.cfg.Render.WithDefaults().SlideInterval.Duration)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	a.logger.Info("slideshow written", "id", id.String(), "pages", show.Len(), "path", outPath)
	return nil
}

// PlaySlideshow presents the pages through show, advancing every slide
// interval until ctx is cancelled. A single-page book is shown once.
func (a *ScrapbookApp) PlaySlideshow(ctx context.Context, rawID string, show func(index int, frame image.Image) error) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	_, s, err := a.slideshow(ctx, id)
	if err != nil {
		return err
	}
	return s.Run(ctx, a.cfg.Render.WithDefaults().SlideInterval.Duration, show)
}

// Export writes the scrapbook to the vault and returns the archive key.
func (a *ScrapbookApp) Export(ctx context.Context, rawID string) (string, error) {
	id, err := parseID(rawID)
	if err != nil {
		return "", err
	}
	return a.service.Export(ctx, id)
}

// Import restores the archive stored under key. passphrase is asked for only
// when the archive turns out to be encrypted.
func (a *ScrapbookApp) Import(ctx context.Context, key string, passphrase func() (string, error)) (*scrapbook.Scrapbook, error) {
	unlock := func() (scrapbook.DecryptionContext, error) {
		if a.encryptor == nil {
			return nil, errors.New("archive is encrypted but encryption is disabled in config")
		}
		if !a.encryptor.IsConfigured() {
			return nil, errors.New("archive is encrypted but no keys are set up (run `scrapbook config keys`)")
		}
		p, err := passphrase()
		if err != nil {
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		return a.encryptor.Unlock(p)
	}

	var sb *scrapbook.Scrapbook
	err := a.mutate(ctx, []string{key}, func() error {
		var err error
		sb, err = a.service.Import(ctx, key, unlock)
		return err
	})
	return sb, err
}

// ListArchives returns the archive keys stored in the vault.
func (a *ScrapbookApp) ListArchives(ctx context.Context) ([]string, error) {
	return a.service.ListArchives(ctx)
}
