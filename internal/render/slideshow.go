package render

import (
	"context"
	"errors"
	"image"
	"time"

	"golang.org/x/sync/errgroup"

	"scrapbook-go/internal/scrapbook"
)

// DefaultSlideInterval is how long each page is shown.
const DefaultSlideInterval = 5 * time.Second

// Slideshow presents the pages of one scrapbook in order, wrapping around at
// either end. Drawings are rasterized ahead of time by Prerender; a page
// whose drawing is missing or unreadable is shown without it.
type Slideshow struct {
	renderer    *PageRenderer
	pages       []scrapbook.Page
	style       scrapbook.PageStyle
	concurrency int
	logger      scrapbook.Logger

	current int
	layers  []image.Image
}

// NewSlideshow prepares a slideshow over pages. concurrency bounds how many
// drawings Prerender rasterizes at once.
func NewSlideshow(renderer *PageRenderer, pages []scrapbook.Page, style scrapbook.PageStyle, concurrency int, logger scrapbook.Logger) *Slideshow {
	if logger == nil {
		logger = scrapbook.NewNopLogger()
	}
	return &Slideshow{
		renderer:    renderer,
		pages:       pages,
		style:       style,
		concurrency: max(1, concurrency),
		logger:      logger,
		layers:      make([]image.Image, len(pages)),
	}
}

// Prerender rasterizes every page drawing concurrently and waits for all of
// them. Unreadable drawings are logged and skipped.
func (s *Slideshow) Prerender(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range s.pages {
		if !s.pages[i].HasDrawing() {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			layer, err := s.renderer.RenderDrawing(&s.pages[i])
			if err != nil {
				s.logger.Warn("drawing unreadable, showing page without it", "page", s.pages[i].ID.String(), "error", err.Error())
				return nil
			}
			s.layers[i] = layer
			return nil
		})
	}
	return g.Wait()
}

// Len returns the number of pages.
func (s *Slideshow) Len() int { return len(s.pages) }

// Current returns the index of the page on show.
func (s *Slideshow) Current() int { return s.current }

// Next advances to the following page, wrapping to the first.
func (s *Slideshow) Next() {
	if len(s.pages) == 0 {
		return
	}
	s.current = (s.current + 1) % len(s.pages)
}

// Prev steps back one page, wrapping to the last.
func (s *Slideshow) Prev() {
	if len(s.pages) == 0 {
		return
	}
	s.current = (s.current - 1 + len(s.pages)) % len(s.pages)
}

// Frame renders page i with its prerendered drawing, if any.
func (s *Slideshow) Frame(i int) *image.RGBA {
	return s.renderer.Render(&s.pages[i], s.style, s.layers[i])
}

// Frames renders every page in order.
func (s *Slideshow) Frames() []image.Image {
	frames := make([]image.Image, len(s.pages))
	for i := range s.pages {
		frames[i] = s.Frame(i)
	}
	return frames
}

// Run shows the current page, then advances every interval until ctx is
// done. A single page is shown once and Run returns. An error from show
// stops the slideshow and is returned.
func (s *Slideshow) Run(ctx context.Context, interval time.Duration, show func(index int, frame image.Image) error) error {
	if len(s.pages) == 0 {
		return nil
	}
	if interval <= 0 {
		interval = DefaultSlideInterval
	}

	if err := show(s.current, s.Frame(s.current)); err != nil {
		return err
	}
	if len(s.pages) < 2 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.Next()
			if err := show(s.current, s.Frame(s.current)); err != nil {
				return err
			}
		}
	}
}
