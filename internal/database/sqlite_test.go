package database

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"scrapbook-go/internal/scrapbook"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

// newTestStore creates an in-memory store with migrations applied.
func newTestStore(t *testing.T) (*SQLiteStore, *fixedClock) {
	t.Helper()

	clock := &fixedClock{now: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	s, err := NewSQLiteStore(":memory:", clock)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s, clock
}

func newBook(title string, created time.Time) *scrapbook.Scrapbook {
	return &scrapbook.Scrapbook{
		ID:           uuid.New(),
		Title:        title,
		CreationDate: created,
		PageStyle:    scrapbook.StyleGrid,
		CoverImage:   []byte{0xFF, 0xD8},
	}
}

func TestSQLiteStore_CreateGet(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips all fields", func(t *testing.T) {
		s, clock := newTestStore(t)
		sb := newBook("Trip", clock.now)
		sb.Body = []byte(`[]`)

		if err := s.Create(ctx, sb); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := s.Get(ctx, sb.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.ID != sb.ID {
			t.Errorf("ID = %v, want %v", got.ID, sb.ID)
		}
		if got.Title != "Trip" {
			t.Errorf("Title = %q, want %q", got.Title, "Trip")
		}
		if !got.CreationDate.Equal(sb.CreationDate) {
			t.Errorf("CreationDate = %v, want %v", got.CreationDate, sb.CreationDate)
		}
		if got.PageStyle != scrapbook.StyleGrid {
			t.Errorf("PageStyle = %q, want %q", got.PageStyle, scrapbook.StyleGrid)
		}
		if !bytes.Equal(got.CoverImage, sb.CoverImage) {
			t.Errorf("CoverImage = %v, want %v", got.CoverImage, sb.CoverImage)
		}
		if string(got.Body) != "[]" {
			t.Errorf("Body = %q, want %q", got.Body, "[]")
		}
		if !got.UpdatedAt.Equal(clock.now) {
			t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, clock.now)
		}
	})

	t.Run("missing scrapbook is ErrNotFound", func(t *testing.T) {
		s, _ := newTestStore(t)

		_, err := s.Get(ctx, uuid.New())
		if !errors.Is(err, scrapbook.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		s, clock := newTestStore(t)
		sb := newBook("Trip", clock.now)

		if err := s.Create(ctx, sb); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := s.Create(ctx, sb); err == nil {
			t.Error("second Create() expected error")
		}
	})

	t.Run("unknown stored style reads as Plain", func(t *testing.T) {
		s, clock := newTestStore(t)
		sb := newBook("Trip", clock.now)
		sb.PageStyle = "Hexagons"

		if err := s.Create(ctx, sb); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		got, err := s.Get(ctx, sb.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.PageStyle != scrapbook.StylePlain {
			t.Errorf("PageStyle = %q, want Plain", got.PageStyle)
		}
	})
}

func TestSQLiteStore_List(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	base := clock.now
	older := newBook("Older", base.Add(-48*time.Hour))
	newest := newBook("Newest", base)
	middle := newBook("Middle", base.Add(-time.Hour))
	for _, sb := range []*scrapbook.Scrapbook{older, newest, middle} {
		if err := s.Create(ctx, sb); err != nil {
			t.Fatalf("Create(%s) error = %v", sb.Title, err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"Newest", "Middle", "Older"}
	if len(got) != len(want) {
		t.Fatalf("len(List()) = %d, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("List()[%d].Title = %q, want %q", i, got[i].Title, title)
		}
		if got[i].Body != nil {
			t.Errorf("List()[%d].Body should not be loaded", i)
		}
	}
}

func TestSQLiteStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates metadata but not body", func(t *testing.T) {
		s, clock := newTestStore(t)
		sb := newBook("Trip", clock.now)
		sb.Body = []byte(`[{"a":1}]`)
		if err := s.Create(ctx, sb); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		sb.Title = "Summer"
		sb.PageStyle = scrapbook.StyleDotted
		sb.CoverImage = nil
		sb.Body = nil
		sb.UpdatedAt = clock.now.Add(time.Minute)
		if err := s.Update(ctx, sb); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := s.Get(ctx, sb.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Title != "Summer" || got.PageStyle != scrapbook.StyleDotted {
			t.Errorf("Get() = %q/%q, want Summer/Dotted", got.Title, got.PageStyle)
		}
		if got.CoverImage != nil {
			t.Errorf("CoverImage = %v, want nil", got.CoverImage)
		}
		if string(got.Body) != `[{"a":1}]` {
			t.Errorf("Body = %q, should be unchanged", got.Body)
		}
	})

	t.Run("missing scrapbook is ErrNotFound", func(t *testing.T) {
		s, clock := newTestStore(t)

		err := s.Update(ctx, newBook("Ghost", clock.now))
		if !errors.Is(err, scrapbook.ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStore_Put(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	sb := newBook("Trip", clock.now)
	if err := s.Put(ctx, sb); err != nil {
		t.Fatalf("Put() insert error = %v", err)
	}

	sb.Title = "Restored"
	sb.Body = []byte(`[]`)
	if err := s.Put(ctx, sb); err != nil {
		t.Fatalf("Put() replace error = %v", err)
	}

	got, err := s.Get(ctx, sb.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Restored" || string(got.Body) != "[]" {
		t.Errorf("Get() = %q/%q, want Restored/[]", got.Title, got.Body)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("len(List()) = %d, want 1", len(all))
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	sb := newBook("Trip", clock.now)
	if err := s.Create(ctx, sb); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := s.Delete(ctx, sb.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, sb.ID); !errors.Is(err, scrapbook.ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, sb.ID); !errors.Is(err, scrapbook.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_Body(t *testing.T) {
	ctx := context.Background()

	t.Run("new scrapbook has nil body", func(t *testing.T) {
		s, clock := newTestStore(t)
		sb := newBook("Trip", clock.now)
		if err := s.Create(ctx, sb); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		body, err := s.LoadBody(ctx, sb.ID)
		if err != nil {
			t.Fatalf("LoadBody() error = %v", err)
		}
		if body != nil {
			t.Errorf("LoadBody() = %q, want nil", body)
		}
	})

	t.Run("save then load", func(t *testing.T) {
		s, clock := newTestStore(t)
		sb := newBook("Trip", clock.now)
		if err := s.Create(ctx, sb); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		clock.now = clock.now.Add(time.Hour)
		if err := s.SaveBody(ctx, sb.ID, []byte(`[]`)); err != nil {
			t.Fatalf("SaveBody() error = %v", err)
		}

		body, err := s.LoadBody(ctx, sb.ID)
		if err != nil {
			t.Fatalf("LoadBody() error = %v", err)
		}
		if string(body) != "[]" {
			t.Errorf("LoadBody() = %q, want %q", body, "[]")
		}

		got, err := s.Get(ctx, sb.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !got.UpdatedAt.Equal(clock.now) {
			t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, clock.now)
		}
	})

	t.Run("missing scrapbook", func(t *testing.T) {
		s, _ := newTestStore(t)

		if _, err := s.LoadBody(ctx, uuid.New()); !errors.Is(err, scrapbook.ErrNotFound) {
			t.Errorf("LoadBody() error = %v, want ErrNotFound", err)
		}
		if err := s.SaveBody(ctx, uuid.New(), []byte(`[]`)); !errors.Is(err, scrapbook.ErrNotFound) {
			t.Errorf("SaveBody() error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStore_Operations(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	first, err := s.CreateOperation(ctx, "create", `{"title":"Trip"}`)
	if err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}
	if first.ID == 0 {
		t.Error("CreateOperation() returned zero ID")
	}
	if first.Status != "running" {
		t.Errorf("Status = %q, want running", first.Status)
	}

	clock.now = clock.now.Add(time.Second)
	if err := s.FinishOperation(ctx, first.ID, "success"); err != nil {
		t.Fatalf("FinishOperation() error = %v", err)
	}

	second, err := s.CreateOperation(ctx, "export", "")
	if err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}

	ops, err := s.ListOperations(ctx, 10)
	if err != nil {
		t.Fatalf("ListOperations() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(ListOperations()) = %d, want 2", len(ops))
	}
	if ops[0].ID != second.ID {
		t.Errorf("ListOperations()[0].ID = %d, want most recent %d", ops[0].ID, second.ID)
	}
	if ops[0].FinishedAt != nil {
		t.Errorf("running operation FinishedAt = %v, want nil", ops[0].FinishedAt)
	}
	if ops[1].Status != "success" {
		t.Errorf("ListOperations()[1].Status = %q, want success", ops[1].Status)
	}
	if ops[1].FinishedAt == nil || !ops[1].FinishedAt.Equal(clock.now) {
		t.Errorf("ListOperations()[1].FinishedAt = %v, want %v", ops[1].FinishedAt, clock.now)
	}

	limited, err := s.ListOperations(ctx, 1)
	if err != nil {
		t.Fatalf("ListOperations(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(ListOperations(1)) = %d, want 1", len(limited))
	}
}

func TestSQLiteStore_BackupTo(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore(t)

	sb := newBook("Trip", clock.now)
	if err := s.Create(ctx, sb); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "copy.db")
	if err := s.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	copied, err := NewSQLiteStore(dest, clock)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer copied.Close()

	if err := copied.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() on copy error = %v", err)
	}
	if _, err := copied.Get(ctx, sb.ID); err != nil {
		t.Errorf("Get() on copy error = %v", err)
	}
}
