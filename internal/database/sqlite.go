package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scrapbook-go/internal/database/migrations"
	"scrapbook-go/internal/scrapbook"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements scrapbook.Store and scrapbook.OperationLog on SQLite.
type SQLiteStore struct {
	db    *sql.DB
	path  string
	clock scrapbook.Clock
}

// NewSQLiteStore opens the database at path. path can be a file path or
// ":memory:". A nil clock uses the system clock.
func NewSQLiteStore(path string, clock scrapbook.Clock) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	s := NewSQLiteStoreFromDB(db, clock)
	s.path = path
	return s, nil
}

// NewSQLiteStoreFromDB wraps an existing connection, which the caller has
// already configured with OpenConnection.
func NewSQLiteStoreFromDB(db *sql.DB, clock scrapbook.Clock) *SQLiteStore {
	if clock == nil {
		clock = scrapbook.RealClock{}
	}
	return &SQLiteStore{db: db, clock: clock}
}

// OpenConnection opens a SQLite connection and applies the PRAGMAs the store
// relies on.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Scrapbooks

const scrapbookColumns = "id, title, creation_date, page_style, cover_image, updated_at"

func (s *SQLiteStore) Create(ctx context.Context, sb *scrapbook.Scrapbook) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrapbooks (id, title, creation_date, page_style, cover_image, body, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sb.ID.String(), sb.Title, sb.CreationDate.UTC(), sb.PageStyle.String(),
		nullBytes(sb.CoverImage), nullBytes(sb.Body), s.stamp(sb.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting scrapbook: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*scrapbook.Scrapbook, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+scrapbookColumns+", body FROM scrapbooks WHERE id = ?", id.String())

	var sb scrapbook.Scrapbook
	var rawID, style string
	err := row.Scan(&rawID, &sb.Title, &sb.CreationDate, &style, &sb.CoverImage, &sb.UpdatedAt, &sb.Body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", scrapbook.ErrNotFound, id)
		}
		return nil, fmt.Errorf("loading scrapbook: %w", err)
	}
	if sb.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("stored scrapbook id %q: %w", rawID, err)
	}
	sb.PageStyle = scrapbook.PageStyle(style).Normalize()
	return &sb, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*scrapbook.Scrapbook, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+scrapbookColumns+" FROM scrapbooks ORDER BY creation_date DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing scrapbooks: %w", err)
	}
	defer rows.Close()

	var result []*scrapbook.Scrapbook
	for rows.Next() {
		var sb scrapbook.Scrapbook
		var rawID, style string
		if err := rows.Scan(&rawID, &sb.Title, &sb.CreationDate, &style, &sb.CoverImage, &sb.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning scrapbook: %w", err)
		}
		if sb.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("stored scrapbook id %q: %w", rawID, err)
		}
		sb.PageStyle = scrapbook.PageStyle(style).Normalize()
		result = append(result, &sb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing scrapbooks: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) Update(ctx context.Context, sb *scrapbook.Scrapbook) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scrapbooks SET title = ?, page_style = ?, cover_image = ?, updated_at = ? WHERE id = ?`,
		sb.Title, sb.PageStyle.String(), nullBytes(sb.CoverImage), s.stamp(sb.UpdatedAt), sb.ID.String())
	if err != nil {
		return fmt.Errorf("updating scrapbook: %w", err)
	}
	return requireRow(res, sb.ID)
}

// Put inserts sb or replaces every column of an existing row with the same
// id, body included.
func (s *SQLiteStore) Put(ctx context.Context, sb *scrapbook.Scrapbook) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrapbooks (id, title, creation_date, page_style, cover_image, body, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     title = excluded.title,
		     creation_date = excluded.creation_date,
		     page_style = excluded.page_style,
		     cover_image = excluded.cover_image,
		     body = excluded.body,
		     updated_at = excluded.updated_at`,
		sb.ID.String(), sb.Title, sb.CreationDate.UTC(), sb.PageStyle.String(),
		nullBytes(sb.CoverImage), nullBytes(sb.Body), s.stamp(sb.UpdatedAt))
	if err != nil {
		return fmt.Errorf("storing scrapbook: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM scrapbooks WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("deleting scrapbook: %w", err)
	}
	return requireRow(res, id)
}

// LoadBody returns the stored body. A scrapbook that was never saved has a
// nil body.
func (s *SQLiteStore) LoadBody(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, "SELECT body FROM scrapbooks WHERE id = ?", id.String()).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", scrapbook.ErrNotFound, id)
		}
		return nil, fmt.Errorf("loading body: %w", err)
	}
	return body, nil
}

func (s *SQLiteStore) SaveBody(ctx context.Context, id uuid.UUID, body []byte) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE scrapbooks SET body = ?, updated_at = ? WHERE id = ?",
		nullBytes(body), s.clock.Now().UTC(), id.String())
	if err != nil {
		return fmt.Errorf("saving body: %w", err)
	}
	return requireRow(res, id)
}

// Operation tracking

func (s *SQLiteStore) CreateOperation(ctx context.Context, name, parameters string) (*scrapbook.Operation, error) {
	op := &scrapbook.Operation{
		Name:       name,
		Parameters: parameters,
		Status:     "running",
		StartedAt:  s.clock.Now().UTC(),
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO operations (started_at, operation, parameters, status) VALUES (?, ?, ?, ?)",
		op.StartedAt, op.Name, op.Parameters, op.Status)
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	if op.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return op, nil
}

func (s *SQLiteStore) FinishOperation(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE operations SET finished_at = ?, status = ? WHERE id = ?",
		s.clock.Now().UTC(), status, id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

// ListOperations returns the most recent operations first.
func (s *SQLiteStore) ListOperations(ctx context.Context, limit int) ([]*scrapbook.Operation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, operation, parameters, status
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var result []*scrapbook.Operation
	for rows.Next() {
		var op scrapbook.Operation
		var finished sql.NullTime
		if err := rows.Scan(&op.ID, &op.StartedAt, &finished, &op.Name, &op.Parameters, &op.Status); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if finished.Valid {
			op.FinishedAt = &finished.Time
		}
		result = append(result, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return result, nil
}

// Path returns the database file path, or "" for a wrapped connection.
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the schema is up to date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// Migrate applies pending migrations.
func (s *SQLiteStore) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// BackupTo writes a consistent copy of the database to destPath.
func (s *SQLiteStore) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// stamp returns t in UTC, or the clock's time when t is zero.
func (s *SQLiteStore) stamp(t time.Time) time.Time {
	if t.IsZero() {
		t = s.clock.Now()
	}
	return t.UTC()
}

// nullBytes maps a nil slice to SQL NULL; an empty slice is stored as an
// empty blob.
func nullBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}

func requireRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", scrapbook.ErrNotFound, id)
	}
	return nil
}

var (
	_ scrapbook.Store        = (*SQLiteStore)(nil)
	_ scrapbook.OperationLog = (*SQLiteStore)(nil)
)
