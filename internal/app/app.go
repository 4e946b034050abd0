package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"scrapbook-go/internal/config"
	"scrapbook-go/internal/database"
	"scrapbook-go/internal/encryption"
	"scrapbook-go/internal/render"
	"scrapbook-go/internal/scrapbook"
	"scrapbook-go/internal/vault"
)

// ErrElementNotFound is returned when an element id matches nothing in the
// scrapbook.
var ErrElementNotFound = errors.New("element not found")

// ScrapbookApp is the application layer between the CLI and the scrapbook
// Service. It constructs all dependencies from config, exposes high-level
// operations that accept raw string arguments, and records mutating commands
// in the operations table.
type ScrapbookApp struct {
	cfg       *config.Config
	store     *database.SQLiteStore
	vault     scrapbook.Vault
	encryptor scrapbook.Encryptor
	pages     *render.PageRenderer
	service   *scrapbook.Service
	logger    scrapbook.Logger
	op        *Operation
	logFile   *os.File
}

// NewScrapbookApp creates a fully wired ScrapbookApp from the given config.
// operation identifies the CLI command being run (e.g. "Create", "AddText").
// The vault is optional: without one, export and import fail but everything
// else works. The caller must call Close when done.
func NewScrapbookApp(ctx context.Context, cfg *config.Config, operation string) (*ScrapbookApp, error) {
	clock := scrapbook.RealClock{}

	store, err := database.NewStoreFromConfig(cfg.Database, clock)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := store.CheckMigrations(); err != nil {
		store.Close()
		return nil, fmt.Errorf("database schema out of date (run `scrapbook db migrate`): %w", err)
	}

	var v scrapbook.Vault
	if len(cfg.Vaults) > 0 {
		v, err = vault.NewVaultFromConfig(ctx, cfg.Vaults[0])
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("creating vault: %w", err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID, cfg.LogLevel)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	rc := cfg.Render.WithDefaults()
	pages := render.NewPageRenderer(rc.PageWidth, rc.PageHeight, rc.Scale, logger)
	svc := scrapbook.NewService(store, v, enc, render.NewCoverRenderer(), logger, clock, scrapbook.UUIDGenerator{})

	return &ScrapbookApp{
		cfg:       cfg,
		store:     store,
		vault:     v,
		encryptor: enc,
		pages:     pages,
		service:   svc,
		logger:    logger,
		op:        NewOperation(operation, ""),
		logFile:   logFile,
	}, nil
}

// persistOperation saves the operation to the database, giving it an
// auto-increment ID. Only mutating commands call it.
func (a *ScrapbookApp) persistOperation(ctx context.Context, parameters ...string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = strings.Join(parameters, " ")
	dbOp, err := a.store.CreateOperation(ctx, a.op.Name, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// mutate records the operation, runs fn and marks the operation failed when
// fn returns an error.
func (a *ScrapbookApp) mutate(ctx context.Context, params []string, fn func() error) error {
	if err := a.persistOperation(ctx, params...); err != nil {
		return err
	}
	return a.op.Fail(fn())
}

// edit runs fn against the open document and saves it. Document changes are
// logged at debug level.
func (a *ScrapbookApp) edit(ctx context.Context, id uuid.UUID, fn func(*scrapbook.Document) error) (*scrapbook.Document, error) {
	return a.service.Edit(ctx, id, func(doc *scrapbook.Document) error {
		doc.Subscribe(changeLogger(a.logger, id))
		return fn(doc)
	})
}

func changeLogger(logger scrapbook.Logger, id uuid.UUID) scrapbook.Observer {
	return scrapbook.ObserverFunc(func(c scrapbook.Change) {
		args := []any{"scrapbook", id.String(), "change", c.Kind.String(), "page", c.PageIndex}
		if c.ElementID != uuid.Nil {
			args = append(args, "element", c.ElementID.String())
		}
		logger.Debug("document changed", args...)
	})
}

// History returns the most recent recorded operations.
func (a *ScrapbookApp) History(ctx context.Context, limit int) ([]*scrapbook.Operation, error) {
	return a.store.ListOperations(ctx, limit)
}

// CheckVault verifies the configured vault is reachable and writable.
func (a *ScrapbookApp) CheckVault(ctx context.Context) error {
	if a.vault == nil {
		return errors.New("no vault configured")
	}
	return a.vault.ValidateSetup(ctx)
}

// Close finalizes the operation and closes all resources.
func (a *ScrapbookApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.store.FinishOperation(context.Background(), a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.store.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// MigrateDatabase applies pending schema migrations. It runs without a full
// app since NewScrapbookApp refuses to start on an outdated schema.
func MigrateDatabase(cfg *config.Config) error {
	store, err := database.NewStoreFromConfig(cfg.Database, scrapbook.RealClock{})
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// BackupDatabase writes a consistent snapshot of the local database to dest.
func BackupDatabase(cfg *config.Config, dest string) error {
	store, err := database.NewStoreFromConfig(cfg.Database, scrapbook.RealClock{})
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer store.Close()

	if err := store.BackupTo(dest); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// SetupKeys generates the archive key pair, protecting the private key with
// passphrase. It fails if keys already exist.
func SetupKeys(cfg *config.Config, passphrase string) (string, error) {
	if cfg.Encryption.Type != "age" && cfg.Encryption.Type != "" {
		return "", fmt.Errorf("key setup needs age encryption, config has %q", cfg.Encryption.Type)
	}
	enc := encryption.NewAgeEncryptor(cfg.Encryption)
	if err := enc.Setup(passphrase); err != nil {
		return "", err
	}
	return enc.Recipient()
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	return id, nil
}
