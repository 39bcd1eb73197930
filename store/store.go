package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO is github.com/mattn/go-sqlite3, the default driver.
	DriverCGO = "sqlite3"
	// DriverPureGo is modernc.org/sqlite.
	DriverPureGo = "sqlite"

	memoryLocation = ":memory:"
)

// Profile represents one row of the users table
type Profile struct {
	ID       int64
	Name     string
	LastName string
	Age      int
	Gender   string
	Phone    string
	Email    string
}

// Config describes where and how the store keeps its table.
type Config struct {
	// Location is the database file path, or ":memory:".
	Location string

	// Driver is DriverCGO or DriverPureGo. Empty means DriverCGO.
	Driver string

	// SchemaVersion is the version the table must be at after Open.
	// A stored version lower than this drops and recreates the table.
	// Zero means CurrentSchemaVersion.
	SchemaVersion int

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Store is an append-only profile table in a local SQLite file.
// The zero value is a closed store; use New or Open.
type Store struct {
	cfg    Config
	logger *slog.Logger

	// mu guards db, which is nil while the store is closed
	mu sync.RWMutex
	db *sql.DB

	// at most one insert in flight
	writeMu sync.Mutex
}

// New returns a closed store for cfg.
func New(cfg Config) *Store {
	if cfg.Driver == "" {
		cfg.Driver = DriverCGO
	}
	if cfg.SchemaVersion == 0 {
		cfg.SchemaVersion = CurrentSchemaVersion
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cfg: cfg, logger: logger}
}

// Open builds a store for cfg and opens it.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	s := New(cfg)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Location returns the configured database location.
func (s *Store) Location() string {
	return s.cfg.Location
}

// SchemaVersion returns the version the table is kept at.
func (s *Store) SchemaVersion() int {
	return s.cfg.SchemaVersion
}

// Open opens or creates the backing file and brings the table to the
// configured schema version. Opening an open store does nothing.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	location := s.cfg.Location
	if location == "" {
		return newError("open", ErrStorageUnavailable, errors.New("empty location"))
	}

	if location != memoryLocation {
		if err := os.MkdirAll(filepath.Dir(filePath(location)), 0o700); err != nil {
			return newError("open", ErrStorageUnavailable, fmt.Errorf("create parent dir: %w", err))
		}
	}

	db, err := sql.Open(s.cfg.Driver, dsn(s.cfg.Driver, location))
	if err != nil {
		return newError("open", ErrStorageUnavailable, err)
	}

	// every connection to :memory: is its own database
	if location == memoryLocation {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return newError("open", ErrStorageUnavailable, err)
	}

	if err := s.migrate(ctx, db); err != nil {
		_ = db.Close()
		return newError("open", ErrStorageUnavailable, err)
	}

	s.db = db
	s.logger.Debug("profile store open",
		slog.String("location", location),
		slog.String("driver", s.cfg.Driver),
		slog.Int("schemaVersion", s.cfg.SchemaVersion))
	return nil
}

// migrate creates the table, or drops and recreates it when the stored
// version is behind. No data is carried across an upgrade. A users table
// without a version marker counts as version 0 and is recreated too.
func (s *Store) migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	var stored int
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&stored); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	var tables int
	if err := tx.QueryRowContext(ctx, tableExists, TableName).Scan(&tables); err != nil {
		return fmt.Errorf("look up table: %w", err)
	}

	want := s.cfg.SchemaVersion
	switch {
	case stored > want:
		return fmt.Errorf("schema version %d is newer than supported version %d", stored, want)
	case tables > 0 && stored < want:
		s.logger.Warn("dropping profile table for schema upgrade",
			slog.String("location", s.cfg.Location),
			slog.Int("from", stored),
			slog.Int("to", want))
		if _, err := tx.ExecContext(ctx, dropSchema); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, setUserVersion(want)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}

	return tx.Commit()
}

// Close releases the database. Closing a closed store does nothing.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Insert stores p as a new row and returns its id. p.ID is ignored.
// Field contents are stored as given, empty strings included.
func (s *Store) Insert(ctx context.Context, p Profile) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return 0, newError("insert", ErrNotOpen, nil)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, newError("insert", ErrWriteFailed, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, insertProfile, p.Name, p.LastName, p.Age, p.Gender, p.Phone, p.Email)
	if err != nil {
		return 0, newError("insert", ErrWriteFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, newError("insert", ErrWriteFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, newError("insert", ErrWriteFailed, err)
	}

	return id, nil
}

// ListAll returns every stored profile in ascending id order.
// The result is empty, not nil, when the table has no rows.
func (s *Store) ListAll(ctx context.Context) ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, newError("list", ErrNotOpen, nil)
	}

	rows, err := s.db.QueryContext(ctx, selectProfiles)
	if err != nil {
		return nil, newError("list", ErrReadFailed, err)
	}
	defer rows.Close()

	profiles := make([]Profile, 0)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.LastName, &p.Age, &p.Gender, &p.Phone, &p.Email); err != nil {
			return nil, newError("list", ErrReadFailed, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, newError("list", ErrReadFailed, err)
	}

	return profiles, nil
}

// filePath strips the URI scheme and query from a file: location
func filePath(location string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(location, "file:"), "?")
	return path
}

func dsn(driver, location string) string {
	if location == memoryLocation {
		return location
	}
	sep := "?"
	if strings.Contains(location, "?") {
		sep = "&"
	}
	if driver == DriverPureGo {
		return location + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	return location + sep + "_journal_mode=WAL&_busy_timeout=5000"
}
