package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"diskbot/internal/bot"
	"diskbot/internal/model"
	"diskbot/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrDuplicateHash is returned when more than one catalog entry matches
// a hash token. Hash values are expected to be unique; a duplicate is a
// data-integrity bug and resolution fails loudly instead of picking one.
var ErrDuplicateHash = errors.New("duplicate hash in catalog")

// logTimeFormat is the timestamp layout used in the log table.
const logTimeFormat = "02/01/2006 15:04:05"

// SQLiteStore implements the bot.Store interface using SQLite.
// All operations share a single connection guarded by a mutex: expected
// request volume is low and a serialized store keeps the concurrency
// story trivial (no pooling, no read/write splitting).
type SQLiteStore struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite store.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteStore{
		db:   db,
		path: path,
	}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:   db,
		path: "",
	}
}

// OpenConnection opens and configures a SQLite database connection.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One logical connection; the store mutex serializes all access.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// FindPaths returns catalog entries whose name contains query as a
// substring, truncated to limit. Matching follows SQLite LIKE
// collation (case-insensitive for ASCII).
func (s *SQLiteStore) FindPaths(query string, limit int) ([]model.PathEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT name, path, hash FROM paths WHERE name LIKE ? LIMIT ?",
		"%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("finding paths: %w", err)
	}
	defer rows.Close()

	var entries []model.PathEntry
	for rows.Next() {
		var e model.PathEntry
		if err := rows.Scan(&e.Name, &e.Path, &e.Hash); err != nil {
			return nil, fmt.Errorf("scanning path entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading path entries: %w", err)
	}

	return entries, nil
}

// FindPathByHash returns the unique entry with the given hash token, or
// (nil, nil) when no entry matches. Two or more matches return
// ErrDuplicateHash.
func (s *SQLiteStore) FindPathByHash(hash string) (*model.PathEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// LIMIT 2 is enough to detect a duplicate without scanning further.
	rows, err := s.db.Query(
		"SELECT name, path, hash FROM paths WHERE hash = ? LIMIT 2", hash)
	if err != nil {
		return nil, fmt.Errorf("finding path by hash: %w", err)
	}
	defer rows.Close()

	var entries []model.PathEntry
	for rows.Next() {
		var e model.PathEntry
		if err := rows.Scan(&e.Name, &e.Path, &e.Hash); err != nil {
			return nil, fmt.Errorf("scanning path entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading path entries: %w", err)
	}

	switch len(entries) {
	case 0:
		return nil, nil // Not found
	case 1:
		return &entries[0], nil
	default:
		return nil, fmt.Errorf("hash %q: %w", hash, ErrDuplicateHash)
	}
}

// IsAuthorized reports whether a row exists in the allow-list for the
// given user ID.
func (s *SQLiteStore) IsAuthorized(userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE id = ?", userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking authorization: %w", err)
	}
	return true, nil
}

// RegisterUser inserts a new allow-list row. A duplicate insert for the
// same ID fails with the underlying primary-key violation; callers are
// expected to check IsAuthorized first.
func (s *SQLiteStore) RegisterUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO users (id, username, first_name, last_name) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, user.FirstName, user.LastName)
	if err != nil {
		return fmt.Errorf("registering user: %w", err)
	}
	return nil
}

// AppendLog inserts one audit row. Insert-only; no update or delete
// path exists.
func (s *SQLiteStore) AppendLog(rec model.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO log (date, path, user_id, username, first_name, last_name) VALUES (?, ?, ?, ?, ?, ?)",
		rec.Date.UTC().Format(logTimeFormat), rec.Path, rec.UserID, rec.Username, rec.FirstName, rec.LastName)
	if err != nil {
		return fmt.Errorf("appending log record: %w", err)
	}
	return nil
}

// InsertPath adds one catalog entry. Used by the catalog import CLI;
// the bot itself never mutates the catalog.
func (s *SQLiteStore) InsertPath(entry model.PathEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO paths (name, path, hash) VALUES (?, ?, ?)",
		entry.Name, entry.Path, entry.Hash)
	if err != nil {
		return fmt.Errorf("inserting path entry: %w", err)
	}
	return nil
}

// ListPaths returns up to limit catalog entries in insertion order.
func (s *SQLiteStore) ListPaths(limit int) ([]model.PathEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT name, path, hash FROM paths ORDER BY rowid LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing paths: %w", err)
	}
	defer rows.Close()

	var entries []model.PathEntry
	for rows.Next() {
		var e model.PathEntry
		if err := rows.Scan(&e.Name, &e.Path, &e.Hash); err != nil {
			return nil, fmt.Errorf("scanning path entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading path entries: %w", err)
	}
	return entries, nil
}

// ListUsers returns all allow-list rows.
func (s *SQLiteStore) ListUsers() ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT id, username, first_name, last_name FROM users ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading users: %w", err)
	}
	return users, nil
}

// ListLog returns up to limit audit rows, newest first.
func (s *SQLiteStore) ListLog(limit int) ([]model.LogRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT date, path, user_id, username, first_name, last_name FROM log ORDER BY rowid DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing log records: %w", err)
	}
	defer rows.Close()

	var records []model.LogRecord
	for rows.Next() {
		var rec model.LogRecord
		var date string
		if err := rows.Scan(&date, &rec.Path, &rec.UserID, &rec.Username, &rec.FirstName, &rec.LastName); err != nil {
			return nil, fmt.Errorf("scanning log record: %w", err)
		}
		rec.Date, err = time.Parse(logTimeFormat, date)
		if err != nil {
			return nil, fmt.Errorf("parsing log timestamp %q: %w", date, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading log records: %w", err)
	}
	return records, nil
}

// CountLog returns the number of audit rows.
func (s *SQLiteStore) CountLog() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM log").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting log records: %w", err)
	}
	return n, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteStore implements the bot.Store interface
var _ bot.Store = (*SQLiteStore)(nil)
