package bot

import "diskbot/internal/model"

// Store provides an interface for catalog persistence.
// Lookups that find nothing return a nil entry, not an error; any
// non-nil error is a store failure that aborts the current event.
type Store interface {
	// Catalog operations

	// FindPaths returns entries whose name contains query as a
	// substring, truncated to limit.
	FindPaths(query string, limit int) ([]model.PathEntry, error)

	// FindPathByHash returns the unique entry for a hash token, or
	// (nil, nil) when no entry matches. Duplicate hashes are a
	// data-integrity error.
	FindPathByHash(hash string) (*model.PathEntry, error)

	// InsertPath adds one catalog entry.
	InsertPath(entry model.PathEntry) error

	// ListPaths returns up to limit catalog entries.
	ListPaths(limit int) ([]model.PathEntry, error)

	// Allow-list operations

	// IsAuthorized reports whether the user ID is on the allow-list.
	IsAuthorized(userID string) (bool, error)

	// RegisterUser adds a user to the allow-list.
	RegisterUser(user model.User) error

	// ListUsers returns the whole allow-list.
	ListUsers() ([]model.User, error)

	// Audit operations

	// AppendLog appends one audit row.
	AppendLog(rec model.LogRecord) error

	// ListLog returns up to limit audit rows, newest first.
	ListLog(limit int) ([]model.LogRecord, error)

	// Close releases the underlying connection.
	Close() error
}
