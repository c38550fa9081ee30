package model

import "time"

// User is one row of the allow-list. A row existing for an ID is the
// sole access predicate; rows are created on key redemption and never
// updated or deleted.
type User struct {
	ID        string // Chat/account identifier
	Username  string // May be empty
	FirstName string // May be empty
	LastName  string // May be empty
}

// PathEntry describes one remotely stored file in the catalog.
// The catalog is read-only reference data for the bot; entries are
// loaded and maintained by the catalog CLI commands.
type PathEntry struct {
	Name string // Display label, shown as the choice text
	Path string // Remote location relative to the configured root
	Hash string // Opaque unique token used as the selection callback value
}

// LogRecord is one audit row, appended after each completed relay.
type LogRecord struct {
	Date      time.Time
	Path      string // Resolved remote path of the delivered entry
	UserID    string
	Username  string
	FirstName string
	LastName  string
}
