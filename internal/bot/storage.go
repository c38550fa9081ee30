package bot

import "context"

// Storage provides an interface for remote file storage backends.
// A backend resolves a catalog entry path to a short-lived direct
// download URL; the actual byte transfer happens over plain HTTP.
type Storage interface {
	// DownloadURL returns a time-limited direct download URL for the
	// file at entryPath (relative to the backend's configured root).
	// Backends may degrade to an empty URL instead of failing; the
	// subsequent download attempt then fails and is handled as a
	// download failure.
	DownloadURL(ctx context.Context, entryPath string) (string, error)

	// ValidateSetup verifies that the backend is properly configured.
	ValidateSetup() error
}
