package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// sanitizeFileName replaces path-separator characters in an untrusted
// display name before it is used to build a scratch-file path. Without
// this, a catalog name like "../../etc/passwd" would escape the scratch
// directory.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return name
}

// downloadToScratch fetches url and writes the body to dest.
// An empty url is the degraded output of a failed storage-API call and
// fails here like any other download error.
func (s *Service) downloadToScratch(ctx context.Context, url, dest string) error {
	if url == "" {
		return fmt.Errorf("empty download url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading file: unexpected status %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating scratch file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("writing scratch file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing scratch file: %w", err)
	}

	return nil
}

// removeScratch attempts to delete a scratch file. Failure is logged,
// never propagated, never retried.
func (s *Service) removeScratch(path string) {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return
		}
		s.logger.Warn("failed to remove scratch file", "path", path, "error", err)
		return
	}
	s.logger.Debug("scratch file removed", "path", path)
}
