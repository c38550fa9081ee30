package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"diskbot/internal/bot"
)

// DiskStorage resolves download URLs through a Disk-style cloud HTTP
// API: GET {base}/v1/disk/resources/download?path=disk:{root}{path}
// with an Authorization header, answered by a JSON body {"href": ...}.
//
// A failed request or an unparseable body degrades to an empty href
// instead of failing; the caller's download attempt then fails and is
// handled as a download failure.
type DiskStorage struct {
	baseURL   string
	rootDir   string
	authToken string
	client    *http.Client
}

// NewDiskStorage creates a disk API backend. rootDir is the remote
// root prefix prepended to every catalog entry path.
func NewDiskStorage(baseURL, rootDir, authToken string) *DiskStorage {
	return &DiskStorage{
		baseURL:   baseURL,
		rootDir:   rootDir,
		authToken: authToken,
		client:    &http.Client{},
	}
}

// downloadResponse is the interesting part of the API reply.
type downloadResponse struct {
	Href string `json:"href"`
}

// DownloadURL asks the API for a time-limited direct download link for
// the file at entryPath under the configured root.
func (d *DiskStorage) DownloadURL(ctx context.Context, entryPath string) (string, error) {
	reqURL := fmt.Sprintf("%s/v1/disk/resources/download?path=%s",
		d.baseURL, url.QueryEscape("disk:"+d.rootDir+entryPath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("building download-link request: %w", err)
	}
	req.Header.Set("Authorization", d.authToken)

	resp, err := d.client.Do(req)
	if err != nil {
		// Degrade rather than abort.
		return "", nil
	}
	defer resp.Body.Close()

	var body downloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil
	}

	return body.Href, nil
}

// ValidateSetup verifies the backend configuration.
func (d *DiskStorage) ValidateSetup() error {
	if _, err := url.Parse(d.baseURL); err != nil {
		return fmt.Errorf("invalid disk base URL: %w", err)
	}
	if d.authToken == "" {
		return fmt.Errorf("disk auth token is empty")
	}
	return nil
}

// Compile-time check that DiskStorage implements the bot.Storage interface
var _ bot.Storage = (*DiskStorage)(nil)
