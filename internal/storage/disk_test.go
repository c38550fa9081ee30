package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDiskStorage_DownloadURL(t *testing.T) {
	t.Run("resolves the href for an entry path", func(t *testing.T) {
		var gotPath, gotQuery, gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("path")
			gotAuth = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"href":"https://downloader.example/file-abc"}`)
		}))
		defer srv.Close()

		d := NewDiskStorage(srv.URL, "/reports", "OAuth token-123")
		href, err := d.DownloadURL(context.Background(), "/2023/summary.pdf")
		if err != nil {
			t.Fatalf("DownloadURL() error = %v", err)
		}
		if href != "https://downloader.example/file-abc" {
			t.Errorf("href = %q", href)
		}
		if gotPath != "/v1/disk/resources/download" {
			t.Errorf("request path = %q", gotPath)
		}
		if gotQuery != "disk:/reports/2023/summary.pdf" {
			t.Errorf("path query param = %q", gotQuery)
		}
		if gotAuth != "OAuth token-123" {
			t.Errorf("Authorization = %q", gotAuth)
		}
	})

	t.Run("unparseable body degrades to an empty href", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>maintenance</html>")
		}))
		defer srv.Close()

		d := NewDiskStorage(srv.URL, "", "t")
		href, err := d.DownloadURL(context.Background(), "/file")
		if err != nil {
			t.Fatalf("DownloadURL() error = %v, want nil", err)
		}
		if href != "" {
			t.Errorf("href = %q, want empty", href)
		}
	})

	t.Run("unreachable API degrades to an empty href", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // Connection refused from here on.

		d := NewDiskStorage(srv.URL, "", "t")
		href, err := d.DownloadURL(context.Background(), "/file")
		if err != nil {
			t.Fatalf("DownloadURL() error = %v, want nil", err)
		}
		if href != "" {
			t.Errorf("href = %q, want empty", href)
		}
	})
}

func TestDiskStorage_ValidateSetup(t *testing.T) {
	if err := NewDiskStorage("https://cloud.example", "/root", "token").ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
	if err := NewDiskStorage("https://cloud.example", "/root", "").ValidateSetup(); err == nil {
		t.Error("ValidateSetup() with empty token = nil, want error")
	}
}
