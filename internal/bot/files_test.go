package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name untouched", "report.pdf", "report.pdf"},
		{"forward slash replaced", "Invoice/2023", "Invoice_2023"},
		{"backslash replaced", "Invoice\\2023", "Invoice_2023"},
		{"multiple separators", "a/b\\c/d", "a_b_c_d"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFileName(tt.in); got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeUnderscores(t *testing.T) {
	if got := escapeUnderscores("some_user_name"); got != "some\\_user\\_name" {
		t.Errorf("escapeUnderscores() = %q", got)
	}
	if got := escapeUnderscores("plain"); got != "plain" {
		t.Errorf("escapeUnderscores() = %q, want unchanged", got)
	}
}

func TestParseCommand(t *testing.T) {
	s := &Service{settings: Settings{BotName: "testbot"}}

	tests := []struct {
		text string
		cmd  string
		arg  string
		ok   bool
	}{
		{"/start", "start", "", true},
		{"/key SECRET", "key", "SECRET", true},
		{"/key@testbot SECRET", "key", "SECRET", true},
		{"/key@otherbot SECRET", "", "", false},
		{"/key  spaced  arg ", "key", "spaced  arg", true},
		{"plain text", "", "", false},
		{"/", "", "", false},
	}
	for _, tt := range tests {
		cmd, arg, ok := s.parseCommand(tt.text)
		if cmd != tt.cmd || arg != tt.arg || ok != tt.ok {
			t.Errorf("parseCommand(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.text, cmd, arg, ok, tt.cmd, tt.arg, tt.ok)
		}
	}
}

func TestDownloadToScratch(t *testing.T) {
	s := &Service{httpClient: http.DefaultClient, logger: NewNopLogger()}

	t.Run("writes the body to the destination", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("payload"))
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "out")
		if err := s.downloadToScratch(context.Background(), srv.URL, dest); err != nil {
			t.Fatalf("downloadToScratch() error = %v", err)
		}
		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("reading destination: %v", err)
		}
		if string(data) != "payload" {
			t.Errorf("downloaded %q, want %q", data, "payload")
		}
	})

	t.Run("empty url fails", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "out")
		if err := s.downloadToScratch(context.Background(), "", dest); err == nil {
			t.Error("downloadToScratch(\"\") = nil, want error")
		}
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "out")
		if err := s.downloadToScratch(context.Background(), srv.URL, dest); err == nil {
			t.Error("downloadToScratch() = nil, want error for 404")
		}
	})
}
