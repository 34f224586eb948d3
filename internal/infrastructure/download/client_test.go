package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ShortsPublisher/internal/domain"
)

func TestDownloadWritesFile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("video-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "downloads", "111.mp4")
	client := NewClient(server.Client())

	err := client.Download(context.Background(), domain.SourceItem{ID: "111", VideoURL: server.URL}, dest)
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Fatalf("unexpected payload: %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".part") {
			t.Fatalf("leftover partial file: %s", entry.Name())
		}
	}
}

func TestDownloadNon200(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "111.mp4")
	client := NewClient(server.Client())

	err := client.Download(context.Background(), domain.SourceItem{ID: "111", VideoURL: server.URL}, dest)
	if err == nil {
		t.Fatalf("expected error for non-200 response")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("destination must not exist after failure")
	}
}

func TestDownloadMissingURL(t *testing.T) {
	t.Parallel()

	client := NewClient(nil)
	err := client.Download(context.Background(), domain.SourceItem{ID: "111"}, filepath.Join(t.TempDir(), "x.mp4"))
	if err == nil {
		t.Fatalf("expected error for missing video url")
	}
}
