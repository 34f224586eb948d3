package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ShortsPublisher/internal/domain"
	"ShortsPublisher/internal/ports"
)

// Client fetches video payloads over HTTP into local files.
type Client struct {
	http *http.Client
}

var _ ports.Downloader = (*Client)(nil)

// NewClient creates a reusable HTTP client. Video payloads can be large, so
// the default timeout is generous.
func NewClient(client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{http: client}
}

// Download streams the item's video into dest. The payload lands in a .part
// file first so an interrupted transfer never looks like a finished download.
func (c *Client) Download(ctx context.Context, item domain.SourceItem, dest string) error {
	if item.VideoURL == "" {
		return fmt.Errorf("item %s has no video url", item.ID)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.VideoURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	partial := dest + ".part"
	file, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		_ = os.Remove(partial)
		return fmt.Errorf("write payload: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("close file: %w", err)
	}

	if err := os.Rename(partial, dest); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("finalize download: %w", err)
	}

	return nil
}
