package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ShortsPublisher/internal/domain"
	"ShortsPublisher/internal/scraper"
)

const (
	instagramBaseURL = "https://www.instagram.com"

	// App id the public web client sends; required by the profile endpoint.
	instagramWebAppID = "936619743392459"
)

// InstagramScanner pulls recent reels for an account through the web profile
// API, falling back to the post page's OpenGraph tags when the feed entry
// carries no direct video URL.
type InstagramScanner struct {
	client  *http.Client
	baseURL string
	limit   int
}

var _ scraper.Scraper = (*InstagramScanner)(nil)

// NewInstagramScanner wires an HTTP client; the fetch limit defaults to 10
// posts per account.
func NewInstagramScanner(client *http.Client) *InstagramScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &InstagramScanner{client: client, baseURL: instagramBaseURL, limit: 10}
}

// Name identifies the strategy inside the registry.
func (s *InstagramScanner) Name() string {
	return "instagram"
}

type instagramProfile struct {
	Data struct {
		User struct {
			Media struct {
				Edges []struct {
					Node instagramNode `json:"node"`
				} `json:"edges"`
			} `json:"edge_owner_to_timeline_media"`
		} `json:"user"`
	} `json:"data"`
}

type instagramNode struct {
	ID        string `json:"id"`
	Shortcode string `json:"shortcode"`
	IsVideo   bool   `json:"is_video"`
	VideoURL  string `json:"video_url"`
	TakenAt   int64  `json:"taken_at_timestamp"`
	Caption   struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
}

// Scrape returns new video posts for the requested account, skipping ids the
// caller already knows about.
func (s *InstagramScanner) Scrape(ctx context.Context, req scraper.Request) ([]domain.SourceItem, error) {
	if req.Account.Name == "" {
		return nil, fmt.Errorf("no account name provided")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.limit
	}
	limit = parseLimitOption(req.Account.Options, limit)

	profile, err := s.fetchProfile(ctx, req.Account.Name)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", req.Account.Name, err)
	}

	var items []domain.SourceItem
	for _, edge := range profile.Data.User.Media.Edges {
		if len(items) >= limit {
			break
		}

		node := edge.Node
		if !node.IsVideo || node.ID == "" {
			continue
		}
		if _, ok := req.Known[node.ID]; ok {
			continue
		}

		caption := ""
		if len(node.Caption.Edges) > 0 {
			caption = node.Caption.Edges[0].Node.Text
		}

		videoURL := node.VideoURL
		if videoURL == "" && node.Shortcode != "" {
			videoURL, err = s.scrapePostVideoURL(ctx, node.Shortcode)
			if err != nil {
				continue
			}
		}
		if videoURL == "" {
			continue
		}

		items = append(items, domain.SourceItem{
			ID:       node.ID,
			Account:  req.Account.Name,
			Caption:  caption,
			VideoURL: videoURL,
			PostedAt: time.Unix(node.TakenAt, 0).UTC(),
		})
	}

	return items, nil
}

func (s *InstagramScanner) fetchProfile(ctx context.Context, account string) (*instagramProfile, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/web_profile_info/?username=%s", s.baseURL, account)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ShortsPublisher/1.0)")
	req.Header.Set("X-IG-App-ID", instagramWebAppID)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile endpoint returned %s", resp.Status)
	}

	var profile instagramProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return &profile, nil
}

// scrapePostVideoURL loads the post permalink page and extracts the og:video
// meta tag.
func (s *InstagramScanner) scrapePostVideoURL(ctx context.Context, shortcode string) (string, error) {
	pageURL := fmt.Sprintf("%s/p/%s/", s.baseURL, shortcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ShortsPublisher/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request post page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("post page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse post page: %w", err)
	}

	videoURL, exists := doc.Find(`meta[property="og:video"]`).First().Attr("content")
	if !exists || videoURL == "" {
		return "", fmt.Errorf("post %s has no og:video tag", shortcode)
	}

	return videoURL, nil
}

// parseLimitOption reads an optional per-account "limit" override.
func parseLimitOption(options map[string]string, fallback int) int {
	if raw, ok := options["limit"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
