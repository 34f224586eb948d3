package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"ShortsPublisher/internal/config"
	"ShortsPublisher/internal/domain"
	"ShortsPublisher/internal/scraper"
)

// RedditScanner pulls recent video posts from a subreddit. The account name
// in the request is the subreddit to scan.
type RedditScanner struct {
	client *reddit.Client
	limit  int
}

var _ scraper.Scraper = (*RedditScanner)(nil)

// NewRedditScanner builds a client from configuration. Without full script
// credentials it degrades to read-only API access.
func NewRedditScanner(cfg config.RedditConfig) (*RedditScanner, error) {
	var opts []reddit.Opt
	if cfg.UserAgent != "" {
		opts = append(opts, reddit.WithUserAgent(cfg.UserAgent))
	}

	var (
		client *reddit.Client
		err    error
	)
	if cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.Username != "" && cfg.Password != "" {
		credentials := reddit.Credentials{
			ID:       cfg.ClientID,
			Secret:   cfg.ClientSecret,
			Username: cfg.Username,
			Password: cfg.Password,
		}
		client, err = reddit.NewClient(credentials, opts...)
	} else {
		client, err = reddit.NewReadonlyClient(opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("build reddit client: %w", err)
	}

	return &RedditScanner{client: client, limit: 25}, nil
}

// Name identifies the strategy inside the registry.
func (s *RedditScanner) Name() string {
	return "reddit"
}

// Scrape lists the subreddit's newest posts and keeps the ones that link to
// a playable video.
func (s *RedditScanner) Scrape(ctx context.Context, req scraper.Request) ([]domain.SourceItem, error) {
	subreddit := strings.TrimPrefix(req.Account.Name, "r/")
	if subreddit == "" {
		return nil, fmt.Errorf("no subreddit provided")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.limit
	}

	posts, _, err := s.client.Subreddit.NewPosts(ctx, subreddit, &reddit.ListOptions{Limit: s.limit})
	if err != nil {
		return nil, fmt.Errorf("list r/%s: %w", subreddit, err)
	}

	var items []domain.SourceItem
	for _, post := range posts {
		if len(items) >= limit {
			break
		}
		if post.IsSelfPost || post.NSFW || !isVideoURL(post.URL) {
			continue
		}
		if _, ok := req.Known[post.ID]; ok {
			continue
		}

		item := domain.SourceItem{
			ID:       post.ID,
			Account:  "r/" + subreddit,
			Caption:  post.Title,
			VideoURL: post.URL,
		}
		if post.Created != nil {
			item.PostedAt = post.Created.Time.UTC()
		}
		items = append(items, item)
	}

	return items, nil
}

func isVideoURL(raw string) bool {
	if raw == "" {
		return false
	}
	return strings.Contains(raw, "v.redd.it") || strings.HasSuffix(raw, ".mp4")
}
