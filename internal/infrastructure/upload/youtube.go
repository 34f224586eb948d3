package upload

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ShortsPublisher/internal/config"
	"ShortsPublisher/internal/domain"
	"ShortsPublisher/internal/ports"
)

// YouTube implements ports.Publisher by uploading videos through the
// YouTube Data API. Videos are created private with a PublishAt timestamp
// so YouTube flips them public at the scheduled slot.
type YouTube struct {
	oauth      config.YouTubeConfig
	categoryID string
}

var _ ports.Publisher = (*YouTube)(nil)

// NewYouTube builds a publisher from OAuth credentials and upload settings.
func NewYouTube(oauth config.YouTubeConfig, upload config.UploadConfig) *YouTube {
	return &YouTube{
		oauth:      oauth,
		categoryID: upload.CategoryID,
	}
}

// Publish uploads filePath with the given metadata, scheduled for publishAt.
// Returns the watch URL of the created video.
func (y *YouTube) Publish(ctx context.Context, filePath string, meta domain.VideoMetadata, publishAt time.Time) (string, error) {
	svc, err := y.service(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: buildDescription(meta),
			Tags:        meta.Tags,
			CategoryId:  y.categoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "private",
			PublishAt:               publishAt.UTC().Format(time.RFC3339),
			SelfDeclaredMadeForKids: false,
		},
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video).Media(f)
	uploaded, err := call.Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}
	return "https://youtu.be/" + uploaded.Id, nil
}

func (y *YouTube) service(ctx context.Context) (*youtube.Service, error) {
	if y.oauth.ClientID == "" || y.oauth.ClientSecret == "" || y.oauth.RefreshToken == "" {
		return nil, fmt.Errorf("youtube publisher misconfigured: missing oauth credentials")
	}

	conf := &oauth2.Config{
		ClientID:     y.oauth.ClientID,
		ClientSecret: y.oauth.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope},
	}
	// Expiry in the past forces an immediate refresh from the refresh token.
	token := &oauth2.Token{
		RefreshToken: y.oauth.RefreshToken,
		Expiry:       time.Now().Add(-time.Hour),
	}
	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return svc, nil
}

func buildDescription(meta domain.VideoMetadata) string {
	if len(meta.Hashtags) == 0 {
		return meta.Description
	}
	return meta.Description + "\n\n" + strings.Join(meta.Hashtags, " ")
}
