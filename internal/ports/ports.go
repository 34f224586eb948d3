package ports

import (
	"context"
	"time"

	"ShortsPublisher/internal/domain"
)

// Source pulls fresh short videos from the configured accounts, skipping ids
// the caller already knows about.
type Source interface {
	FetchNew(ctx context.Context, known map[string]struct{}) ([]domain.SourceItem, error)
}

// Downloader fetches a source item's video payload into a local file.
type Downloader interface {
	Download(ctx context.Context, item domain.SourceItem, dest string) error
}

// Editor re-cuts a downloaded video and returns the processed artifact path.
type Editor interface {
	Edit(ctx context.Context, src string) (string, error)
}

// MetadataGenerator produces publish metadata from an item's caption or topic.
type MetadataGenerator interface {
	Generate(ctx context.Context, topic string) (domain.VideoMetadata, error)
}

// Publisher uploads a processed video for publication at the given time and
// returns its public URL.
type Publisher interface {
	Publish(ctx context.Context, filePath string, meta domain.VideoMetadata, publishAt time.Time) (string, error)
}

// Notifier streams operator-facing status messages to Telegram or other channels.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// StateStore is the durable mapping from source id to upload record. Load
// degrades to an empty mapping on unreadable or malformed state; it never
// fails the caller.
type StateStore interface {
	Load() map[string]domain.UploadRecord
	Save(records map[string]domain.UploadRecord) error
	Upsert(id string, mutate func(*domain.UploadRecord)) error
}

// Scheduler fires named daily slots.
type Scheduler interface {
	Start(ctx context.Context, job func(slot string, fired time.Time)) error
	Stop(ctx context.Context) error
}
