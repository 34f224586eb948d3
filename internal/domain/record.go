package domain

import "time"

// Status enumerates the lifecycle milestones of a single source item.
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusProcessed  Status = "processed"
	StatusUploaded   Status = "uploaded"
	StatusFailed     Status = "failed"
)

// UploadRecord tracks one source item across the pipeline. The durable store
// keys records by SourceID; a record that reached StatusUploaded is immutable
// and never selected again.
type UploadRecord struct {
	SourceID     string     `json:"source_id"`
	FilePath     string     `json:"file_path"`
	Caption      string     `json:"caption,omitempty"`
	Status       Status     `json:"status"`
	PublishedURL string     `json:"published_url,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	LastUpdated  time.Time  `json:"last_updated"`
}

// SourceItem is a short video discovered on a source account, identified by a
// stable platform-assigned id.
type SourceItem struct {
	ID       string
	Account  string
	Caption  string
	VideoURL string
	PostedAt time.Time
}

// VideoMetadata is the publish metadata produced by the generator.
type VideoMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Hashtags    []string `json:"hashtags"`
}
