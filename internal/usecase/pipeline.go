package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"ShortsPublisher/internal/domain"
	"ShortsPublisher/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingest pipeline.
type PipelineDeps struct {
	Source      ports.Source
	Downloader  ports.Downloader
	Editor      ports.Editor
	Store       ports.StateStore
	Logger      *slog.Logger
	DownloadDir string
	Now         func() time.Time
}

// Pipeline implements the daily download-and-process workflow: fetch new
// source items, download each payload, re-edit it, and record its progress in
// the durable store. A failed item is logged and skipped; it never aborts the
// whole run.
type Pipeline struct {
	source      ports.Source
	downloader  ports.Downloader
	editor      ports.Editor
	store       ports.StateStore
	logger      *slog.Logger
	downloadDir string
	now         func() time.Time
}

// NewPipeline constructs the ingest component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:      deps.Source,
		downloader:  deps.Downloader,
		editor:      deps.Editor,
		store:       deps.Store,
		logger:      deps.Logger,
		downloadDir: deps.DownloadDir,
		now:         now,
	}
}

// ProcessDay orchestrates fetching, downloading, and editing new items.
func (p *Pipeline) ProcessDay(ctx context.Context, day time.Time) error {
	if p.source == nil {
		return nil
	}

	records := p.store.Load()
	known := make(map[string]struct{}, len(records))
	for id := range records {
		known[id] = struct{}{}
	}

	items, err := p.source.FetchNew(ctx, known)
	if err != nil {
		return fmt.Errorf("fetch new items: %w", err)
	}

	p.debug("ingest run", "day", day.Format("2006-01-02"), "items", len(items))

	for _, item := range items {
		if _, ok := known[item.ID]; ok {
			continue
		}
		if err := p.ingest(ctx, item); err != nil {
			p.warn("ingest item failed", "source_id", item.ID, "error", err)
		}
	}

	return nil
}

func (p *Pipeline) ingest(ctx context.Context, item domain.SourceItem) error {
	dest := filepath.Join(p.downloadDir, item.ID+".mp4")
	if err := p.downloader.Download(ctx, item, dest); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	if err := p.store.Upsert(item.ID, func(rec *domain.UploadRecord) {
		rec.FilePath = dest
		rec.Caption = item.Caption
		rec.Status = domain.StatusDownloaded
		rec.LastUpdated = p.now()
	}); err != nil {
		return fmt.Errorf("record download: %w", err)
	}

	processed, err := p.editor.Edit(ctx, dest)
	if err != nil {
		if uErr := p.store.Upsert(item.ID, func(rec *domain.UploadRecord) {
			rec.Status = domain.StatusFailed
			rec.LastUpdated = p.now()
		}); uErr != nil {
			p.warn("record edit failure", "source_id", item.ID, "error", uErr)
		}
		return fmt.Errorf("edit: %w", err)
	}

	if err := p.store.Upsert(item.ID, func(rec *domain.UploadRecord) {
		rec.FilePath = processed
		rec.Status = domain.StatusProcessed
		rec.LastUpdated = p.now()
	}); err != nil {
		return fmt.Errorf("record processed: %w", err)
	}

	p.debug("item processed", "source_id", item.ID, "file", processed)
	return nil
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
