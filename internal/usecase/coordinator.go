package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ShortsPublisher/internal/domain"
	"ShortsPublisher/internal/ports"
)

// Outcome classifies a single coordinator tick.
type Outcome string

const (
	OutcomeUploaded Outcome = "uploaded"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// TickResult summarizes what one coordinator tick did.
type TickResult struct {
	Outcome      Outcome
	Reason       string
	SourceID     string
	URL          string
	ScheduledFor time.Time
}

// CoordinatorDeps wires driven adapters into the upload coordinator.
type CoordinatorDeps struct {
	Store        ports.StateStore
	Metadata     ports.MetadataGenerator
	Publisher    ports.Publisher
	Notifier     ports.Notifier
	Logger       *slog.Logger
	ProcessedDir string
	MaxDaily     int
	Now          func() time.Time
}

// Coordinator decides, at each slot, which processed video becomes the next
// upload candidate. It enforces idempotence (a source id is never published
// twice), the daily quota, and the pause flag, and it mutates the durable
// store only after a confirmed successful publish.
type Coordinator struct {
	store        ports.StateStore
	metadata     ports.MetadataGenerator
	publisher    ports.Publisher
	notifier     ports.Notifier
	logger       *slog.Logger
	processedDir string
	maxDaily     int
	now          func() time.Time

	paused atomic.Bool

	// Ticks run to completion one at a time; a manual trigger from the bot
	// must not overlap a scheduled slot.
	tickMu sync.Mutex
}

// NewCoordinator constructs the orchestration component.
func NewCoordinator(deps CoordinatorDeps) *Coordinator {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		store:        deps.Store,
		metadata:     deps.Metadata,
		publisher:    deps.Publisher,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		processedDir: deps.ProcessedDir,
		maxDaily:     deps.MaxDaily,
		now:          now,
	}
}

// Pause stops future ticks from doing any work. An in-flight tick finishes.
func (c *Coordinator) Pause() { c.paused.Store(true) }

// Resume clears the pause flag.
func (c *Coordinator) Resume() { c.paused.Store(false) }

// Paused reports the operator pause flag.
func (c *Coordinator) Paused() bool { return c.paused.Load() }

// UploadsToday reports the publish count for the current calendar day,
// reconciled from durable state.
func (c *Coordinator) UploadsToday() int {
	return CountToday(c.store.Load(), c.now())
}

// MaxDaily reports the configured daily quota.
func (c *Coordinator) MaxDaily() int { return c.maxDaily }

// QueueLength reports how many processed videos are still waiting.
func (c *Coordinator) QueueLength() int {
	return len(Candidates(c.store.Load(), ListProcessed(c.processedDir)))
}

// TriggerUpload runs one tick immediately on behalf of an operator command
// and returns a short human-readable summary.
func (c *Coordinator) TriggerUpload(ctx context.Context) string {
	now := c.now()
	result := c.RunSlot(ctx, now.Hour(), now.Minute())
	switch result.Outcome {
	case OutcomeUploaded:
		return fmt.Sprintf("Scheduled %s for %s\n%s", result.SourceID, SlotLabel(result.ScheduledFor), result.URL)
	case OutcomeSkipped:
		return "Upload skipped: " + result.Reason
	default:
		return "Upload failed: " + result.Reason
	}
}

// RunSlot executes one tick for the named slot time. Steps run strictly
// sequentially: pause check, quota check, candidate selection, metadata
// generation, schedule calculation, publish, and only then the durable state
// update. Any collaborator failure terminates the tick without mutating the
// store, leaving the candidate eligible for retry at the next slot.
func (c *Coordinator) RunSlot(ctx context.Context, hour, minute int) TickResult {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", uuid.NewString()[:8], "slot", fmt.Sprintf("%02d:%02d", hour, minute))

	if c.paused.Load() {
		logger.Info("automation paused, skipping slot")
		return TickResult{Outcome: OutcomeSkipped, Reason: "automation paused"}
	}

	now := c.now()
	records := c.store.Load()

	if count := CountToday(records, now); count >= c.maxDaily {
		logger.Info("daily upload limit reached", "count", count, "max", c.maxDaily)
		return TickResult{Outcome: OutcomeSkipped, Reason: "daily upload limit reached"}
	}

	candidate, err := NextCandidate(records, ListProcessed(c.processedDir))
	if errors.Is(err, ErrNoCandidate) {
		logger.Warn("no unique processed video available")
		return TickResult{Outcome: OutcomeSkipped, Reason: "no processed video available"}
	}

	logger = logger.With("source_id", candidate.SourceID)

	topic := candidate.Caption
	if topic == "" {
		topic = "short fact video " + candidate.SourceID
	}

	meta, err := c.metadata.Generate(ctx, topic)
	if err != nil {
		logger.Error("metadata generation failed", "error", err)
		return TickResult{Outcome: OutcomeFailed, Reason: "metadata generation failed", SourceID: candidate.SourceID}
	}

	publishAt, substituted := ResolveSlot(hour, minute, now)
	if substituted {
		logger.Warn("slot time already passed, publishing shortly", "publish_at", SlotLabel(publishAt))
	}

	url, err := c.publisher.Publish(ctx, candidate.FilePath, meta, publishAt)
	if err != nil {
		logger.Error("publish failed", "error", err)
		c.notify(ctx, fmt.Sprintf("❌ Upload failed for %s: %v", candidate.SourceID, err))
		return TickResult{Outcome: OutcomeFailed, Reason: "publish failed", SourceID: candidate.SourceID}
	}

	// The record flips to uploaded only now, after the publisher confirmed
	// success. The publish already happened, so a persist failure is logged
	// but does not undo the outcome.
	if err := c.store.Upsert(candidate.SourceID, func(rec *domain.UploadRecord) {
		rec.FilePath = candidate.FilePath
		rec.Status = domain.StatusUploaded
		rec.PublishedURL = url
		scheduled := publishAt
		rec.ScheduledFor = &scheduled
		rec.LastUpdated = c.now()
	}); err != nil {
		logger.Error("persist upload record failed", "error", err)
	}

	count := CountToday(c.store.Load(), now)
	logger.Info("upload scheduled", "url", url, "publish_at", SlotLabel(publishAt), "count", count, "max", c.maxDaily)
	c.notify(ctx, fmt.Sprintf("✅ Upload success at %s! Count: %d/%d\n%s", SlotLabel(publishAt), count, c.maxDaily, url))

	return TickResult{
		Outcome:      OutcomeUploaded,
		SourceID:     candidate.SourceID,
		URL:          url,
		ScheduledFor: publishAt,
	}
}

func (c *Coordinator) notify(ctx context.Context, message string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(ctx, message); err != nil && c.logger != nil {
		c.logger.Warn("notification failed", "error", err)
	}
}
