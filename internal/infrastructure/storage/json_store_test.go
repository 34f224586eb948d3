package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ShortsPublisher/internal/domain"
)

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	return NewJSONStore(filepath.Join(t.TempDir(), "uploaded.json"), nil)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	records := store.Load()
	if len(records) != 0 {
		t.Fatalf("expected empty mapping, got %d records", len(records))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	scheduled := time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC)
	want := map[string]domain.UploadRecord{
		"2345678": {
			SourceID:     "2345678",
			FilePath:     "processed/2345678.mp4",
			Status:       domain.StatusUploaded,
			PublishedURL: "https://youtu.be/abc123",
			ScheduledFor: &scheduled,
			LastUpdated:  scheduled,
		},
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got := store.Load()
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	rec := got["2345678"]
	if rec.Status != domain.StatusUploaded {
		t.Fatalf("unexpected status: %s", rec.Status)
	}
	if rec.PublishedURL != "https://youtu.be/abc123" {
		t.Fatalf("unexpected url: %s", rec.PublishedURL)
	}
	if rec.ScheduledFor == nil || !rec.ScheduledFor.Equal(scheduled) {
		t.Fatalf("unexpected scheduled_for: %v", rec.ScheduledFor)
	}
}

func TestLoadCorruptFileFallsBackEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := os.WriteFile(store.path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	records := store.Load()
	if len(records) != 0 {
		t.Fatalf("expected empty mapping for corrupt state, got %d", len(records))
	}
}

func TestUpsertCreatesAndMerges(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	err := store.Upsert("A", func(rec *domain.UploadRecord) {
		rec.FilePath = "downloads/A.mp4"
		rec.Status = domain.StatusDownloaded
	})
	if err != nil {
		t.Fatalf("Upsert create error: %v", err)
	}

	err = store.Upsert("A", func(rec *domain.UploadRecord) {
		rec.Status = domain.StatusProcessed
	})
	if err != nil {
		t.Fatalf("Upsert merge error: %v", err)
	}

	records := store.Load()
	rec := records["A"]
	if rec.SourceID != "A" {
		t.Fatalf("unexpected source id: %q", rec.SourceID)
	}
	if rec.Status != domain.StatusProcessed {
		t.Fatalf("unexpected status: %s", rec.Status)
	}
	if rec.FilePath != "downloads/A.mp4" {
		t.Fatalf("merge lost file path: %q", rec.FilePath)
	}
}

// An interrupted save must leave either the old or the new state on disk in
// full. The write goes to a temp file first, so a crash before rename leaves
// the previous file untouched.
func TestSaveSurvivesSimulatedCrash(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	old := map[string]domain.UploadRecord{
		"A": {SourceID: "A", Status: domain.StatusProcessed, LastUpdated: time.Now().UTC()},
	}
	if err := store.Save(old); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Simulate a crash mid-save: a partially written temp file next to the
	// real state must not affect what Load sees.
	partial := store.path + ".tmp-crash"
	if err := os.WriteFile(partial, []byte(`{"A": {"sour`), 0o644); err != nil {
		t.Fatalf("seed partial temp file: %v", err)
	}

	reloaded := NewJSONStore(store.path, nil)
	records := reloaded.Load()
	if len(records) != 1 || records["A"].Status != domain.StatusProcessed {
		t.Fatalf("state damaged after simulated crash: %+v", records)
	}
}

func TestSaveWritesHumanReadableJSON(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.Save(map[string]domain.UploadRecord{
		"A": {SourceID: "A", Status: domain.StatusProcessed, LastUpdated: time.Now().UTC()},
	}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	raw, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}

	var generic map[string]map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("state is not valid JSON: %v", err)
	}
	if _, ok := generic["A"]["source_id"]; !ok {
		t.Fatalf("expected source_id field in persisted record: %s", raw)
	}
}
