package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ShortsPublisher/internal/domain"
)

// ErrNoCandidate signals that no processed-but-unpublished video exists.
var ErrNoCandidate = errors.New("no processed video available")

// Candidate is a processed artifact eligible for the next upload.
type Candidate struct {
	SourceID string
	FilePath string
	Caption  string
}

// Candidates enumerates processed artifacts in lexicographic source-id
// order: the union of store records with status processed and .mp4 files in
// processedDir. An artifact on disk with no matching record counts as
// processed; a record in any other status removes the id from consideration.
func Candidates(records map[string]domain.UploadRecord, processedFiles []string) []Candidate {
	byID := make(map[string]Candidate)
	for _, file := range processedFiles {
		name := filepath.Base(file)
		if !strings.HasSuffix(name, ".mp4") {
			continue
		}
		id := strings.TrimSuffix(name, ".mp4")
		byID[id] = Candidate{SourceID: id, FilePath: file}
	}

	for id, rec := range records {
		if rec.Status == domain.StatusProcessed {
			byID[id] = Candidate{SourceID: id, FilePath: rec.FilePath, Caption: rec.Caption}
			continue
		}
		delete(byID, id)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	candidates := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		candidates = append(candidates, byID[id])
	}
	return candidates
}

// ListProcessed returns the .mp4 artifacts inside dir. A missing directory
// yields an empty list.
func ListProcessed(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp4") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files
}

// NextCandidate picks exactly one candidate or reports ErrNoCandidate.
func NextCandidate(records map[string]domain.UploadRecord, processedFiles []string) (Candidate, error) {
	candidates := Candidates(records, processedFiles)
	if len(candidates) == 0 {
		return Candidate{}, ErrNoCandidate
	}
	return candidates[0], nil
}
