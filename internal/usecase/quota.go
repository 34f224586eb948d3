package usecase

import (
	"time"

	"ShortsPublisher/internal/domain"
)

// CountToday reports how many records reached uploaded during now's calendar
// day. The count is derived from durable state on every check, so it survives
// process restarts; the reset at the day boundary is implicit.
func CountToday(records map[string]domain.UploadRecord, now time.Time) int {
	year, month, day := now.Date()

	count := 0
	for _, rec := range records {
		if rec.Status != domain.StatusUploaded {
			continue
		}
		ry, rm, rd := rec.LastUpdated.In(now.Location()).Date()
		if ry == year && rm == month && rd == day {
			count++
		}
	}
	return count
}
