package usecase

import "time"

const (
	// Slots closer than this to now (or already past) are not trusted; the
	// downstream publish API rejects past or near-past timestamps.
	slotSafetyMargin = 5 * time.Minute

	// Substitute delay applied when a slot has effectively passed.
	immediateDelay = 2 * time.Minute
)

// ResolveSlot converts a wall-clock slot time into a concrete future publish
// timestamp. If today's occurrence is within the safety margin of now
// (including already past), now+2m is substituted and reported so the caller
// can log it. The result is always at least ~2 minutes in the future.
func ResolveSlot(hour, minute int, now time.Time) (time.Time, bool) {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now.Add(slotSafetyMargin)) {
		return now.Add(immediateDelay), true
	}
	return target, false
}

// SlotLabel renders the human-readable time used in logs and notifications.
func SlotLabel(t time.Time) string {
	return t.Format("03:04 PM")
}
