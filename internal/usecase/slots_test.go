package usecase

import (
	"testing"
	"time"
)

func TestResolveSlotFutureUnchanged(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	got, substituted := ResolveSlot(12, 0, now)
	if substituted {
		t.Fatalf("future slot must not be substituted")
	}
	want := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolveSlotPastSubstitutesNowPlusTwoMinutes(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 2, 13, 0, 0, 0, time.UTC)
	got, substituted := ResolveSlot(12, 0, now)
	if !substituted {
		t.Fatalf("past slot must be substituted")
	}
	if got.Before(now.Add(2*time.Minute)) || got.After(now.Add(3*time.Minute)) {
		t.Fatalf("substituted time out of range: %v (now %v)", got, now)
	}
}

func TestResolveSlotWithinSafetyMargin(t *testing.T) {
	t.Parallel()

	// Slot 3 minutes away falls inside the 5-minute margin.
	now := time.Date(2026, time.March, 2, 11, 57, 0, 0, time.UTC)
	got, substituted := ResolveSlot(12, 0, now)
	if !substituted {
		t.Fatalf("near-past slot must be substituted")
	}
	if !got.After(now) {
		t.Fatalf("substituted time must be in the future: %v", got)
	}
}

func TestResolveSlotExactMarginBoundary(t *testing.T) {
	t.Parallel()

	// Exactly 5 minutes away still substitutes.
	now := time.Date(2026, time.March, 2, 11, 55, 0, 0, time.UTC)
	if _, substituted := ResolveSlot(12, 0, now); !substituted {
		t.Fatalf("slot exactly at the margin must be substituted")
	}

	// One second beyond the margin is kept.
	now = time.Date(2026, time.March, 2, 11, 54, 59, 0, time.UTC)
	if _, substituted := ResolveSlot(12, 0, now); substituted {
		t.Fatalf("slot beyond the margin must be kept")
	}
}

func TestSlotLabel(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, time.March, 2, 17, 5, 0, 0, time.UTC)
	if got := SlotLabel(ts); got != "05:05 PM" {
		t.Fatalf("unexpected label: %s", got)
	}
}
