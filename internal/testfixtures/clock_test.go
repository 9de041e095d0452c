package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	t.Parallel()

	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	updated := clock.Advance(90 * time.Minute)
	if !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("expected advanced time, got %v", updated)
	}
	if !clock.Now().Equal(updated) {
		t.Fatalf("expected Now to track the advance, got %v", clock.Now())
	}

	reset := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	clock.Set(reset)
	if !clock.Now().Equal(reset) {
		t.Fatalf("expected Set to take effect, got %v", clock.Now())
	}
}

func TestClockNowFuncOnNil(t *testing.T) {
	t.Parallel()

	var clock *Clock
	if fn := clock.NowFunc(); fn == nil {
		t.Fatal("expected a usable fallback function")
	}
}
