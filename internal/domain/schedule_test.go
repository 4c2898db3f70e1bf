package domain

import (
	"testing"
	"time"
)

func TestCombineDateTime(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	got, err := CombineDateTime(date, "09:30")
	if err != nil {
		t.Fatalf("CombineDateTime error: %v", err)
	}
	want := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("instant = %v, want %v", got, want)
	}

	got, err = CombineDateTime(date, "09:30:15")
	if err != nil {
		t.Fatalf("CombineDateTime error: %v", err)
	}
	want = time.Date(2026, 3, 14, 9, 30, 15, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("instant = %v, want %v", got, want)
	}

	if _, err := CombineDateTime(date, "9:30am"); err == nil {
		t.Fatalf("expected error for malformed clock time")
	}
}

func TestScheduleIsPast_BoundaryExactlyNowIsBookable(t *testing.T) {
	s := Schedule{
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime: "09:30",
	}
	instant := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	past, err := s.IsPast(instant)
	if err != nil {
		t.Fatalf("IsPast error: %v", err)
	}
	if past {
		t.Fatalf("schedule starting exactly now must not be past")
	}

	past, err = s.IsPast(instant.Add(time.Microsecond))
	if err != nil {
		t.Fatalf("IsPast error: %v", err)
	}
	if !past {
		t.Fatalf("schedule one microsecond behind now must be past")
	}

	past, err = s.IsPast(instant.Add(-time.Microsecond))
	if err != nil {
		t.Fatalf("IsPast error: %v", err)
	}
	if past {
		t.Fatalf("future schedule must not be past")
	}
}

func TestScheduleIsPast_MalformedStartTime(t *testing.T) {
	s := Schedule{
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime: "half past nine",
	}
	if _, err := s.IsPast(time.Now()); err == nil {
		t.Fatalf("expected error for malformed start_time")
	}
}
