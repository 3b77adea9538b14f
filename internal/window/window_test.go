package window

import (
	"errors"
	"testing"
	"time"

	"NewsDesk/internal/domain"
)

var kst = time.FixedZone("KST", 9*60*60)

func TestComputeWeekday(t *testing.T) {
	t.Parallel()

	// Wednesday afternoon.
	now := time.Date(2024, time.March, 13, 15, 30, 0, 0, kst)
	w, err := Compute(now)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	wantStart := time.Date(2024, time.March, 12, 10, 0, 0, 0, kst)
	wantEnd := time.Date(2024, time.March, 13, 10, 0, 0, 0, kst)
	if !w.Start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, w.Start)
	}
	if !w.End.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, w.End)
	}
}

func TestComputeMonday(t *testing.T) {
	t.Parallel()

	// Monday morning: window reaches back to Friday 10:00.
	now := time.Date(2024, time.March, 11, 8, 0, 0, 0, kst)
	w, err := Compute(now)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	wantStart := time.Date(2024, time.March, 8, 10, 0, 0, 0, kst)
	if w.Start.Weekday() != time.Friday {
		t.Fatalf("expected Friday start, got %s", w.Start.Weekday())
	}
	if !w.Start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, w.Start)
	}
	if !w.End.Equal(time.Date(2024, time.March, 11, 10, 0, 0, 0, kst)) {
		t.Fatalf("unexpected end: %v", w.End)
	}
}

func TestComputeLookbackPerWeekday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		day      int // March 2024: 11th is a Monday
		wantDays int
	}{
		{11, 3}, // Monday
		{12, 1}, // Tuesday
		{13, 1}, // Wednesday
		{14, 1}, // Thursday
		{15, 1}, // Friday
		{16, 1}, // Saturday
		{17, 1}, // Sunday
	}

	for _, tt := range tests {
		now := time.Date(2024, time.March, tt.day, 12, 0, 0, 0, kst)
		t.Run(now.Weekday().String(), func(t *testing.T) {
			w, err := Compute(now)
			if err != nil {
				t.Fatalf("Compute returned error: %v", err)
			}
			got := int(w.End.Sub(w.Start).Hours() / 24)
			if got != tt.wantDays {
				t.Fatalf("expected %d day lookback, got %d", tt.wantDays, got)
			}
		})
	}
}

func TestComputeKeepsLocation(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 5, 11, 0, 0, 0, kst)
	w, err := Compute(now)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if w.Start.Location() != kst || w.End.Location() != kst {
		t.Fatalf("window lost location: start=%v end=%v", w.Start.Location(), w.End.Location())
	}
	if w.End.Hour() != 10 || w.Start.Hour() != 10 {
		t.Fatalf("expected 10:00 bounds, got %d:00 and %d:00", w.Start.Hour(), w.End.Hour())
	}
}

func TestComputeZeroTime(t *testing.T) {
	t.Parallel()

	_, err := Compute(time.Time{})
	if err == nil {
		t.Fatal("expected error for zero time")
	}

	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
}

func TestContainsInclusiveBounds(t *testing.T) {
	t.Parallel()

	w := Window{
		Start: time.Date(2024, time.March, 12, 10, 0, 0, 0, kst),
		End:   time.Date(2024, time.March, 13, 10, 0, 0, 0, kst),
	}

	if !w.Contains(w.Start) {
		t.Fatal("start bound must be inclusive")
	}
	if !w.Contains(w.End) {
		t.Fatal("end bound must be inclusive")
	}
	if w.Contains(w.Start.Add(-time.Second)) {
		t.Fatal("instant before start must be outside")
	}
	if w.Contains(w.End.Add(time.Second)) {
		t.Fatal("instant after end must be outside")
	}
}
