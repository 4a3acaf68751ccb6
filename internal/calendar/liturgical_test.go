package calendar

import (
	"testing"
	"time"
)

func TestDays(t *testing.T) {
	start := time.Date(2024, 2, 27, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	days := Days(start, end)
	if len(days) != 5 {
		t.Fatalf("Days() returned %d dates, want 5 (leap day included)", len(days))
	}
	if got := FormatDate(days[2]); got != "2024-02-29" {
		t.Errorf("days[2] = %s, want 2024-02-29", got)
	}
	for _, d := range days {
		if d.Hour() != 0 || d.Location() != time.UTC {
			t.Errorf("%v is not a DateOnly value", d)
		}
	}
}

func TestDays_SingleAndEmpty(t *testing.T) {
	d := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	if got := Days(d, d); len(got) != 1 {
		t.Errorf("Days(d, d) = %v, want one date", got)
	}
	if got := Days(d, d.AddDate(0, 0, -1)); got != nil {
		t.Errorf("Days(end before start) = %v, want nil", got)
	}
}

func TestDays_FullYear(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	if got := len(Days(start, end)); got != 366 {
		t.Errorf("Days(2024) = %d dates, want 366", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 5, 19, 23, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 49 {
		t.Errorf("DaysBetween(Easter, Pentecost) = %d, want 49", got)
	}
	if got := DaysBetween(b, a); got != -49 {
		t.Errorf("DaysBetween reversed = %d, want -49", got)
	}
}
