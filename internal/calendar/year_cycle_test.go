package calendar

import (
	"testing"
	"time"
)

func TestGetLiturgicalYear(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{date(2024, time.November, 30), 2023},
		{date(2024, time.December, 1), 2024},
		{date(2025, time.March, 15), 2024},
		{date(2025, time.November, 30), 2025},
	}

	for _, tt := range tests {
		if got := GetLiturgicalYear(tt.date); got != tt.want {
			t.Errorf("GetLiturgicalYear(%s) = %d, want %d", FormatDate(tt.date), got, tt.want)
		}
	}
}

func TestGetSundayCycle(t *testing.T) {
	tests := []struct {
		date time.Time
		want SundayCycle
	}{
		{date(2023, time.June, 4), CycleA},
		{date(2024, time.November, 15), CycleB},
		{date(2024, time.December, 1), CycleC},
		{date(2025, time.June, 1), CycleC},
		{date(2025, time.November, 30), CycleA},
	}

	for _, tt := range tests {
		if got := GetSundayCycle(tt.date); got != tt.want {
			t.Errorf("GetSundayCycle(%s) = %q, want %q", FormatDate(tt.date), got, tt.want)
		}
	}
}

func TestGetWeekdayCycle(t *testing.T) {
	tests := []struct {
		date time.Time
		want WeekdayCycle
	}{
		{date(2024, time.June, 4), CycleII},
		{date(2024, time.December, 2), CycleI},
		{date(2025, time.June, 4), CycleI},
		{date(2025, time.December, 1), CycleII},
	}

	for _, tt := range tests {
		if got := GetWeekdayCycle(tt.date); got != tt.want {
			t.Errorf("GetWeekdayCycle(%s) = %q, want %q", FormatDate(tt.date), got, tt.want)
		}
	}
}
