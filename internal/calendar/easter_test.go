package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateEaster(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{1818, date(1818, time.March, 22)},
		{1943, date(1943, time.April, 25)},
		{2000, date(2000, time.April, 23)},
		{2008, date(2008, time.March, 23)},
		{2011, date(2011, time.April, 24)},
		{2019, date(2019, time.April, 21)},
		{2024, date(2024, time.March, 31)},
		{2025, date(2025, time.April, 20)},
		{2026, date(2026, time.April, 5)},
		{2038, date(2038, time.April, 25)},
		{2285, date(2285, time.March, 22)},
	}

	for _, tt := range tests {
		if got := CalculateEaster(tt.year); !got.Equal(tt.want) {
			t.Errorf("CalculateEaster(%d) = %s, want %s", tt.year, FormatDate(got), FormatDate(tt.want))
		}
	}
}

func TestCalculateEaster_AlwaysSundayInRange(t *testing.T) {
	for year := 1583; year <= 4099; year++ {
		easter := CalculateEaster(year)
		if easter.Weekday() != time.Sunday {
			t.Fatalf("Easter %d = %s is a %s", year, FormatDate(easter), easter.Weekday())
		}
		earliest := date(year, time.March, 22)
		latest := date(year, time.April, 25)
		if easter.Before(earliest) || easter.After(latest) {
			t.Fatalf("Easter %d = %s outside March 22 - April 25", year, FormatDate(easter))
		}
	}
}

func TestEasterOffsets(t *testing.T) {
	for year := 1900; year <= 2200; year++ {
		easter := CalculateEaster(year)

		if got := DaysBetween(easter, CalculateAscension(year)); got != 39 {
			t.Fatalf("%d: Ascension offset = %d, want 39", year, got)
		}
		if got := DaysBetween(easter, CalculatePentecost(year)); got != 49 {
			t.Fatalf("%d: Pentecost offset = %d, want 49", year, got)
		}
		if got := DaysBetween(easter, CalculateDivineMercy(year)); got != 7 {
			t.Fatalf("%d: Divine Mercy offset = %d, want 7", year, got)
		}
		if got := DaysBetween(easter, CalculateAshWednesday(year)); got != -46 {
			t.Fatalf("%d: Ash Wednesday offset = %d, want -46", year, got)
		}
		if CalculateAscension(year).Weekday() != time.Thursday {
			t.Fatalf("%d: Ascension is not a Thursday", year)
		}
		if CalculateSacredHeart(year).Weekday() != time.Friday {
			t.Fatalf("%d: Sacred Heart is not a Friday", year)
		}
		if CalculateMaryMotherOfChurch(year).Weekday() != time.Monday {
			t.Fatalf("%d: Mary Mother of the Church is not a Monday", year)
		}
	}
}

func TestCalculateCorpusChristi(t *testing.T) {
	// 2024: Trinity Sunday May 26
	if got := CalculateTrinitySunday(2024); !got.Equal(date(2024, time.May, 26)) {
		t.Fatalf("Trinity 2024 = %s", FormatDate(got))
	}

	sunday := CalculateCorpusChristi(2024, CorpusChristiSunday)
	if !sunday.Equal(date(2024, time.June, 2)) {
		t.Errorf("Corpus Christi (Sunday) 2024 = %s, want 2024-06-02", FormatDate(sunday))
	}

	thursday := CalculateCorpusChristi(2024, CorpusChristiThursday)
	if !thursday.Equal(date(2024, time.May, 30)) {
		t.Errorf("Corpus Christi (Thursday) 2024 = %s, want 2024-05-30", FormatDate(thursday))
	}

	if got := DaysBetween(thursday, CalculateSacredHeart(2024)); got != 8 {
		t.Errorf("Sacred Heart - Corpus Christi Thursday = %d days, want 8", got)
	}
}

func TestParseCorpusChristiPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    CorpusChristiPolicy
		wantErr bool
	}{
		{"", CorpusChristiSunday, false},
		{"sunday", CorpusChristiSunday, false},
		{" Thursday ", CorpusChristiThursday, false},
		{"monday", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCorpusChristiPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCorpusChristiPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCorpusChristiPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCalculateAdvent(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2022, date(2022, time.November, 27)},
		{2023, date(2023, time.December, 3)},
		{2024, date(2024, time.December, 1)},
		{2025, date(2025, time.November, 30)},
		{2026, date(2026, time.November, 29)},
	}

	for _, tt := range tests {
		if got := CalculateAdvent(tt.year); !got.Equal(tt.want) {
			t.Errorf("CalculateAdvent(%d) = %s, want %s", tt.year, FormatDate(got), FormatDate(tt.want))
		}
	}

	for year := 1900; year <= 2200; year++ {
		advent := CalculateAdvent(year)
		if advent.Weekday() != time.Sunday {
			t.Fatalf("Advent %d is a %s", year, advent.Weekday())
		}
		if advent.Before(date(year, time.November, 27)) || advent.After(date(year, time.December, 3)) {
			t.Fatalf("Advent %d = %s outside November 27 - December 3", year, FormatDate(advent))
		}
		if got := CalculateChristTheKing(year); got.Weekday() != time.Sunday || DaysBetween(got, advent) != 7 {
			t.Fatalf("Christ the King %d = %s", year, FormatDate(got))
		}
	}
}

func TestCalculateBaptismAndHolyFamily(t *testing.T) {
	if got := CalculateBaptismOfTheLord(2024); !got.Equal(date(2024, time.January, 7)) {
		t.Errorf("Baptism 2024 = %s, want 2024-01-07", FormatDate(got))
	}
	if got := CalculateBaptismOfTheLord(2025); !got.Equal(date(2025, time.January, 12)) {
		t.Errorf("Baptism 2025 = %s, want 2025-01-12", FormatDate(got))
	}
	if got := CalculateHolyFamily(2024); !got.Equal(date(2024, time.December, 29)) {
		t.Errorf("Holy Family 2024 = %s, want 2024-12-29", FormatDate(got))
	}
	// Christmas 2022 was a Sunday.
	if got := CalculateHolyFamily(2022); !got.Equal(date(2022, time.December, 30)) {
		t.Errorf("Holy Family 2022 = %s, want 2022-12-30", FormatDate(got))
	}
}

func TestCalculateKeyDates(t *testing.T) {
	kd := CalculateKeyDates(2024, CorpusChristiSunday)

	if !kd.Easter.Equal(date(2024, time.March, 31)) {
		t.Errorf("Easter = %s", FormatDate(kd.Easter))
	}
	if !kd.Pentecost.Equal(date(2024, time.May, 19)) {
		t.Errorf("Pentecost = %s", FormatDate(kd.Pentecost))
	}
	if !kd.ChristTheKing.Equal(date(2024, time.November, 24)) {
		t.Errorf("Christ the King = %s", FormatDate(kd.ChristTheKing))
	}
	if !kd.CorpusChristi.Equal(date(2024, time.June, 2)) {
		t.Errorf("Corpus Christi = %s", FormatDate(kd.CorpusChristi))
	}
}
