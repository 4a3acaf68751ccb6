package calendar

import "time"

// SundayCycle is the three-year cycle of Sunday readings.
type SundayCycle string

const (
	CycleA SundayCycle = "A"
	CycleB SundayCycle = "B"
	CycleC SundayCycle = "C"
)

// WeekdayCycle is the two-year cycle of weekday readings.
type WeekdayCycle string

const (
	CycleI  WeekdayCycle = "I"
	CycleII WeekdayCycle = "II"
)

// GetLiturgicalYear returns the starting year of the liturgical year
// that contains the given date.
//
// The liturgical year is identified by the year in which its Advent begins.
// For example, the liturgical year "2024" runs from Advent 2024 through
// the Saturday before Advent 2025.
func GetLiturgicalYear(date time.Time) int {
	date = DateOnly(date)
	year := date.Year()
	advent := CalculateAdvent(year)

	if date.Before(advent) {
		return year - 1
	}
	return year
}

// GetSundayCycle determines which Sunday cycle (A, B or C) applies to a date.
//
// Cycles are keyed on the calendar year in which the liturgical year ends:
// a remainder of 1 after division by 3 is Year A, 2 is Year B, 0 is Year C.
//
// Examples:
//   - December 1, 2024 (Advent 2024, ends in 2025): Year C
//   - November 15, 2024 (ends in 2024): Year B
//   - November 30, 2025 (Advent 2025, ends in 2026): Year A
func GetSundayCycle(date time.Time) SundayCycle {
	endingYear := GetLiturgicalYear(date) + 1

	switch endingYear % 3 {
	case 1:
		return CycleA
	case 2:
		return CycleB
	default:
		return CycleC
	}
}

// GetWeekdayCycle determines the weekday cycle (I or II): Year I when the
// liturgical year ends in an odd calendar year, Year II when it ends in an
// even one.
func GetWeekdayCycle(date time.Time) WeekdayCycle {
	endingYear := GetLiturgicalYear(date) + 1
	if endingYear%2 == 0 {
		return CycleII
	}
	return CycleI
}
