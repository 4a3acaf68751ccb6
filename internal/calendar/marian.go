package calendar

import "time"

// AntiphonPeriod names the Marian antiphon sung after Compline.
type AntiphonPeriod string

const (
	AlmaRedemptorisMater AntiphonPeriod = "alma-redemptoris-mater"
	AveReginaCaelorum    AntiphonPeriod = "ave-regina-caelorum"
	ReginaCaeli          AntiphonPeriod = "regina-caeli"
	SalveRegina          AntiphonPeriod = "salve-regina"
)

// MarianAntiphon returns the antiphon period for a date.
//
//	[Advent 1, Presentation)   alma-redemptoris-mater
//	[Presentation, Easter)     ave-regina-caelorum
//	[Easter, Pentecost]        regina-caeli
//	otherwise                  salve-regina
//
// November and December dates use the current year's Advent and Christmas;
// January dates use the previous year's, since the Advent-Christmas stretch
// started in the prior calendar year.
func MarianAntiphon(date time.Time) AntiphonPeriod {
	date = DateOnly(date)
	year := date.Year()

	adventYear := year
	if date.Month() == time.January {
		adventYear = year - 1
	}
	advent := CalculateAdvent(adventYear)
	christmas := time.Date(adventYear, time.December, 25, 0, 0, 0, 0, time.UTC)
	presentation := time.Date(adventYear+1, time.February, 2, 0, 0, 0, 0, time.UTC)

	if date.Month() == time.November || date.Month() == time.December || date.Month() == time.January {
		if inRange(date, advent, christmas) || inRange(date, christmas, presentation) {
			return AlmaRedemptorisMater
		}
	}

	// Feb 2 of this calendar year onward.
	presentation = time.Date(year, time.February, 2, 0, 0, 0, 0, time.UTC)
	easter := CalculateEaster(year)
	pentecost := CalculatePentecost(year)

	switch {
	case date.Month() == time.February && date.Before(presentation):
		return AlmaRedemptorisMater
	case inRange(date, presentation, easter):
		return AveReginaCaelorum
	case !date.Before(easter) && !date.After(pentecost):
		return ReginaCaeli
	}
	return SalveRegina
}

// inRange reports whether date is in the half-open interval [start, end).
func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && date.Before(end)
}
