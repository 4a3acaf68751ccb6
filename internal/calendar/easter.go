// Package calendar provides liturgical calendar calculations.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// CalculateEaster calculates the date of Easter Sunday for a given year
// using the computus algorithm for the Gregorian calendar.
//
// The algorithm is based on the method described by J.M. Oudin (1940)
// and is valid for all years in the Gregorian calendar.
func CalculateEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// CalculateAdvent calculates the date of the first Sunday of Advent
// (the 4th Sunday before Christmas) for a given year.
//
// Counting back from Christmas keeps the result on the Sunday closest to
// November 30, which means it always falls between November 27 and December 3.
func CalculateAdvent(year int) time.Time {
	christmas := time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)

	// Fourth Sunday of Advent: the last Sunday strictly before Christmas.
	back := int(christmas.Weekday())
	if back == 0 {
		back = 7
	}
	fourthSunday := christmas.AddDate(0, 0, -back)

	return fourthSunday.AddDate(0, 0, -21)
}

// CalculateChristTheKing returns the last Sunday of the liturgical year,
// the Sunday before the first Sunday of Advent.
func CalculateChristTheKing(year int) time.Time {
	return CalculateAdvent(year).AddDate(0, 0, -7)
}

// CalculateAshWednesday calculates Ash Wednesday for a given year.
// Ash Wednesday is 46 days before Easter (40 days of Lent + 6 days of Holy Week).
func CalculateAshWednesday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -46)
}

// CalculatePalmSunday returns the Sunday before Easter.
func CalculatePalmSunday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -7)
}

// CalculateHolyThursday returns Thursday of Holy Week.
func CalculateHolyThursday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -3)
}

// CalculateGoodFriday returns Friday of Holy Week.
func CalculateGoodFriday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -2)
}

// CalculateHolySaturday returns Saturday of Holy Week.
func CalculateHolySaturday(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, -1)
}

// CalculateDivineMercy returns the Second Sunday of Easter.
func CalculateDivineMercy(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 7)
}

// CalculateAscension calculates Ascension Day for a given year.
// Ascension is 39 days after Easter (always on a Thursday).
func CalculateAscension(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 39)
}

// CalculatePentecost calculates Pentecost Sunday for a given year.
// Pentecost is 49 days after Easter (7 weeks).
func CalculatePentecost(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 49)
}

// CalculateMaryMotherOfChurch returns the Monday after Pentecost.
func CalculateMaryMotherOfChurch(year int) time.Time {
	return CalculatePentecost(year).AddDate(0, 0, 1)
}

// CalculateHighPriest returns the Thursday after Pentecost, kept in some
// particular calendars as the feast of Christ the Eternal High Priest.
func CalculateHighPriest(year int) time.Time {
	return CalculatePentecost(year).AddDate(0, 0, 4)
}

// CalculateTrinitySunday returns the Sunday after Pentecost.
func CalculateTrinitySunday(year int) time.Time {
	return CalculatePentecost(year).AddDate(0, 0, 7)
}

// CorpusChristiPolicy selects where a calendar keeps the solemnity of the
// Body and Blood of Christ.
type CorpusChristiPolicy string

const (
	// CorpusChristiSunday transfers the solemnity to the Sunday after Trinity.
	CorpusChristiSunday CorpusChristiPolicy = "sunday"

	// CorpusChristiThursday keeps the solemnity on the Thursday after Trinity.
	CorpusChristiThursday CorpusChristiPolicy = "thursday"
)

// ParseCorpusChristiPolicy converts a configuration string into a policy.
// The empty string selects the Sunday policy.
func ParseCorpusChristiPolicy(s string) (CorpusChristiPolicy, error) {
	switch CorpusChristiPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CorpusChristiSunday:
		return CorpusChristiSunday, nil
	case CorpusChristiThursday:
		return CorpusChristiThursday, nil
	default:
		return "", fmt.Errorf("unknown Corpus Christi policy %q", s)
	}
}

// CalculateCorpusChristi returns the solemnity of the Body and Blood of
// Christ under the given policy.
func CalculateCorpusChristi(year int, policy CorpusChristiPolicy) time.Time {
	trinity := CalculateTrinitySunday(year)
	if policy == CorpusChristiThursday {
		return trinity.AddDate(0, 0, 4)
	}
	return trinity.AddDate(0, 0, 7)
}

// CalculateSacredHeart returns the Friday after the second Sunday after
// Pentecost (Corpus Christi Thursday + 8). The date does not depend on where
// Corpus Christi itself is kept.
func CalculateSacredHeart(year int) time.Time {
	return CalculateEaster(year).AddDate(0, 0, 68)
}

// CalculateImmaculateHeart returns the Saturday after the Sacred Heart.
func CalculateImmaculateHeart(year int) time.Time {
	return CalculateSacredHeart(year).AddDate(0, 0, 1)
}

// CalculateBaptismOfTheLord returns the Sunday after the Epiphany (January 6).
func CalculateBaptismOfTheLord(year int) time.Time {
	if sunday := FindSundayBetween(year, 1, 7, 1, 13); sunday != nil {
		return *sunday
	}
	// unreachable: every seven-day range holds a Sunday
	return time.Date(year, time.January, 13, 0, 0, 0, 0, time.UTC)
}

// CalculateHolyFamily returns the Sunday within the octave of Christmas of
// the given year, or December 30 when Christmas itself is a Sunday.
func CalculateHolyFamily(year int) time.Time {
	if sunday := FindSundayBetween(year, 12, 26, 12, 31); sunday != nil {
		return *sunday
	}
	return time.Date(year, time.December, 30, 0, 0, 0, 0, time.UTC)
}

// KeyDates groups the movable boundaries and feasts of one calendar year.
type KeyDates struct {
	Year               int       `json:"year"`
	BaptismOfTheLord   time.Time `json:"baptism_of_the_lord"`
	AshWednesday       time.Time `json:"ash_wednesday"`
	PalmSunday         time.Time `json:"palm_sunday"`
	HolyThursday       time.Time `json:"holy_thursday"`
	GoodFriday         time.Time `json:"good_friday"`
	HolySaturday       time.Time `json:"holy_saturday"`
	Easter             time.Time `json:"easter"`
	DivineMercy        time.Time `json:"divine_mercy"`
	Ascension          time.Time `json:"ascension"`
	Pentecost          time.Time `json:"pentecost"`
	MaryMotherOfChurch time.Time `json:"mary_mother_of_church"`
	HighPriest         time.Time `json:"high_priest"`
	TrinitySunday      time.Time `json:"trinity_sunday"`
	CorpusChristi      time.Time `json:"corpus_christi"`
	SacredHeart        time.Time `json:"sacred_heart"`
	ImmaculateHeart    time.Time `json:"immaculate_heart"`
	ChristTheKing      time.Time `json:"christ_the_king"`
	Advent             time.Time `json:"advent"`
	HolyFamily         time.Time `json:"holy_family"`
}

// CalculateKeyDates computes every movable date of a year at once.
func CalculateKeyDates(year int, policy CorpusChristiPolicy) KeyDates {
	return KeyDates{
		Year:               year,
		BaptismOfTheLord:   CalculateBaptismOfTheLord(year),
		AshWednesday:       CalculateAshWednesday(year),
		PalmSunday:         CalculatePalmSunday(year),
		HolyThursday:       CalculateHolyThursday(year),
		GoodFriday:         CalculateGoodFriday(year),
		HolySaturday:       CalculateHolySaturday(year),
		Easter:             CalculateEaster(year),
		DivineMercy:        CalculateDivineMercy(year),
		Ascension:          CalculateAscension(year),
		Pentecost:          CalculatePentecost(year),
		MaryMotherOfChurch: CalculateMaryMotherOfChurch(year),
		HighPriest:         CalculateHighPriest(year),
		TrinitySunday:      CalculateTrinitySunday(year),
		CorpusChristi:      CalculateCorpusChristi(year, policy),
		SacredHeart:        CalculateSacredHeart(year),
		ImmaculateHeart:    CalculateImmaculateHeart(year),
		ChristTheKing:      CalculateChristTheKing(year),
		Advent:             CalculateAdvent(year),
		HolyFamily:         CalculateHolyFamily(year),
	}
}
