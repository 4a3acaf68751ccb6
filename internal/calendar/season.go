package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Color is a liturgical vestment color.
type Color string

const (
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorWhite  Color = "white"
	ColorRed    Color = "red"
	ColorRose   Color = "rose"
	ColorGold   Color = "gold"
)

// ValidColors returns all valid liturgical colors.
func ValidColors() []Color {
	return []Color{ColorGreen, ColorPurple, ColorWhite, ColorRed, ColorRose, ColorGold}
}

// ParseColor converts a color token into a Color. "violet" is accepted as a
// display synonym for purple.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if c == "violet" {
		return ColorPurple, nil
	}
	for _, valid := range ValidColors() {
		if c == valid {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown liturgical color %q", s)
}

// SeasonName identifies a liturgical season.
type SeasonName string

const (
	SeasonAdvent    SeasonName = "Advent"
	SeasonChristmas SeasonName = "Christmas"
	SeasonLent      SeasonName = "Lent"
	SeasonEaster    SeasonName = "Easter"
	SeasonPentecost SeasonName = "Pentecost"
	SeasonOrdinary  SeasonName = "Ordinary Time"
)

// ValidSeasons returns all liturgical seasons.
func ValidSeasons() []SeasonName {
	return []SeasonName{
		SeasonAdvent,
		SeasonChristmas,
		SeasonLent,
		SeasonEaster,
		SeasonPentecost,
		SeasonOrdinary,
	}
}

// Key returns the lower-case identifier used for template overrides and
// CSS classes ("advent", "ordinary_time").
func (s SeasonName) Key() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "_")
}

// DefaultColor returns the color worn through the season.
func (s SeasonName) DefaultColor() Color {
	switch s {
	case SeasonAdvent, SeasonLent:
		return ColorPurple
	case SeasonChristmas, SeasonEaster:
		return ColorWhite
	case SeasonPentecost:
		return ColorRed
	default:
		return ColorGreen
	}
}

// SeasonClass returns the display class for a season ("season-advent").
func SeasonClass(s SeasonName) string {
	return "season-" + strings.ReplaceAll(s.Key(), "_", "-")
}

// Season is the liturgical season a date falls in.
type Season struct {
	Name      SeasonName `json:"name"`
	Color     Color      `json:"color"`
	Week      int        `json:"week"`
	WeekLabel string     `json:"week_label"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"` // last day of the season, inclusive
}

// ResolveSeason maps a date to its liturgical season and week.
//
// The checks run in calendar order through the liturgical year; the first
// one that claims the date wins. Dates nothing claims fall back to
// Ordinary Time, week 1.
func ResolveSeason(date time.Time) Season {
	date = DateOnly(date)
	year := date.Year()

	if s, ok := resolveAdvent(date, year); ok {
		return s
	}
	if s, ok := resolveChristmas(date, year); ok {
		return s
	}
	if s, ok := resolveOrdinaryBeforeLent(date, year); ok {
		return s
	}
	if s, ok := resolveLent(date, year); ok {
		return s
	}
	if s, ok := resolveEaster(date, year); ok {
		return s
	}
	if s, ok := resolvePentecost(date, year); ok {
		return s
	}
	if s, ok := resolveOrdinaryAfterPentecost(date, year); ok {
		return s
	}

	return newSeason(SeasonOrdinary, 1, date, date)
}

// SeasonResolver adapts ResolveSeason for injection into services.
type SeasonResolver struct{}

// Resolve returns the season for date.
func (SeasonResolver) Resolve(date time.Time) Season {
	return ResolveSeason(date)
}

func newSeason(name SeasonName, week int, start, end time.Time) Season {
	return Season{
		Name:      name,
		Color:     name.DefaultColor(),
		Week:      week,
		WeekLabel: weekLabel(name, week),
		Start:     start,
		End:       end,
	}
}

func weekLabel(name SeasonName, week int) string {
	switch {
	case name == SeasonPentecost:
		return "Pentecost"
	case name == SeasonOrdinary:
		return fmt.Sprintf("%s Week in Ordinary Time", Ordinal(week))
	case name == SeasonLent && week == 0:
		return "Ash Wednesday and Following"
	case name == SeasonLent && week == 6:
		return "Holy Week"
	}
	return fmt.Sprintf("%s Week of %s", Ordinal(week), name)
}

// resolveAdvent handles the 1st-4th weeks of Advent.
func resolveAdvent(date time.Time, year int) (Season, bool) {
	advent := CalculateAdvent(year)
	christmas := time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)

	if date.Before(advent) || !date.Before(christmas) {
		return Season{}, false
	}
	week := GetLiturgicalWeekNumber(date, advent)
	return newSeason(SeasonAdvent, week, advent, christmas.AddDate(0, 0, -1)), true
}

// resolveChristmas handles Christmas Day through the Baptism of the Lord,
// which crosses the calendar year boundary.
func resolveChristmas(date time.Time, year int) (Season, bool) {
	christmasYear := year
	if date.Month() == time.January {
		christmasYear = year - 1
	}
	christmas := time.Date(christmasYear, time.December, 25, 0, 0, 0, 0, time.UTC)
	baptism := CalculateBaptismOfTheLord(christmasYear + 1)

	if date.Before(christmas) || date.After(baptism) {
		return Season{}, false
	}
	week := GetLiturgicalWeekNumber(date, christmas)
	return newSeason(SeasonChristmas, week, christmas, baptism), true
}

// resolveOrdinaryBeforeLent handles Ordinary Time between the Baptism of
// the Lord and Ash Wednesday. The Monday after the Baptism opens week 1.
func resolveOrdinaryBeforeLent(date time.Time, year int) (Season, bool) {
	baptism := CalculateBaptismOfTheLord(year)
	ashWednesday := CalculateAshWednesday(year)

	if !date.After(baptism) || !date.Before(ashWednesday) {
		return Season{}, false
	}
	week := DaysBetween(baptism, date)/7 + 1
	return newSeason(SeasonOrdinary, week, baptism.AddDate(0, 0, 1), ashWednesday.AddDate(0, 0, -1)), true
}

// resolveLent handles Ash Wednesday through Holy Saturday. Weeks are counted
// from the first Sunday of Lent; the four days before it are week 0.
func resolveLent(date time.Time, year int) (Season, bool) {
	ashWednesday := CalculateAshWednesday(year)
	easter := CalculateEaster(year)

	if date.Before(ashWednesday) || !date.Before(easter) {
		return Season{}, false
	}

	firstSunday := NextSunday(ashWednesday)
	week := 0
	if !date.Before(firstSunday) {
		week = GetLiturgicalWeekNumber(date, firstSunday)
	}
	return newSeason(SeasonLent, week, ashWednesday, easter.AddDate(0, 0, -1)), true
}

// resolveEaster handles the 1st-7th weeks of Easter, up to the eve of Pentecost.
func resolveEaster(date time.Time, year int) (Season, bool) {
	easter := CalculateEaster(year)
	pentecost := CalculatePentecost(year)

	if date.Before(easter) || !date.Before(pentecost) {
		return Season{}, false
	}
	week := GetLiturgicalWeekNumber(date, easter)
	return newSeason(SeasonEaster, week, easter, pentecost.AddDate(0, 0, -1)), true
}

// resolvePentecost handles Pentecost Sunday itself.
func resolvePentecost(date time.Time, year int) (Season, bool) {
	pentecost := CalculatePentecost(year)
	if !date.Equal(pentecost) {
		return Season{}, false
	}
	return newSeason(SeasonPentecost, 0, pentecost, pentecost), true
}

// resolveOrdinaryAfterPentecost handles Ordinary Time from the Monday after
// Pentecost to the eve of Advent. Weeks count backward from the 34th week,
// which opens on the solemnity of Christ the King.
func resolveOrdinaryAfterPentecost(date time.Time, year int) (Season, bool) {
	pentecost := CalculatePentecost(year)
	advent := CalculateAdvent(year)

	if !date.After(pentecost) || !date.Before(advent) {
		return Season{}, false
	}
	daysBefore := DaysBetween(date, advent)
	week := 34 - (daysBefore-1)/7
	return newSeason(SeasonOrdinary, week, pentecost.AddDate(0, 0, 1), advent.AddDate(0, 0, -1)), true
}

// IsOctave reports whether date falls within the octave of Christmas
// (December 25 - January 1) or of Easter (Easter Sunday - Divine Mercy Sunday).
func IsOctave(date time.Time) bool {
	date = DateOnly(date)
	year := date.Year()

	if date.Month() == time.December && date.Day() >= 25 {
		return true
	}
	if date.Month() == time.January && date.Day() == 1 {
		return true
	}

	easter := CalculateEaster(year)
	return !date.Before(easter) && !date.After(easter.AddDate(0, 0, 7))
}
