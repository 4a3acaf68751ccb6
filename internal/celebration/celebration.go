// Package celebration holds the catalogs of liturgical celebrations and
// resolves which of them apply on a given date.
package celebration

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

// Rank is the precedence class of a celebration. Lower values take precedence.
type Rank int

const (
	RankSolemnity Rank = iota + 1
	RankFeast
	RankMemorial
	RankOptionalMemorial
	RankFerial
)

var rankNames = map[Rank]string{
	RankSolemnity:        "solemnity",
	RankFeast:            "feast",
	RankMemorial:         "memorial",
	RankOptionalMemorial: "optional_memorial",
	RankFerial:           "ferial",
}

// Order returns the precedence value, 1 (Solemnity) through 5 (Ferial).
func (r Rank) Order() int {
	return int(r)
}

// IsValid checks if a rank is one of the five precedence classes.
func (r Rank) IsValid() bool {
	_, ok := rankNames[r]
	return ok
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "rank(" + strconv.Itoa(int(r)) + ")"
}

// ParseRank converts the text form of a rank. Spaces and hyphens are accepted
// in place of underscores ("optional memorial").
func ParseRank(s string) (Rank, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for r, name := range rankNames {
		if name == norm {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rank) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Celebration is one liturgical commemoration. Date holds either a fixed
// MM-DD or, once materialised for a year, an ISO YYYY-MM-DD date.
type Celebration struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Rank        Rank           `json:"rank" yaml:"rank"`
	Color       calendar.Color `json:"color" yaml:"color"`
	Date        string         `json:"date" yaml:"date"`
	IsDominican bool           `json:"is_dominican" yaml:"dominican"`

	// Display content; never consulted during resolution.
	Description string   `json:"description,omitempty" yaml:"description"`
	Biography   string   `json:"biography,omitempty" yaml:"biography"`
	Patronage   string   `json:"patronage,omitempty" yaml:"patronage"`
	Prayers     []string `json:"prayers,omitempty" yaml:"prayers"`
	BirthYear   *int     `json:"birth_year,omitempty" yaml:"birth_year"`
	DeathYear   *int     `json:"death_year,omitempty" yaml:"death_year"`
}

// CalendarDay is one day of a month or year view.
type CalendarDay struct {
	Date         string          `json:"date"`
	Celebrations []Celebration   `json:"celebrations"`
	Season       calendar.Season `json:"season"`
	Week         int             `json:"week"`
}

// ParseCelebrationDate parses a stored celebration date. It accepts an ISO
// YYYY-MM-DD date or a fixed MM-DD (also M-D), which is placed in year.
// The second result is false for anything else, including February 29 in a
// common year.
func ParseCelebrationDate(s string, year int) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}

	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeMonthDay reduces any accepted celebration date to MM-DD.
func NormalizeMonthDay(s string) (string, bool) {
	// 2000 is a leap year, so 02-29 survives normalisation.
	t, ok := ParseCelebrationDate(s, 2000)
	if !ok {
		return "", false
	}
	return calendar.FormatMonthDay(t), true
}

// isFixed reports whether s is a fixed MM-DD date rather than an ISO date.
func isFixed(s string) bool {
	return len(strings.Split(strings.TrimSpace(s), "-")) == 2
}
