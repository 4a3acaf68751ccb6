package celebration

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

// SeasonSource resolves the liturgical season of a date.
type SeasonSource interface {
	Resolve(date time.Time) calendar.Season
}

// Resolver decides which celebrations apply on a date.
type Resolver struct {
	registry *Registry
	seasons  SeasonSource
	logger   *slog.Logger
}

// NewResolver creates a resolver over registry. A nil logger uses the default.
func NewResolver(registry *Registry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		registry: registry,
		seasons:  calendar.SeasonResolver{},
		logger:   logger,
	}
}

// WithSeasons returns a copy of the resolver using a different season source.
func (r *Resolver) WithSeasons(s SeasonSource) *Resolver {
	cp := *r
	cp.seasons = s
	return &cp
}

// Registry returns the registry the resolver reads from.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// CelebrationsForDate returns the celebrations kept on date, sorted by
// precedence. The result is never empty: a day without any celebration gets a
// synthesised ferial entry, and an unexpected failure yields a generic
// Ordinary Time weekday.
func (r *Resolver) CelebrationsForDate(date time.Time) (out []Celebration) {
	day := calendar.DateOnly(date)

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("celebration resolution panicked",
				slog.String("date", calendar.FormatDate(day)),
				slog.Any("panic", rec),
			)
			out = []Celebration{fallbackFerial(day)}
		}
	}()

	out = r.registry.SaintsForDate(day)

	for _, c := range r.registry.AllCelebrations(day.Year()) {
		t, ok := ParseCelebrationDate(c.Date, day.Year())
		if !ok {
			r.logger.Debug("excluding celebration with unparseable date",
				slog.String("id", c.ID),
				slog.String("date", c.Date),
			)
			continue
		}
		if t.Equal(day) {
			out = append(out, c)
		}
	}

	if len(out) == 0 {
		out = append(out, r.ferial(day))
	}

	sortByPrecedence(out)
	return out
}

// Principal returns the highest-ranked celebration of date.
func (r *Resolver) Principal(date time.Time) Celebration {
	return r.CelebrationsForDate(date)[0]
}

// CalendarMonth returns one CalendarDay per day of the month.
func (r *Resolver) CalendarMonth(year int, month time.Month) []CalendarDay {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return r.days(start, end)
}

// CalendarYear returns one CalendarDay per day of the calendar year.
func (r *Resolver) CalendarYear(year int) []CalendarDay {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return r.days(start, end)
}

// Day builds the CalendarDay for a single date.
func (r *Resolver) Day(date time.Time) CalendarDay {
	day := calendar.DateOnly(date)
	season := r.seasons.Resolve(day)
	return CalendarDay{
		Date:         calendar.FormatDate(day),
		Celebrations: r.CelebrationsForDate(day),
		Season:       season,
		Week:         season.Week,
	}
}

// days builds the view of every date in [start, end).
func (r *Resolver) days(start, end time.Time) []CalendarDay {
	dates := calendar.Days(start, end.AddDate(0, 0, -1))
	days := make([]CalendarDay, 0, len(dates))
	for _, d := range dates {
		days = append(days, r.Day(d))
	}
	return days
}

// Range returns one CalendarDay per date from start through end, inclusive.
func (r *Resolver) Range(start, end time.Time) []CalendarDay {
	return r.days(calendar.DateOnly(start), calendar.DateOnly(end).AddDate(0, 0, 1))
}

func (r *Resolver) ferial(day time.Time) Celebration {
	season := r.seasons.Resolve(day)

	kind := "Weekday"
	if day.Weekday() == time.Sunday {
		kind = "Sunday"
	}

	return Celebration{
		ID:          "ferial-" + calendar.FormatDate(day),
		Name:        fmt.Sprintf("%s %s", season.Name, kind),
		Rank:        RankFerial,
		Color:       season.Color,
		Date:        calendar.FormatDate(day),
		Description: fmt.Sprintf("%s — %s", season.WeekLabel, season.Name),
	}
}

func fallbackFerial(day time.Time) Celebration {
	return Celebration{
		ID:    "ferial-" + calendar.FormatDate(day),
		Name:  "Ordinary Time Weekday",
		Rank:  RankFerial,
		Color: calendar.ColorGreen,
		Date:  calendar.FormatDate(day),
	}
}

// sortByPrecedence orders by rank, then by MM-DD. Within that, celebrations
// of the Order come before the general calendar.
func sortByPrecedence(list []Celebration) {
	slices.SortStableFunc(list, func(a, b Celebration) int {
		if c := cmp.Compare(a.Rank.Order(), b.Rank.Order()); c != 0 {
			return c
		}
		if c := cmp.Compare(monthDayKey(a.Date), monthDayKey(b.Date)); c != 0 {
			return c
		}
		switch {
		case a.IsDominican && !b.IsDominican:
			return -1
		case !a.IsDominican && b.IsDominican:
			return 1
		}
		return 0
	})
}

func monthDayKey(s string) string {
	md, _ := NormalizeMonthDay(s)
	return md
}
