// Package ics exports resolved liturgical calendars as iCalendar feeds.
package ics

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/microcosm-cc/bluemonday"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
	"github.com/zapponejosh/liturgy-api/internal/celebration"
)

// plainText strips the display markup kept in celebration descriptions.
var plainText = bluemonday.StrictPolicy()

const (
	productID = "-//liturgy-api//Liturgical Calendar//EN"
	uidDomain = "liturgy-api"
)

// Options select which celebrations become events.
type Options struct {
	// MinRank is the lowest precedence exported; RankMemorial exports
	// solemnities, feasts and memorials. Zero means RankOptionalMemorial.
	MinRank celebration.Rank

	// IncludeFerials exports synthesised ferial days as well.
	IncludeFerials bool

	// DominicanOnly limits the export to the Dominican proper.
	DominicanOnly bool

	// Name is the calendar's display name.
	Name string
}

func (o Options) minRank() celebration.Rank {
	if o.MinRank == 0 {
		return celebration.RankOptionalMemorial
	}
	return o.MinRank
}

// Source yields the celebrations of a date.
type Source interface {
	CelebrationsForDate(date time.Time) []celebration.Celebration
}

// Exporter turns a date range into a calendar.
type Exporter struct {
	source Source
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter creates an exporter. A nil logger uses the default.
func NewExporter(source Source, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Build creates the calendar for every date from start through end.
// Each exported celebration becomes one all-day VEVENT.
func (e *Exporter) Build(start, end time.Time, opts Options) (*ical.Calendar, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	name := opts.Name
	if name == "" {
		name = "Liturgical Calendar"
	}
	cal.SetName(name)
	cal.SetXWRCalName(name)

	stamp := e.now().UTC()
	count := 0
	for _, day := range calendar.Days(start, end) {
		for _, c := range e.source.CelebrationsForDate(day) {
			if !include(c, opts) {
				continue
			}
			addEvent(cal, day, c, stamp)
			count++
		}
	}

	e.logger.Debug("built ics calendar",
		slog.String("start", calendar.FormatDate(start)),
		slog.String("end", calendar.FormatDate(end)),
		slog.Int("events", count),
	)
	return cal, count
}

// BuildYear creates the calendar of a whole calendar year.
func (e *Exporter) BuildYear(year int, opts Options) (*ical.Calendar, int) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return e.Build(start, end, opts)
}

// WriteYear serialises the calendar of year to w and returns the number of
// events written.
func (e *Exporter) WriteYear(w io.Writer, year int, opts Options) (int, error) {
	cal, count := e.BuildYear(year, opts)
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return 0, fmt.Errorf("write ics: %w", err)
	}
	return count, nil
}

func include(c celebration.Celebration, opts Options) bool {
	if c.Rank == celebration.RankFerial {
		return opts.IncludeFerials
	}
	if opts.DominicanOnly && !c.IsDominican {
		return false
	}
	return c.Rank.Order() <= opts.minRank().Order()
}

// EventUID is stable across exports so subscribers update in place.
func EventUID(day time.Time, c celebration.Celebration) string {
	return fmt.Sprintf("%s-%s@%s", calendar.FormatDate(day), c.ID, uidDomain)
}

func addEvent(cal *ical.Calendar, day time.Time, c celebration.Celebration, stamp time.Time) {
	ev := cal.AddEvent(EventUID(day, c))
	ev.SetDtStampTime(stamp)
	ev.SetAllDayStartAt(day)
	ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	ev.SetSummary(c.Name)
	ev.SetDescription(describe(c))
	ev.SetProperty(ical.ComponentPropertyCategories, categories(c))
	ev.SetProperty(ical.ComponentProperty("COLOR"), string(c.Color))
	ev.SetProperty(ical.ComponentProperty("TRANSP"), "TRANSPARENT")
}

func describe(c celebration.Celebration) string {
	parts := []string{strings.ReplaceAll(c.Rank.String(), "_", " ")}
	if c.Description != "" {
		parts = append(parts, stripTags(c.Description))
	}
	if c.Patronage != "" {
		parts = append(parts, "Patron of "+c.Patronage)
	}
	return strings.Join(parts, "\n")
}

func categories(c celebration.Celebration) string {
	cats := []string{strings.ToUpper(c.Rank.String())}
	if c.IsDominican {
		cats = append(cats, "DOMINICAN")
	}
	return strings.Join(cats, ",")
}

func stripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}
