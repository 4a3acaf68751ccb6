package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
	"github.com/zapponejosh/liturgy-api/internal/celebration"
	"github.com/zapponejosh/liturgy-api/internal/ics"
)

// DateView is everything the calendar knows about one date.
type DateView struct {
	Date           string                    `json:"date"`
	Weekday        string                    `json:"weekday"`
	Season         calendar.Season           `json:"season"`
	SeasonClass    string                    `json:"season_class"`
	IsOctave       bool                      `json:"is_octave"`
	Principal      celebration.Celebration   `json:"principal"`
	Celebrations   []celebration.Celebration `json:"celebrations"`
	MarianAntiphon calendar.AntiphonPeriod   `json:"marian_antiphon"`
	LiturgicalYear int                       `json:"liturgical_year"`
	SundayCycle    calendar.SundayCycle      `json:"sunday_cycle"`
	WeekdayCycle   calendar.WeekdayCycle     `json:"weekday_cycle"`
}

func (h *Handlers) dateView(date time.Time) DateView {
	date = calendar.DateOnly(date)
	day := h.currentResolver().Day(date)
	return DateView{
		Date:           day.Date,
		Weekday:        calendar.DayName(date),
		Season:         day.Season,
		SeasonClass:    calendar.SeasonClass(day.Season.Name),
		IsOctave:       calendar.IsOctave(date),
		Principal:      day.Celebrations[0],
		Celebrations:   day.Celebrations,
		MarianAntiphon: calendar.MarianAntiphon(date),
		LiturgicalYear: calendar.GetLiturgicalYear(date),
		SundayCycle:    calendar.GetSundayCycle(date),
		WeekdayCycle:   calendar.GetWeekdayCycle(date),
	}
}

// GetToday handles GET /api/v1/calendar/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.today.Get())
}

// GetDate handles GET /api/v1/calendar/date/{date}
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	date, err := h.pathDate(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	WriteSuccess(w, h.dateView(date))
}

// GetRange handles GET /api/v1/calendar/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	startDate, err := calendar.ParseDateString(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return
	}

	endDate, err := calendar.ParseDateString(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return
	}

	if startDate.After(endDate) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}

	if calendar.DaysBetween(startDate, endDate) > maxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", maxRangeDays))
		return
	}

	days := h.currentResolver().Range(startDate, endDate)
	WriteSuccess(w, map[string]any{
		"start": startStr,
		"end":   endStr,
		"count": len(days),
		"days":  days,
	})
}

// GetMonth handles GET /api/v1/calendar/month/{year}/{month}
func (h *Handlers) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		WriteBadRequest(w, "Month must be between 1 and 12")
		return
	}

	WriteSuccess(w, map[string]any{
		"year":  year,
		"month": month,
		"days":  h.currentResolver().CalendarMonth(year, time.Month(month)),
	})
}

// GetYear handles GET /api/v1/calendar/year/{year}
func (h *Handlers) GetYear(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	WriteSuccess(w, map[string]any{
		"year": year,
		"days": h.currentResolver().CalendarYear(year),
	})
}

// GetFeasts handles GET /api/v1/calendar/feasts/{year}
func (h *Handlers) GetFeasts(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	WriteSuccess(w, calendar.CalculateKeyDates(year, h.cfg.Policy()))
}

// GetCelebration handles GET /api/v1/calendar/celebrations/{id}
//
// Moveable celebrations are dated in ?year=, defaulting to the current year.
func (h *Handlers) GetCelebration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	registry := h.currentResolver().Registry()

	if c, ok := registry.Lookup(id); ok {
		WriteSuccess(w, c)
		return
	}

	year := h.today.Date().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 || y > 9999 {
			WriteBadRequest(w, fmt.Sprintf("invalid year: %s", raw))
			return
		}
		year = y
	}

	for _, c := range registry.AllCelebrations(year) {
		if c.ID == id {
			WriteSuccess(w, c)
			return
		}
	}

	WriteNotFound(w, "Celebration not found")
}

// ExportYear handles GET /api/v1/calendar/export/{year}.ics
//
// Query parameters:
//
//	min_rank   lowest rank exported (default optional_memorial)
//	ferials    "true" to include ferial days
//	dominican  "true" to export only the Dominican proper
func (h *Handlers) ExportYear(w http.ResponseWriter, r *http.Request) {
	year, err := pathYear(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	q := r.URL.Query()
	opts := ics.Options{
		IncludeFerials: q.Get("ferials") == "true",
		DominicanOnly:  q.Get("dominican") == "true",
		Name:           fmt.Sprintf("Liturgical Calendar %d", year),
	}
	if raw := q.Get("min_rank"); raw != "" {
		rank, err := celebration.ParseRank(raw)
		if err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
		opts.MinRank = rank
	}

	exporter := ics.NewExporter(h.currentResolver(), h.logger)
	cal, count := exporter.BuildYear(year, opts)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="liturgy-%d.ics"`, year))
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		h.logger.Warn("failed to write ics export",
			slog.Int("year", year),
			slog.Any("error", err),
		)
		return
	}

	h.logger.Debug("ics export served",
		slog.Int("year", year),
		slog.Int("events", count),
	)
}
