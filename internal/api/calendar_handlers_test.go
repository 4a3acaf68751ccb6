package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
	"github.com/zapponejosh/liturgy-api/internal/celebration"
)

func TestGetDate(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/calendar/date/2024-05-26", nil, "")
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Success bool     `json:"success"`
		Data    DateView `json:"data"`
	}
	parseResponse(t, rr, &resp)

	view := resp.Data
	if view.Principal.ID != "trinity-sunday" {
		t.Errorf("Principal = %q, want trinity-sunday", view.Principal.ID)
	}
	if len(view.Celebrations) != 1 {
		t.Errorf("Celebrations = %d, want 1 (saints yield to Sunday)", len(view.Celebrations))
	}
	if view.Weekday != "Sunday" {
		t.Errorf("Weekday = %q", view.Weekday)
	}
	if view.Season.Name != calendar.SeasonOrdinary {
		t.Errorf("Season = %q, want Ordinary Time", view.Season.Name)
	}
	if view.MarianAntiphon != calendar.SalveRegina {
		t.Errorf("MarianAntiphon = %q, want salve-regina", view.MarianAntiphon)
	}
	if view.SundayCycle != calendar.CycleB || view.WeekdayCycle != calendar.CycleII {
		t.Errorf("cycles = %s/%s, want B/II", view.SundayCycle, view.WeekdayCycle)
	}
}

func TestGetDate_Invalid(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	for _, date := range []string{"2024-13-01", "26-05-2024", "yesterday"} {
		rr := env.do("GET", "/api/v1/calendar/date/"+date, nil, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("date %q: Status = %d, want 400", date, rr.Code)
		}
	}
}

func TestGetToday(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/calendar/today", nil, "")
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Data struct {
			Date  string   `json:"date"`
			Value DateView `json:"value"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)

	want := calendar.FormatDate(time.Now().UTC())
	if resp.Data.Date != want || resp.Data.Value.Date != want {
		t.Errorf("today = %s/%s, want %s", resp.Data.Date, resp.Data.Value.Date, want)
	}
	if len(resp.Data.Value.Celebrations) == 0 {
		t.Error("today has no celebrations")
	}
}

func TestGetRange(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/calendar/range?start=2024-12-24&end=2024-12-26", nil, "")
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Data struct {
			Count int                       `json:"count"`
			Days  []celebration.CalendarDay `json:"days"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)
	if resp.Data.Count != 3 || len(resp.Data.Days) != 3 {
		t.Fatalf("days = %d, want 3", len(resp.Data.Days))
	}
	if resp.Data.Days[1].Celebrations[0].ID != "christmas" {
		t.Errorf("Dec 25 principal = %q, want christmas", resp.Data.Days[1].Celebrations[0].ID)
	}
}

func TestGetRange_Invalid(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	tests := []struct {
		name  string
		query string
	}{
		{"missing end", "start=2024-01-01"},
		{"bad start", "start=2024-1-1x&end=2024-01-02"},
		{"reversed", "start=2024-02-01&end=2024-01-01"},
		{"too long", "start=2024-01-01&end=2024-06-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do("GET", "/api/v1/calendar/range?"+tt.query, nil, "")
			expectStatus(t, rr, http.StatusBadRequest)
		})
	}
}

func TestGetMonthAndYear(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	var month struct {
		Data struct {
			Days []celebration.CalendarDay `json:"days"`
		} `json:"data"`
	}
	rr := env.do("GET", "/api/v1/calendar/month/2024/2", nil, "")
	expectStatus(t, rr, http.StatusOK)
	parseResponse(t, rr, &month)
	if len(month.Data.Days) != 29 {
		t.Errorf("February 2024 = %d days, want 29", len(month.Data.Days))
	}

	expectStatus(t, env.do("GET", "/api/v1/calendar/month/2024/13", nil, ""), http.StatusBadRequest)

	var year struct {
		Data struct {
			Days []celebration.CalendarDay `json:"days"`
		} `json:"data"`
	}
	rr = env.do("GET", "/api/v1/calendar/year/2023", nil, "")
	expectStatus(t, rr, http.StatusOK)
	parseResponse(t, rr, &year)
	if len(year.Data.Days) != 365 {
		t.Errorf("2023 = %d days, want 365", len(year.Data.Days))
	}

	expectStatus(t, env.do("GET", "/api/v1/calendar/year/abc", nil, ""), http.StatusBadRequest)
}

func TestGetFeasts(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/calendar/feasts/2024", nil, "")
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Data calendar.KeyDates `json:"data"`
	}
	parseResponse(t, rr, &resp)
	if got := calendar.FormatDate(resp.Data.Easter); got != "2024-03-31" {
		t.Errorf("Easter = %s, want 2024-03-31", got)
	}
	if got := calendar.FormatDate(resp.Data.CorpusChristi); got != "2024-06-02" {
		t.Errorf("CorpusChristi = %s, want 2024-06-02 (Sunday policy)", got)
	}
}

func TestGetCelebration(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/calendar/celebrations/christmas", nil, "")
	expectStatus(t, rr, http.StatusOK)

	expectStatus(t, env.do("GET", "/api/v1/calendar/celebrations/no-such-saint", nil, ""), http.StatusNotFound)

	// Moveable celebrations are dated in the requested year.
	rr = env.do("GET", "/api/v1/calendar/celebrations/easter-sunday?year=2025", nil, "")
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Data celebration.Celebration `json:"data"`
	}
	parseResponse(t, rr, &resp)
	if resp.Data.Date != "2025-04-20" {
		t.Errorf("Easter 2025 date = %q, want 2025-04-20", resp.Data.Date)
	}

	expectStatus(t, env.do("GET", "/api/v1/calendar/celebrations/easter-sunday?year=x", nil, ""), http.StatusBadRequest)
}

func TestExportYear(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/calendar/export/2024.ics?min_rank=solemnity", nil, "")
	expectStatus(t, rr, http.StatusOK)

	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q, want text/calendar", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Fatal("body is not an iCalendar document")
	}
	if !strings.Contains(body, "SUMMARY:Solemnity of the Most Holy Trinity") {
		t.Error("Trinity Sunday missing from export")
	}
	if strings.Contains(body, "CATEGORIES:MEMORIAL") {
		t.Error("memorials exported despite min_rank=solemnity")
	}

	expectStatus(t, env.do("GET", "/api/v1/calendar/export/2024.ics?min_rank=huge", nil, ""), http.StatusBadRequest)
}
