// Command apitest runs a smoke test against a running Liturgy API server.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -v
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type Celebration struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Rank        string `json:"rank"`
	Color       string `json:"color"`
	IsDominican bool   `json:"is_dominican"`
}

type Season struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	WeekLabel string `json:"week_label"`
}

// DateResponse is the response for /calendar/date/{date} and /calendar/today
type DateResponse struct {
	Date           string        `json:"date"`
	Weekday        string        `json:"weekday"`
	Season         Season        `json:"season"`
	Principal      Celebration   `json:"principal"`
	Celebrations   []Celebration `json:"celebrations"`
	MarianAntiphon string        `json:"marian_antiphon"`
	SundayCycle    string        `json:"sunday_cycle"`
	WeekdayCycle   string        `json:"weekday_cycle"`
}

// TodayResponse is the cached snapshot served by /calendar/today
type TodayResponse struct {
	Date        string       `json:"date"`
	Value       DateResponse `json:"value"`
	RefreshedAt time.Time    `json:"refreshed_at"`
}

// RangeResponse is the response for /calendar/range
type RangeResponse struct {
	Start string        `json:"start"`
	End   string        `json:"end"`
	Count int           `json:"count"`
	Days  []CalendarDay `json:"days"`
}

// CalendarDay is one entry of a range, month or year view
type CalendarDay struct {
	Date         string        `json:"date"`
	Season       Season        `json:"season"`
	Celebrations []Celebration `json:"celebrations"`
}

type Section struct {
	Type        string   `json:"type"`
	ComponentID string   `json:"component_id"`
	Lines       []string `json:"lines"`
}

// ComplineResponse is the response for /hours/compline/{date}
type ComplineResponse struct {
	Office struct {
		TemplateID string `json:"template_id"`
		Info       struct {
			Title string `json:"title"`
		} `json:"info"`
		Sections []Section `json:"sections"`
	} `json:"office"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Liturgy API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	// Run test groups
	tr.testHealth()
	tr.testToday()
	tr.testSpecificDates()
	tr.testDateRange()
	tr.testEdgeCases()
	tr.testCompline()
	tr.testExport()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	var snap TodayResponse
	if err := tr.getData("/api/v1/calendar/today", &snap); err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	data := snap.Value
	if data.Date != snap.Date {
		tr.recordError("Today", fmt.Sprintf("Snapshot date %s, view date %s", snap.Date, data.Date))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Today (%s): %s / %s",
		data.Date, data.Season.WeekLabel, data.Principal.Name))
	tr.printDayDetail(&data)
}

func (tr *TestRunner) testSpecificDates() {
	tr.printSection("Specific Date Tests")

	testCases := []struct {
		date        string
		principal   string
		season      string
		description string
	}{
		{"2024-12-15", "gaudete-sunday", "Advent", "Gaudete Sunday 2024"},
		{"2024-12-25", "christmas", "Christmas", "Christmas Day 2024"},
		{"2025-01-01", "mary-mother-of-god", "Christmas", "Solemnity of Mary"},
		{"2025-03-05", "ash-wednesday", "Lent", "Ash Wednesday 2025"},
		{"2025-04-13", "palm-sunday", "Lent", "Palm Sunday 2025"},
		{"2025-04-20", "easter-sunday", "Easter", "Easter Sunday 2025"},
		{"2025-06-08", "pentecost", "Pentecost", "Pentecost Sunday 2025"},
		{"2025-06-15", "trinity-sunday", "Ordinary Time", "Trinity Sunday 2025"},
		{"2025-08-08", "dominic", "Ordinary Time", "Holy Father Dominic"},
	}

	for _, tc := range testCases {
		var data DateResponse
		if err := tr.getData("/api/v1/calendar/date/"+tc.date, &data); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		switch {
		case data.Principal.ID != tc.principal:
			tr.recordError(tc.date, fmt.Sprintf("Expected principal '%s', got '%s'",
				tc.principal, data.Principal.ID))
		case data.Season.Name != tc.season:
			tr.recordError(tc.date, fmt.Sprintf("Expected season '%s', got '%s'",
				tc.season, data.Season.Name))
		default:
			tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", tc.date, data.Principal.Name, tc.description))
		}

		if tr.verbose {
			tr.printDayDetail(&data)
		}
	}
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range Tests")

	var rangeData RangeResponse
	if err := tr.getData("/api/v1/calendar/range?start=2025-12-21&end=2025-12-27", &rangeData); err != nil {
		tr.recordError("Range (week)", err.Error())
	} else if rangeData.Count == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", rangeData.Count))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d", rangeData.Count))
	}

	tr.expectStatus("Range limit (>90 days rejected)",
		"/api/v1/calendar/range?start=2025-01-01&end=2025-12-31", http.StatusBadRequest)
	tr.expectStatus("Invalid range rejected (end before start)",
		"/api/v1/calendar/range?start=2025-12-31&end=2025-01-01", http.StatusBadRequest)
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tr.expectStatus("Invalid date format rejected", "/api/v1/calendar/date/invalid", http.StatusBadRequest)
	tr.expectStatus("Impossible date rejected", "/api/v1/calendar/date/2025-02-29", http.StatusBadRequest)
	tr.expectStatus("Missing end parameter rejected", "/api/v1/calendar/range?start=2025-01-01", http.StatusBadRequest)
	tr.expectStatus("Unknown celebration is 404", "/api/v1/calendar/celebrations/no-such-feast", http.StatusNotFound)
	tr.expectStatus("Leap year date (2024-02-29) handled", "/api/v1/calendar/date/2024-02-29", http.StatusOK)
	tr.expectStatus("Far future date (2100) handled", "/api/v1/calendar/date/2100-06-15", http.StatusOK)
	tr.expectStatus("Admin routes need a key", "/api/v1/admin/users", http.StatusUnauthorized)
}

func (tr *TestRunner) testCompline() {
	tr.printSection("Compline")

	for _, lang := range []string{"en", "la"} {
		var data ComplineResponse
		path := "/api/v1/hours/compline/2025-04-20?lang=" + lang
		if err := tr.getData(path, &data); err != nil {
			tr.recordError("Compline "+lang, err.Error())
			continue
		}

		sections := data.Office.Sections
		if len(sections) == 0 {
			tr.recordError("Compline "+lang, "No sections")
			continue
		}
		last := sections[len(sections)-1].ComponentID
		if last != "marian-regina-caeli" {
			tr.recordError("Compline "+lang, fmt.Sprintf("Expected Regina Caeli at Easter, got %s", last))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("Compline %s: %s, %d sections", lang, data.Office.Info.Title, len(sections)))

		if tr.verbose {
			for _, s := range sections {
				fmt.Printf("    %-18s %s (%d lines)\n", s.Type, s.ComponentID, len(s.Lines))
			}
		}
	}
}

func (tr *TestRunner) testExport() {
	tr.printSection("iCalendar Export")

	resp, err := tr.getRaw("/api/v1/calendar/export/2025.ics")
	if err != nil {
		tr.recordError("Export", err.Error())
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode != http.StatusOK:
		tr.recordError("Export", fmt.Sprintf("HTTP %d", resp.StatusCode))
	case !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar"):
		tr.recordError("Export", "Content-Type "+resp.Header.Get("Content-Type"))
	default:
		events := strings.Count(string(body), "BEGIN:VEVENT")
		tr.recordSuccess(fmt.Sprintf("2025 calendar exported with %d events", events))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) expectStatus(name, path string, want int) {
	resp, err := tr.getRaw(path)
	if err != nil {
		tr.recordError(name, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode == want {
		tr.recordSuccess(name)
	} else {
		tr.recordError(name, fmt.Sprintf("Expected HTTP %d, got %d", want, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) printDayDetail(d *DateResponse) {
	if d == nil {
		return
	}
	fmt.Printf("    Season: %s (%s)\n", d.Season.WeekLabel, d.Season.Color)
	fmt.Printf("    Cycles: Sunday %s, weekday %s\n", d.SundayCycle, d.WeekdayCycle)
	fmt.Printf("    Marian antiphon: %s\n", d.MarianAntiphon)
	for _, c := range d.Celebrations {
		fmt.Printf("      - %s [%s, %s]\n", c.Name, c.Rank, c.Color)
	}
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show celebration details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
