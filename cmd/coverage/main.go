// Command coverage walks every day of a span of years through the calendar
// and the Compline assembly and reports days that come out wrong: no
// celebration, a saint displacing a Sunday, an office with missing parts.
//
// Usage:
//
//	go run ./cmd/coverage -start 2024 -years 4
//	go run ./cmd/coverage -start 2024 -years 30 -o coverage.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
	"github.com/zapponejosh/liturgy-api/internal/celebration"
	"github.com/zapponejosh/liturgy-api/internal/liturgy"
	"github.com/zapponejosh/liturgy-api/internal/logger"
)

// TestResult holds the result for a single date
type TestResult struct {
	Date         string `json:"date"`
	Success      bool   `json:"success"`
	Season       string `json:"season"`
	WeekLabel    string `json:"week_label"`
	Principal    string `json:"principal"`
	Celebrations int    `json:"celebrations"`
	Sections     int    `json:"sections"`
	Error        string `json:"error,omitempty"`
}

// SeasonStats tracks statistics for each season
type SeasonStats struct {
	Season      string   `json:"season"`
	TotalDays   int      `json:"total_days"`
	SuccessDays int      `json:"success_days"`
	FailedDays  int      `json:"failed_days"`
	FailedDates []string `json:"failed_dates,omitempty"`
}

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays    int
	TotalSuccess int
	TotalFailed  int
	BySeason     map[string]*SeasonStats
	ByYear       map[int]*YearStats
	AllFailures  []TestResult
}

type YearStats struct {
	Year        int
	TotalDays   int
	SuccessDays int
	FailedDays  int
}

// checker runs every check for one day.
type checker struct {
	resolver *celebration.Resolver
	hours    *liturgy.Service
	prefs    liturgy.Preferences
}

func main() {
	startYear := flag.Int("start", 2024, "Start year")
	years := flag.Int("years", 4, "Number of years to test")
	policyFlag := flag.String("policy", "sunday", "Corpus Christi policy (sunday or thursday)")
	lang := flag.String("lang", liturgy.DefaultLanguage, "Language the offices are rendered in")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Liturgy Calendar - Full Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	c, err := newChecker(*policyFlag, *lang)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if missing := c.hours.Library().MissingComponents(); len(missing) > 0 {
		fmt.Println("Templates reference components the library lacks:")
		for _, id := range missing {
			fmt.Printf("  - %s\n", id)
		}
		fmt.Println()
	}

	// Test all dates
	results := c.checkAllDates(*startYear, endYear, *verbose)

	// Analyze results
	analysis := analyzeResults(results)

	printSummary(analysis, *startYear, endYear)
	printFailuresBySeason(analysis)

	// Output to file if requested
	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	// Exit with error code if there were failures
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

func newChecker(policyFlag, lang string) (*checker, error) {
	policy, err := calendar.ParseCorpusChristiPolicy(policyFlag)
	if err != nil {
		return nil, err
	}

	prefs, err := liturgy.Preferences{PrimaryLanguage: lang}.Normalize()
	if err != nil {
		return nil, err
	}

	registry, err := celebration.NewBundledRegistry(
		celebration.WithPolicy(policy),
		celebration.WithLogger(logger.Discard()),
	)
	if err != nil {
		return nil, fmt.Errorf("load celebrations: %w", err)
	}

	library, err := liturgy.BundledLibrary()
	if err != nil {
		return nil, fmt.Errorf("load liturgy library: %w", err)
	}

	return &checker{
		resolver: celebration.NewResolver(registry, logger.Discard()),
		hours:    liturgy.NewService(library, logger.Discard()),
		prefs:    prefs,
	}, nil
}

func (c *checker) checkAllDates(startYear, endYear int, verbose bool) []TestResult {
	start := time.Date(startYear, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, 12, 31, 0, 0, 0, 0, time.UTC)
	days := calendar.Days(start, end)

	fmt.Printf("Testing %d days...\n\n", len(days))

	results := make([]TestResult, 0, len(days))
	failed := 0
	lastProgress := -1

	for i, day := range days {
		result := c.checkDate(day)
		results = append(results, result)
		if !result.Success {
			failed++
		}

		// Show progress
		progress := ((i + 1) * 100) / len(days)
		if progress != lastProgress && progress%10 == 0 {
			fmt.Printf("  Progress: %d%% (%d/%d) - Failures: %d\n", progress, i+1, len(days), failed)
			lastProgress = progress
		}

		if verbose {
			status := "✓"
			if !result.Success {
				status = "✗"
			}
			fmt.Printf("  %s %s: %s / %s [%d sections]\n",
				status, result.Date, result.WeekLabel, result.Principal, result.Sections)
			if !result.Success {
				fmt.Printf("      Error: %s\n", result.Error)
			}
		}
	}

	fmt.Println()
	return results
}

func (c *checker) checkDate(day time.Time) TestResult {
	result := TestResult{Date: calendar.FormatDate(day)}

	season := calendar.ResolveSeason(day)
	result.Season = string(season.Name)
	result.WeekLabel = season.WeekLabel

	list := c.resolver.CelebrationsForDate(day)
	result.Celebrations = len(list)
	if len(list) == 0 {
		result.Error = "No celebrations resolved"
		return result
	}
	principal := list[0]
	result.Principal = principal.Name

	for i := 1; i < len(list); i++ {
		if list[i].Rank.Order() < list[i-1].Rank.Order() {
			result.Error = fmt.Sprintf("Out of order: %s before %s", list[i-1].ID, list[i].ID)
			return result
		}
	}

	if day.Weekday() == time.Sunday {
		for _, saint := range c.resolver.Registry().SaintsForDate(day) {
			result.Error = fmt.Sprintf("Saint %s on a Sunday", saint.ID)
			return result
		}
	}

	if principal.Rank == celebration.RankFerial && principal.Color != season.Color {
		result.Error = fmt.Sprintf("Ferial color %s, season color %s", principal.Color, season.Color)
		return result
	}

	office, ok := c.hours.AssembleCompline(day, c.prefs)
	if !ok {
		result.Error = "No Compline template"
		return result
	}
	result.Sections = len(office.Sections)

	antiphon := liturgy.MarianAntiphonComponentID(office.MarianAntiphon)
	if len(office.Sections) == 0 || office.Sections[len(office.Sections)-1].ComponentID != antiphon {
		result.Error = fmt.Sprintf("Office does not close with %s", antiphon)
		return result
	}
	for _, s := range office.Sections {
		if len(s.Lines) == 0 {
			result.Error = fmt.Sprintf("Section %s has no text in %s", s.ComponentID, c.prefs.PrimaryLanguage)
			return result
		}
	}

	result.Success = true
	return result
}

func analyzeResults(results []TestResult) *Analysis {
	analysis := &Analysis{
		BySeason: make(map[string]*SeasonStats),
		ByYear:   make(map[int]*YearStats),
	}

	for _, r := range results {
		analysis.TotalDays++

		date, _ := time.Parse("2006-01-02", r.Date)
		year := date.Year()

		if _, ok := analysis.ByYear[year]; !ok {
			analysis.ByYear[year] = &YearStats{Year: year}
		}
		analysis.ByYear[year].TotalDays++

		season := r.Season
		if season == "" {
			season = "(resolution failed)"
		}
		if _, ok := analysis.BySeason[season]; !ok {
			analysis.BySeason[season] = &SeasonStats{Season: season}
		}
		analysis.BySeason[season].TotalDays++

		if r.Success {
			analysis.TotalSuccess++
			analysis.ByYear[year].SuccessDays++
			analysis.BySeason[season].SuccessDays++
		} else {
			analysis.TotalFailed++
			analysis.ByYear[year].FailedDays++
			analysis.BySeason[season].FailedDays++
			analysis.BySeason[season].FailedDates = append(analysis.BySeason[season].FailedDates, r.Date)
			analysis.AllFailures = append(analysis.AllFailures, r)
		}
	}

	return analysis
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days Tested: %d\n", analysis.TotalDays)
	if analysis.TotalDays == 0 {
		return
	}
	fmt.Printf("Successful:        %d (%.1f%%)\n", analysis.TotalSuccess,
		float64(analysis.TotalSuccess)/float64(analysis.TotalDays)*100)
	fmt.Printf("Failed:            %d (%.1f%%)\n", analysis.TotalFailed,
		float64(analysis.TotalFailed)/float64(analysis.TotalDays)*100)
	fmt.Println()

	fmt.Println("By Year:")
	for year := startYear; year <= endYear; year++ {
		if stats, ok := analysis.ByYear[year]; ok {
			status := "✓"
			if stats.FailedDays > 0 {
				status = "✗"
			}
			fmt.Printf("  %s %d: %d/%d days (%.1f%% success)\n",
				status, year, stats.SuccessDays, stats.TotalDays,
				float64(stats.SuccessDays)/float64(stats.TotalDays)*100)
		}
	}
	fmt.Println()
}

func printFailuresBySeason(analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Println("No failures.")
		return
	}

	fmt.Println("================================================================")
	fmt.Println("FAILURES BY SEASON")
	fmt.Println("================================================================")

	var seasons []*SeasonStats
	for _, stats := range analysis.BySeason {
		if stats.FailedDays > 0 {
			seasons = append(seasons, stats)
		}
	}
	sort.Slice(seasons, func(i, j int) bool {
		return seasons[i].FailedDays > seasons[j].FailedDays
	})

	errorsByDate := make(map[string]string, len(analysis.AllFailures))
	for _, f := range analysis.AllFailures {
		errorsByDate[f.Date] = f.Error
	}

	for _, stats := range seasons {
		fmt.Printf("\n%s: %d failures\n", stats.Season, stats.FailedDays)
		// Show up to 5 example dates
		for i, date := range stats.FailedDates {
			if i == 5 {
				fmt.Printf("  ... and %d more\n", len(stats.FailedDates)-5)
				break
			}
			fmt.Printf("  - %s: %s\n", date, errorsByDate[date])
		}
	}
	fmt.Println()
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string                  `json:"generated_at"`
		Summary     map[string]any          `json:"summary"`
		BySeason    map[string]*SeasonStats `json:"by_season"`
		Failures    []TestResult            `json:"failures"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"total_days":    analysis.TotalDays,
			"total_success": analysis.TotalSuccess,
			"total_failed":  analysis.TotalFailed,
		},
		BySeason: analysis.BySeason,
		Failures: analysis.AllFailures,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
