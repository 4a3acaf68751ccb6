// Command dategen prints the liturgical calendar of a year: the movable
// dates, how many days each season covers, and one CSV row per day with the
// season, week and principal celebration.
//
// Usage:
//
//	go run ./cmd/dategen -year 2025
//	go run ./cmd/dategen -year 2025 -policy thursday -summary
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
	"github.com/zapponejosh/liturgy-api/internal/celebration"
	"github.com/zapponejosh/liturgy-api/internal/logger"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "Year to generate dates for")
	policyFlag := flag.String("policy", "sunday", "Corpus Christi policy (sunday or thursday)")
	summaryOnly := flag.Bool("summary", false, "Print key dates and season counts only")
	flag.Parse()

	policy, err := calendar.ParseCorpusChristiPolicy(*policyFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	registry, err := celebration.NewBundledRegistry(
		celebration.WithPolicy(policy),
		celebration.WithLogger(logger.Discard()),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load celebrations: %v\n", err)
		os.Exit(1)
	}
	resolver := celebration.NewResolver(registry, logger.Discard())

	fmt.Printf("=== Liturgical Calendar for %d ===\n\n", *year)

	printKeyDates(calendar.CalculateKeyDates(*year, policy))

	days := resolver.CalendarYear(*year)
	printSeasonCounts(days)

	if *summaryOnly {
		return
	}

	fmt.Println("=== All Dates ===")
	fmt.Println("Date,Weekday,Season,Week,Celebration,Rank,Color,Sunday Cycle,Weekday Cycle")
	for _, d := range days {
		date, err := calendar.ParseDateString(d.Date)
		if err != nil {
			continue
		}
		principal := d.Celebrations[0]
		fmt.Printf("%s,%s,%s,%q,%q,%s,%s,%s,%s\n",
			d.Date,
			calendar.DayName(date),
			d.Season.Name,
			d.Season.WeekLabel,
			principal.Name,
			principal.Rank,
			principal.Color,
			calendar.GetSundayCycle(date),
			calendar.GetWeekdayCycle(date),
		)
	}
}

func printKeyDates(kd calendar.KeyDates) {
	rows := []struct {
		label string
		date  time.Time
	}{
		{"Baptism of the Lord", kd.BaptismOfTheLord},
		{"Ash Wednesday", kd.AshWednesday},
		{"Palm Sunday", kd.PalmSunday},
		{"Easter", kd.Easter},
		{"Divine Mercy", kd.DivineMercy},
		{"Ascension", kd.Ascension},
		{"Pentecost", kd.Pentecost},
		{"Trinity Sunday", kd.TrinitySunday},
		{"Corpus Christi", kd.CorpusChristi},
		{"Sacred Heart", kd.SacredHeart},
		{"Christ the King", kd.ChristTheKing},
		{"Advent Start", kd.Advent},
		{"Holy Family", kd.HolyFamily},
	}

	fmt.Println("Key Dates:")
	for _, r := range rows {
		fmt.Printf("  %-22s %s (%s)\n", r.label+":", calendar.FormatDate(r.date), calendar.DayName(r.date))
	}
	fmt.Println()
}

func printSeasonCounts(days []celebration.CalendarDay) {
	counts := make(map[calendar.SeasonName]int)
	for _, d := range days {
		counts[d.Season.Name]++
	}

	fmt.Println("Days by season:")
	for _, s := range calendar.ValidSeasons() {
		if n, ok := counts[s]; ok {
			fmt.Printf("  %-15s %d days\n", string(s)+":", n)
		}
	}
	fmt.Printf("  %-15s %d days\n", "TOTAL:", len(days))
	fmt.Println()
}
