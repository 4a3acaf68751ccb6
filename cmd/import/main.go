// Command import loads local celebrations from a catalog file into the
// SQLite database.
//
// Usage:
//
//	go run ./cmd/import -file data/local-celebrations.yaml -db data/liturgy.db
//
// The file uses the bundled catalog format:
//
//	name: Priory of St Dominic
//	celebrations:
//	  - id: dedication-priory-church
//	    name: Dedication of the Priory Church
//	    date: "10-09"
//	    rank: feast
//	    color: white
//	    dominican: true
//
// This tool:
// 1. Parses the catalog (JSON files parse too, as JSON is valid YAML)
// 2. Creates/opens the SQLite database and runs migrations
// 3. Validates every celebration and upserts them in a single transaction
//
// Records are keyed by id, so running the import twice updates in place.
// Pass -dry-run to validate without writing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/liturgy-api/internal/celebration"
	"github.com/zapponejosh/liturgy-api/internal/database"
)

func main() {
	// Parse command line flags
	filePath := flag.String("file", "data/local-celebrations.yaml", "Path to celebration catalog (YAML or JSON)")
	dbPath := flag.String("db", "data/liturgy.db", "Path to SQLite database")
	dryRun := flag.Bool("dry-run", false, "Validate the file without writing")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Run import
	if err := run(*filePath, *dbPath, *dryRun, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(filePath, dbPath string, dryRun bool, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and validate the catalog
	// =========================================================================
	logger.Info("reading catalog", slog.String("path", filePath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	records, err := parseCatalog(data)
	if err != nil {
		return err
	}

	logger.Info("parsed catalog", slog.Int("celebrations", len(records)))

	if dryRun {
		fmt.Printf("Validated %d celebrations; nothing written.\n", len(records))
		return nil
	}

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Upsert in a transaction
	// =========================================================================
	var stats ImportStats
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return importRecords(ctx, tx, records, logger, &stats)
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	stored, err := db.ListCelebrations(ctx)
	if err != nil {
		return fmt.Errorf("list celebrations: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("import verified",
		slog.Int("stored", len(stored)),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Celebrations imported: %d\n", stats.Imported)
	fmt.Printf("  Fixed (MM-DD):       %d\n", stats.Fixed)
	fmt.Printf("  Dated (YYYY-MM-DD):  %d\n", stats.Dated)
	fmt.Printf("  Dominican:           %d\n", stats.Dominican)
	fmt.Printf("Stored in database:    %d\n", len(stored))
	fmt.Printf("Time elapsed:          %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Imported  int
	Fixed     int
	Dated     int
	Dominican int
}

// parseCatalog decodes a catalog and validates every entry, reporting the
// first invalid one by position.
func parseCatalog(data []byte) ([]database.CelebrationRecord, error) {
	var catalog celebration.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(catalog.Celebrations) == 0 {
		return nil, fmt.Errorf("catalog has no celebrations")
	}

	records := make([]database.CelebrationRecord, 0, len(catalog.Celebrations))
	seen := make(map[string]bool, len(catalog.Celebrations))
	for i, c := range catalog.Celebrations {
		rec := database.RecordFromCelebration(c)
		if err := rec.Normalize(); err != nil {
			return nil, fmt.Errorf("celebration %d (%s): %w", i+1, c.ID, err)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("celebration %d: duplicate id %q", i+1, rec.ID)
		}
		seen[rec.ID] = true
		records = append(records, rec)
	}
	return records, nil
}

// importRecords upserts every record.
func importRecords(ctx context.Context, tx *database.Tx, records []database.CelebrationRecord, logger *slog.Logger, stats *ImportStats) error {
	for i := range records {
		rec := &records[i]
		if err := tx.UpsertCelebration(ctx, rec); err != nil {
			return fmt.Errorf("upsert %s: %w", rec.ID, err)
		}

		stats.Imported++
		if len(rec.Date) == len("01-02") {
			stats.Fixed++
		} else {
			stats.Dated++
		}
		if rec.IsDominican {
			stats.Dominican++
		}

		logger.Debug("imported celebration",
			slog.String("id", rec.ID),
			slog.String("date", rec.Date),
			slog.String("rank", rec.Rank.String()),
		)
	}

	return nil
}
