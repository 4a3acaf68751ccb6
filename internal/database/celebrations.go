package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
	"github.com/zapponejosh/liturgy-api/internal/celebration"
)

var celebrationColumns = []string{
	"id", "name", "date", "rank", "color", "dominican", "description",
	"biography", "patronage", "prayers", "created_by", "created_at", "updated_at",
}

// UpsertCelebration validates and stores a record, replacing any record with
// the same id.
func (db *DB) UpsertCelebration(ctx context.Context, rec *CelebrationRecord) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		return tx.UpsertCelebration(ctx, rec)
	})
}

// UpsertCelebration stores a record within the transaction.
func (tx *Tx) UpsertCelebration(ctx context.Context, rec *CelebrationRecord) error {
	if err := rec.Normalize(); err != nil {
		return err
	}

	prayers := rec.Prayers
	if prayers == nil {
		prayers = []string{}
	}
	prayersJSON, err := json.Marshal(prayers)
	if err != nil {
		return fmt.Errorf("encode prayers: %w", err)
	}

	query, args, err := builder().
		Insert("celebration_records").
		Columns("id", "name", "date", "rank", "color", "dominican", "description",
			"biography", "patronage", "prayers", "created_by").
		Values(rec.ID, rec.Name, rec.Date, rec.Rank.Order(), string(rec.Color),
			boolInt(rec.IsDominican), nullString(rec.Description), nullString(rec.Biography),
			nullString(rec.Patronage), string(prayersJSON), rec.CreatedBy).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			date = excluded.date,
			rank = excluded.rank,
			color = excluded.color,
			dominican = excluded.dominican,
			description = excluded.description,
			biography = excluded.biography,
			patronage = excluded.patronage,
			prayers = excluded.prayers,
			updated_at = datetime('now')`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert celebration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert celebration %s: %w", rec.ID, err)
	}
	return nil
}

// GetCelebration fetches one record.
func (db *DB) GetCelebration(ctx context.Context, id string) (*CelebrationRecord, error) {
	query, args, err := builder().
		Select(celebrationColumns...).
		From("celebration_records").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select celebration: %w", err)
	}

	rec, err := scanCelebration(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get celebration %s: %w", id, err)
	}
	return rec, nil
}

// ListCelebrations returns every record ordered by date then id.
func (db *DB) ListCelebrations(ctx context.Context) ([]CelebrationRecord, error) {
	query, args, err := builder().
		Select(celebrationColumns...).
		From("celebration_records").
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list celebrations: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list celebrations: %w", err)
	}
	defer rows.Close()

	records := []CelebrationRecord{}
	for rows.Next() {
		rec, err := scanCelebration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan celebration: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// DeleteCelebration removes a record.
func (db *DB) DeleteCelebration(ctx context.Context, id string) error {
	query, args, err := builder().
		Delete("celebration_records").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete celebration: %w", err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete celebration %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RegistryRecords returns all records in the shape the celebration registry
// consumes.
func (db *DB) RegistryRecords(ctx context.Context) ([]celebration.Celebration, error) {
	records, err := db.ListCelebrations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]celebration.Celebration, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Celebration())
	}
	return out, nil
}

func scanCelebration(row rowScanner) (*CelebrationRecord, error) {
	var (
		rec                             CelebrationRecord
		rank, dominican                 int
		color, prayers                  string
		description, biography, patrons sql.NullString
		createdBy                       sql.NullString
		createdAt, updatedAt            string
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Date, &rank, &color, &dominican,
		&description, &biography, &patrons, &prayers, &createdBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec.Rank = celebration.Rank(rank)
	rec.Color = calendar.Color(color)
	rec.IsDominican = dominican == 1
	rec.Description = description.String
	rec.Biography = biography.String
	rec.Patronage = patrons.String
	if createdBy.Valid {
		rec.CreatedBy = &createdBy.String
	}
	if err := json.Unmarshal([]byte(prayers), &rec.Prayers); err != nil {
		return nil, fmt.Errorf("decode prayers of %s: %w", rec.ID, err)
	}
	if len(rec.Prayers) == 0 {
		rec.Prayers = nil
	}
	rec.CreatedAt = mustTimestamp(createdAt)
	rec.UpdatedAt = mustTimestamp(updatedAt)
	return &rec, nil
}
