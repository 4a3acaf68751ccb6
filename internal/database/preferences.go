package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/zapponejosh/liturgy-api/internal/liturgy"
)

// GetPreferences returns a user's saved preferences. Users who never saved
// any report ErrNotFound; callers fall back to liturgy.DefaultPreferences.
func (db *DB) GetPreferences(ctx context.Context, userID string) (*StoredPreferences, error) {
	query, args, err := builder().
		Select("user_id", "primary_language", "secondary_language", "display_mode",
			"font_size", "audio_enabled", "show_rubrics", "updated_at").
		From("user_preferences").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select preferences: %w", err)
	}

	var (
		p                 StoredPreferences
		secondary         sql.NullString
		displayMode, font string
		audio, rubrics    int
		updatedAt         string
	)
	err = db.QueryRowContext(ctx, query, args...).Scan(
		&p.UserID, &p.PrimaryLanguage, &secondary, &displayMode,
		&font, &audio, &rubrics, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get preferences for %s: %w", userID, err)
	}

	p.SecondaryLanguage = secondary.String
	p.DisplayMode = liturgy.DisplayMode(displayMode)
	p.FontSize = liturgy.FontSize(font)
	p.AudioEnabled = audio == 1
	p.ShowRubrics = rubrics == 1
	p.UpdatedAt = mustTimestamp(updatedAt)
	return &p, nil
}

// PreferencesOrDefault returns the saved preferences of userID, or the
// defaults when none are stored.
func (db *DB) PreferencesOrDefault(ctx context.Context, userID string) (liturgy.Preferences, error) {
	stored, err := db.GetPreferences(ctx, userID)
	if err != nil {
		if IsNotFound(err) {
			return liturgy.DefaultPreferences(), nil
		}
		return liturgy.Preferences{}, err
	}
	return stored.Preferences, nil
}

// SavePreferences validates and stores prefs for userID, replacing any
// earlier row. It returns the normalised preferences as stored.
func (db *DB) SavePreferences(ctx context.Context, userID string, prefs liturgy.Preferences) (*StoredPreferences, error) {
	prefs, err := prefs.Normalize()
	if err != nil {
		return nil, err
	}

	query, args, err := builder().
		Insert("user_preferences").
		Columns("user_id", "primary_language", "secondary_language", "display_mode",
			"font_size", "audio_enabled", "show_rubrics").
		Values(userID, prefs.PrimaryLanguage, nullString(prefs.SecondaryLanguage),
			string(prefs.DisplayMode), string(prefs.FontSize),
			boolInt(prefs.AudioEnabled), boolInt(prefs.ShowRubrics)).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			primary_language = excluded.primary_language,
			secondary_language = excluded.secondary_language,
			display_mode = excluded.display_mode,
			font_size = excluded.font_size,
			audio_enabled = excluded.audio_enabled,
			show_rubrics = excluded.show_rubrics,
			updated_at = datetime('now')`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert preferences: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("save preferences for %s: %w", userID, err)
	}

	return db.GetPreferences(ctx, userID)
}
