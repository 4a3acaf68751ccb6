package database

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// keyPrefix marks every issued API key so leaked keys are easy to spot.
const keyPrefix = "lit_"

var userColumns = []string{
	"id", "username", "email", "full_name", "role", "active", "created_at", "updated_at",
}

// CreateUser inserts a new account with a random UUID.
func (db *DB) CreateUser(ctx context.Context, username string, email, fullName *string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	id := uuid.NewString()
	query, args, err := builder().
		Insert("users").
		Columns("id", "username", "email", "full_name", "role").
		Values(id, username, email, fullName, string(role)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert user: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return db.GetUserByID(ctx, id)
}

// GetUserByID fetches a user.
func (db *DB) GetUserByID(ctx context.Context, id string) (*User, error) {
	query, args, err := builder().
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}

	user, err := scanUser(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// ListUsers returns all users ordered by username.
func (db *DB) ListUsers(ctx context.Context) ([]User, error) {
	query, args, err := builder().
		Select(userColumns...).
		From("users").
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// SetUserRole changes a user's role.
func (db *DB) SetUserRole(ctx context.Context, id string, role Role) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	query, args, err := builder().
		Update("users").
		Set("role", string(role)).
		Set("updated_at", sq.Expr("datetime('now')")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role: %w", err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u                    User
		email, fullName      sql.NullString
		role                 string
		active               int
		createdAt, updatedAt string
	)
	if err := row.Scan(&u.ID, &u.Username, &email, &fullName, &role, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if email.Valid {
		u.Email = &email.String
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	u.Role = Role(role)
	u.Active = active == 1
	u.CreatedAt = mustTimestamp(createdAt)
	u.UpdatedAt = mustTimestamp(updatedAt)
	return &u, nil
}

// =============================================================================
// API Keys
// =============================================================================

// HashAPIKey returns the stored form of a plaintext key.
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func generateAPIKey() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return keyPrefix + hex.EncodeToString(b), nil
}

// CreateAPIKey issues a new key for a user. The plaintext is only available
// on the returned value.
func (db *DB) CreateAPIKey(ctx context.Context, userID, name string) (*APIKeyWithPlaintext, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: key name is required", ErrInvalidInput)
	}
	if _, err := db.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	plaintext, err := generateAPIKey()
	if err != nil {
		return nil, err
	}
	prefix := plaintext[:len(keyPrefix)+8]

	query, args, err := builder().
		Insert("api_keys").
		Columns("user_id", "key_hash", "key_prefix", "name").
		Values(userID, HashAPIKey(plaintext), prefix, name).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert api key: %w", err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert api key: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("api key id: %w", err)
	}

	key, err := db.getAPIKey(ctx, id)
	if err != nil {
		return nil, err
	}
	return &APIKeyWithPlaintext{APIKey: *key, PlaintextKey: plaintext}, nil
}

var apiKeyColumns = []string{
	"id", "user_id", "key_prefix", "name", "active", "last_used_at", "created_at",
}

func (db *DB) getAPIKey(ctx context.Context, id int64) (*APIKey, error) {
	query, args, err := builder().
		Select(apiKeyColumns...).
		From("api_keys").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select api key: %w", err)
	}

	key, err := scanAPIKey(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get api key %d: %w", id, err)
	}
	return key, nil
}

// ListUserAPIKeys returns every key of a user, revoked ones included.
func (db *DB) ListUserAPIKeys(ctx context.Context, userID string) ([]APIKey, error) {
	query, args, err := builder().
		Select(apiKeyColumns...).
		From("api_keys").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list api keys: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	keys := []APIKey{}
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, *k)
	}
	return keys, rows.Err()
}

// RevokeAPIKey deactivates one of userID's keys. Keys belonging to another
// user report ErrNotFound.
func (db *DB) RevokeAPIKey(ctx context.Context, userID string, keyID int64) error {
	query, args, err := builder().
		Update("api_keys").
		Set("active", 0).
		Where(sq.Eq{"id": keyID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build revoke api key: %w", err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AuthenticateAPIKey resolves a plaintext key to its active user and records
// the use.
func (db *DB) AuthenticateAPIKey(ctx context.Context, plaintext string) (*User, error) {
	if !strings.HasPrefix(plaintext, keyPrefix) {
		return nil, ErrNotFound
	}

	query, args, err := builder().
		Select("k.id", "k.user_id").
		From("api_keys k").
		Join("users u ON u.id = k.user_id").
		Where(sq.Eq{"k.key_hash": HashAPIKey(plaintext), "k.active": 1, "u.active": 1}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build authenticate: %w", err)
	}

	var (
		keyID  int64
		userID string
	)
	if err := db.QueryRowContext(ctx, query, args...).Scan(&keyID, &userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("authenticate api key: %w", err)
	}

	touch, touchArgs, err := builder().
		Update("api_keys").
		Set("last_used_at", sq.Expr("datetime('now')")).
		Where(sq.Eq{"id": keyID}).
		ToSql()
	if err == nil {
		if _, err := db.ExecContext(ctx, touch, touchArgs...); err != nil {
			db.logger.Warn("failed to record api key use",
				slog.Int64("key_id", keyID),
				slog.Any("error", err),
			)
		}
	}

	return db.GetUserByID(ctx, userID)
}

func scanAPIKey(row rowScanner) (*APIKey, error) {
	var (
		k         APIKey
		active    int
		lastUsed  sql.NullString
		createdAt string
	)
	if err := row.Scan(&k.ID, &k.UserID, &k.Prefix, &k.Name, &active, &lastUsed, &createdAt); err != nil {
		return nil, err
	}
	k.Active = active == 1
	k.LastUsedAt = parseTimestamp(lastUsed)
	k.CreatedAt = mustTimestamp(createdAt)
	return &k, nil
}
