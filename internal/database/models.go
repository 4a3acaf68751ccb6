package database

import (
	"fmt"
	"time"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
	"github.com/zapponejosh/liturgy-api/internal/celebration"
	"github.com/zapponejosh/liturgy-api/internal/liturgy"
)

// Role is a user's permission level. Roles are ordered: user < editor < admin.
type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

var roleLevels = map[Role]int{
	RoleUser:   1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// IsValid checks if a role is known.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Can reports whether r grants at least the permissions of required.
func (r Role) Can(required Role) bool {
	have, ok := roleLevels[r]
	if !ok {
		return false
	}
	return have >= roleLevels[required]
}

// ParseRole converts a role name, defaulting an empty string to RoleUser.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User is an account that authenticates with one or more API keys.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	FullName  *string   `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// APIKey describes a stored key. The key itself is never stored.
type APIKey struct {
	ID         int64      `json:"id"`
	UserID     string     `json:"user_id"`
	Prefix     string     `json:"prefix"`
	Name       string     `json:"name"`
	Active     bool       `json:"active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// APIKeyWithPlaintext is returned once, when a key is created.
type APIKeyWithPlaintext struct {
	APIKey
	PlaintextKey string `json:"key"`
}

// CelebrationRecord is an editor-maintained celebration.
type CelebrationRecord struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Date        string           `json:"date"`
	Rank        celebration.Rank `json:"rank"`
	Color       calendar.Color   `json:"color"`
	IsDominican bool             `json:"is_dominican"`
	Description string           `json:"description,omitempty"`
	Biography   string           `json:"biography,omitempty"`
	Patronage   string           `json:"patronage,omitempty"`
	Prayers     []string         `json:"prayers,omitempty"`
	CreatedBy   *string          `json:"created_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Celebration converts the record for the celebration registry.
func (r CelebrationRecord) Celebration() celebration.Celebration {
	return celebration.Celebration{
		ID:          r.ID,
		Name:        r.Name,
		Rank:        r.Rank,
		Color:       r.Color,
		Date:        r.Date,
		IsDominican: r.IsDominican,
		Description: r.Description,
		Biography:   r.Biography,
		Patronage:   r.Patronage,
		Prayers:     r.Prayers,
	}
}

// RecordFromCelebration builds a record from a catalog-shaped celebration.
func RecordFromCelebration(c celebration.Celebration) CelebrationRecord {
	return CelebrationRecord{
		ID:          c.ID,
		Name:        c.Name,
		Date:        c.Date,
		Rank:        c.Rank,
		Color:       c.Color,
		IsDominican: c.IsDominican,
		Description: c.Description,
		Biography:   c.Biography,
		Patronage:   c.Patronage,
		Prayers:     c.Prayers,
	}
}

// Normalize checks the fields the registry relies on and canonicalises the
// color and fixed dates.
func (r *CelebrationRecord) Normalize() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	case r.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !r.Rank.IsValid():
		return fmt.Errorf("%w: invalid rank %d", ErrInvalidInput, int(r.Rank))
	}

	color, err := calendar.ParseColor(string(r.Color))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	r.Color = color

	if _, ok := celebration.ParseCelebrationDate(r.Date, 2000); !ok {
		return fmt.Errorf("%w: date %q must be MM-DD or YYYY-MM-DD", ErrInvalidInput, r.Date)
	}
	if md, ok := celebration.NormalizeMonthDay(r.Date); ok && len(r.Date) <= 5 {
		r.Date = md
	}
	return nil
}

// StoredPreferences are a user's saved display preferences.
type StoredPreferences struct {
	UserID string `json:"user_id"`
	liturgy.Preferences
	UpdatedAt time.Time `json:"updated_at"`
}
