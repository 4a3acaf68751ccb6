package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1Users,
	2: migrationV2Preferences,
	3: migrationV3CelebrationRecords,
}

// migrationV1Users creates accounts and their API keys.
//
// Keys are stored as SHA-256 hashes; the plaintext is shown once when the
// key is created. key_prefix keeps enough of the key to recognise it in a
// listing.
const migrationV1Users = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT,
    full_name TEXT,
    role TEXT NOT NULL DEFAULT 'user'
        CHECK (role IN ('user', 'editor', 'admin')),
    active INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS api_keys (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    key_hash TEXT NOT NULL UNIQUE,
    key_prefix TEXT NOT NULL,
    name TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    last_used_at TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_api_keys_user ON api_keys(user_id);
`

// migrationV2Preferences stores one row of display preferences per user.
// Users without a row get the defaults.
const migrationV2Preferences = `
CREATE TABLE IF NOT EXISTS user_preferences (
    user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    primary_language TEXT NOT NULL DEFAULT 'en',
    secondary_language TEXT,
    display_mode TEXT NOT NULL DEFAULT 'primary-only'
        CHECK (display_mode IN ('primary-only', 'secondary-only', 'bilingual')),
    font_size TEXT NOT NULL DEFAULT 'medium'
        CHECK (font_size IN ('small', 'medium', 'large', 'x-large')),
    audio_enabled INTEGER NOT NULL DEFAULT 0,
    show_rubrics INTEGER NOT NULL DEFAULT 1,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// migrationV3CelebrationRecords holds celebrations maintained by editors on
// top of the bundled catalogs.
//
// date is either a fixed MM-DD or a single ISO YYYY-MM-DD occurrence.
// rank follows precedence order: 1 = solemnity through 5 = ferial.
// prayers is a JSON array of strings.
const migrationV3CelebrationRecords = `
CREATE TABLE IF NOT EXISTS celebration_records (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    date TEXT NOT NULL,
    rank INTEGER NOT NULL CHECK (rank BETWEEN 1 AND 5),
    color TEXT NOT NULL,
    dominican INTEGER NOT NULL DEFAULT 0,
    description TEXT,
    biography TEXT,
    patronage TEXT,
    prayers TEXT NOT NULL DEFAULT '[]',
    created_by TEXT REFERENCES users(id) ON DELETE SET NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_celebration_records_date
    ON celebration_records(date);
`
