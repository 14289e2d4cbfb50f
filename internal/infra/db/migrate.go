package db

import (
	"database/sql"
)

// MigrateUp creates the PostgreSQL schema.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS cache_entries (
    id           SERIAL PRIMARY KEY,
    kind         VARCHAR(20) NOT NULL,
    cache_key    TEXT NOT NULL,
    payload_ref  TEXT NOT NULL,
    metadata     JSONB,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    last_used_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    use_count    BIGINT NOT NULL DEFAULT 0,
    expires_at   TIMESTAMPTZ NOT NULL,
    UNIQUE (kind, cache_key)
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    mode               VARCHAR(20) NOT NULL,
    status             VARCHAR(20) NOT NULL,
    progress_percent   INT NOT NULL DEFAULT 0,
    current_step       TEXT NOT NULL DEFAULT '',
    total_segments     INT NOT NULL DEFAULT 0,
    processed_segments INT NOT NULL DEFAULT 0,
    error_log          JSONB,
    metrics            JSONB,
    output_path        TEXT NOT NULL DEFAULT '',
    started_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
    completed_at       TIMESTAMPTZ
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS provider_call_records (
    id                SERIAL PRIMARY KEY,
    provider          VARCHAR(50) NOT NULL,
    request_signature TEXT NOT NULL,
    succeeded         BOOLEAN NOT NULL,
    latency_ms        BIGINT NOT NULL DEFAULT 0,
    error_detail      TEXT NOT NULL DEFAULT '',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// Eviction scans by expiry.
		`CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries(expires_at)`,
		// Job listing orders by start time.
		`CREATE INDEX IF NOT EXISTS idx_jobs_started_at ON jobs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
		// Health scoring reads recent calls per provider.
		`CREATE INDEX IF NOT EXISTS idx_call_records_provider_created ON provider_call_records(provider, created_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateUpSQLite creates the equivalent schema for local SQLite runs.
func MigrateUpSQLite(db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS cache_entries (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    kind         TEXT NOT NULL,
    cache_key    TEXT NOT NULL,
    payload_ref  TEXT NOT NULL,
    metadata     TEXT,
    created_at   TIMESTAMP NOT NULL,
    last_used_at TIMESTAMP NOT NULL,
    use_count    INTEGER NOT NULL DEFAULT 0,
    expires_at   TIMESTAMP NOT NULL,
    UNIQUE (kind, cache_key)
)`,
		`
CREATE TABLE IF NOT EXISTS jobs (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    mode               TEXT NOT NULL,
    status             TEXT NOT NULL,
    progress_percent   INTEGER NOT NULL DEFAULT 0,
    current_step       TEXT NOT NULL DEFAULT '',
    total_segments     INTEGER NOT NULL DEFAULT 0,
    processed_segments INTEGER NOT NULL DEFAULT 0,
    error_log          TEXT,
    metrics            TEXT,
    output_path        TEXT NOT NULL DEFAULT '',
    started_at         TIMESTAMP NOT NULL,
    updated_at         TIMESTAMP NOT NULL,
    completed_at       TIMESTAMP
)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_started_at ON jobs(started_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown drops the schema in reverse order of creation.
// Use with caution: this deletes all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS provider_call_records`,
		`DROP TABLE IF EXISTS jobs`,
		`DROP TABLE IF EXISTS cache_entries`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
