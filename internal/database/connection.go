package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the database and bootstraps the schema. Supported drivers are
// "postgres" (production) and "sqlite3" (local development and tests). For
// sqlite3 a relative DSN path gets its directory created first.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == "sqlite3" && dsn != ":memory:" && dsn != "" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	if err := initializeSchema(db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates the tables owned by the scheduling engine. The
// unique constraint on (learner_id, question_id) is a hard invariant: there
// is exactly one authoritative progress row per pair, duplicates are a bug.
func initializeSchema(db *sqlx.DB, driver string) error {
	serial := "BIGSERIAL PRIMARY KEY"
	if driver == "sqlite3" {
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			subcategory TEXT NOT NULL DEFAULT '',
			regulation TEXT NOT NULL DEFAULT '',
			difficulty INTEGER NOT NULL DEFAULT 1,
			prompt TEXT NOT NULL,
			answers TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS progress (
			id %s,
			learner_id TEXT NOT NULL,
			question_id TEXT NOT NULL REFERENCES questions(id),
			box_number INTEGER NOT NULL DEFAULT 1,
			last_score INTEGER NOT NULL DEFAULT 0,
			interval_days INTEGER NOT NULL DEFAULT 0,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			last_reviewed_at TIMESTAMP NOT NULL,
			next_review_at TIMESTAMP NOT NULL,
			streak INTEGER NOT NULL DEFAULT 0,
			repetition_count INTEGER NOT NULL DEFAULT 0,
			correct_count INTEGER NOT NULL DEFAULT 0,
			incorrect_count INTEGER NOT NULL DEFAULT 0,
			version BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE(learner_id, question_id)
		)`, serial),
		`CREATE INDEX IF NOT EXISTS idx_progress_due
			ON progress(learner_id, next_review_at)`,
		`CREATE INDEX IF NOT EXISTS idx_progress_box
			ON progress(learner_id, box_number)`,
		`CREATE TABLE IF NOT EXISTS stats (
			learner_id TEXT PRIMARY KEY,
			xp INTEGER NOT NULL DEFAULT 0,
			total_correct INTEGER NOT NULL DEFAULT 0,
			total_incorrect INTEGER NOT NULL DEFAULT 0,
			streak_days INTEGER NOT NULL DEFAULT 0,
			last_activity_date TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
