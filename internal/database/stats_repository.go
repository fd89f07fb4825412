package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/signalcards/pkg/models"
)

// StatsRepository handles database operations for learner statistics.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new repository instance.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get returns the stats row for a learner.
func (r *StatsRepository) Get(ctx context.Context, learnerID string) (*models.UserStats, error) {
	query := r.db.Rebind(`SELECT * FROM stats WHERE learner_id = ?`)
	var stats models.UserStats
	err := r.db.GetContext(ctx, &stats, query, learnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}

// Create inserts the learner's initial stats row. A concurrent first answer
// trips the primary key and surfaces as ErrConflict.
func (r *StatsRepository) Create(ctx context.Context, stats *models.UserStats) error {
	stats.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`
		INSERT INTO stats (
			learner_id, xp, total_correct, total_incorrect,
			streak_days, last_activity_date, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		stats.LearnerID,
		stats.XP,
		stats.TotalCorrect,
		stats.TotalIncorrect,
		stats.StreakDays,
		stats.LastActivityDate,
		stats.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create stats: %w", err)
	}
	return nil
}

// Increment applies one answer's delta. XP and the correct/incorrect counters
// are added in SQL so concurrent answers never lose an increment; streak and
// activity date are absolute assignments that concurrent same-day writers
// compute identically, keeping the day-streak idempotent per date.
func (r *StatsRepository) Increment(ctx context.Context, learnerID string, d models.StatsDelta) error {
	correct, incorrect := 0, 1
	if d.Correct {
		correct, incorrect = 1, 0
	}
	query := r.db.Rebind(`
		UPDATE stats SET
			xp = xp + ?,
			total_correct = total_correct + ?,
			total_incorrect = total_incorrect + ?,
			streak_days = ?,
			last_activity_date = ?,
			updated_at = ?
		WHERE learner_id = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		d.XP,
		correct,
		incorrect,
		d.StreakDays,
		d.ActivityDate,
		time.Now().UTC(),
		learnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
