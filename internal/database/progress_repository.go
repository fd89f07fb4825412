package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/signalcards/pkg/models"
)

// ProgressRepository handles database operations for progress records.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetByLearnerAndQuestion returns the progress record for one card.
func (r *ProgressRepository) GetByLearnerAndQuestion(ctx context.Context, learnerID, questionID string) (*models.Progress, error) {
	query := r.db.Rebind(`
		SELECT * FROM progress
		WHERE learner_id = ? AND question_id = ?
	`)
	var p models.Progress
	err := r.db.GetContext(ctx, &p, query, learnerID, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &p, nil
}

// DueForLearner returns the learner's due cards matching the filter, most
// overdue first.
func (r *ProgressRepository) DueForLearner(ctx context.Context, learnerID string, now time.Time, f models.SessionFilter, limit int) ([]models.Progress, error) {
	where := []string{"p.learner_id = ?", "p.next_review_at <= ?"}
	args := []interface{}{learnerID, now}
	where, args = questionFilterClauses(where, args, f)
	args = append(args, limit)

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT p.* FROM progress p
		JOIN questions q ON q.id = p.question_id
		WHERE %s
		ORDER BY p.next_review_at ASC
		LIMIT ?
	`, strings.Join(where, " AND ")))

	var due []models.Progress
	if err := r.db.SelectContext(ctx, &due, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get due cards: %w", err)
	}
	return due, nil
}

// ByBox returns the learner's cards currently sitting in the given box.
func (r *ProgressRepository) ByBox(ctx context.Context, learnerID string, box int, f models.SessionFilter, limit int) ([]models.Progress, error) {
	where := []string{"p.learner_id = ?", "p.box_number = ?"}
	args := []interface{}{learnerID, box}
	where, args = questionFilterClauses(where, args, f)
	args = append(args, limit)

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT p.* FROM progress p
		JOIN questions q ON q.id = p.question_id
		WHERE %s
		ORDER BY p.next_review_at ASC
		LIMIT ?
	`, strings.Join(where, " AND ")))

	var cards []models.Progress
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get cards for box %d: %w", box, err)
	}
	return cards, nil
}

// Create inserts a new progress record. A concurrent first answer for the
// same card trips the unique constraint and surfaces as ErrConflict, so the
// caller re-reads and retries as an update.
func (r *ProgressRepository) Create(ctx context.Context, p *models.Progress) error {
	p.Version = 1
	p.CreatedAt = p.UpdatedAt

	query := r.db.Rebind(`
		INSERT INTO progress (
			learner_id, question_id, box_number, last_score,
			interval_days, ease_factor, last_reviewed_at, next_review_at,
			streak, repetition_count, correct_count, incorrect_count,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		p.LearnerID,
		p.QuestionID,
		p.BoxNumber,
		p.LastScore,
		p.IntervalDays,
		p.EaseFactor,
		p.LastReviewedAt,
		p.NextReviewAt,
		p.Streak,
		p.RepetitionCount,
		p.CorrectCount,
		p.IncorrectCount,
		p.Version,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}

// Update writes back a modified progress record with an optimistic
// concurrency check on the version column. ErrConflict means another writer
// updated the row since it was read.
func (r *ProgressRepository) Update(ctx context.Context, p *models.Progress) error {
	query := r.db.Rebind(`
		UPDATE progress SET
			box_number = ?,
			last_score = ?,
			interval_days = ?,
			ease_factor = ?,
			last_reviewed_at = ?,
			next_review_at = ?,
			streak = ?,
			repetition_count = ?,
			correct_count = ?,
			incorrect_count = ?,
			version = version + 1,
			updated_at = ?
		WHERE learner_id = ? AND question_id = ? AND version = ?
	`)
	result, err := r.db.ExecContext(ctx, query,
		p.BoxNumber,
		p.LastScore,
		p.IntervalDays,
		p.EaseFactor,
		p.LastReviewedAt,
		p.NextReviewAt,
		p.Streak,
		p.RepetitionCount,
		p.CorrectCount,
		p.IncorrectCount,
		p.UpdatedAt,
		p.LearnerID,
		p.QuestionID,
		p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrConflict
	}
	p.Version++
	return nil
}

// CountByBox returns how many of the learner's cards sit in each box,
// used by the box-picker view.
func (r *ProgressRepository) CountByBox(ctx context.Context, learnerID string) (map[int]int, error) {
	query := r.db.Rebind(`
		SELECT box_number, COUNT(*) AS cards
		FROM progress
		WHERE learner_id = ?
		GROUP BY box_number
	`)
	rows, err := r.db.QueryxContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards per box: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var box, n int
		if err := rows.Scan(&box, &n); err != nil {
			return nil, fmt.Errorf("failed to scan box count: %w", err)
		}
		counts[box] = n
	}
	return counts, rows.Err()
}
