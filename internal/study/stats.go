package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/signalcards/internal/database"
	"github.com/example/signalcards/internal/metrics"
	"github.com/example/signalcards/internal/spaced_repetition"
	"github.com/example/signalcards/pkg/models"
)

// StatsStore is the slice of the stats repository the aggregator needs.
type StatsStore interface {
	Get(ctx context.Context, learnerID string) (*models.UserStats, error)
	Create(ctx context.Context, stats *models.UserStats) error
	Increment(ctx context.Context, learnerID string, d models.StatsDelta) error
}

// Aggregator maintains per-learner aggregate statistics: total XP, the
// correct/incorrect counters and the day streak. Rows are created lazily on
// a learner's first answer.
type Aggregator struct {
	store StatsStore
	now   func() time.Time
}

// NewAggregator creates a stats aggregator.
func NewAggregator(store StatsStore) *Aggregator {
	return &Aggregator{
		store: store,
		now:   time.Now,
	}
}

// RecordAnswer folds one answer into the learner's aggregates. The day
// streak is re-derived from the stored last-activity date rather than
// blindly incremented, so duplicate or out-of-order calls on the same
// calendar date change the streak at most once.
func (a *Aggregator) RecordAnswer(ctx context.Context, learnerID string, score int) error {
	today := a.now().Format(models.DateLayout)
	xp := spaced_repetition.XPGain(score)
	correct := score >= models.CorrectThreshold

	current, err := a.store.Get(ctx, learnerID)
	if errors.Is(err, database.ErrNotFound) {
		stats := &models.UserStats{
			LearnerID:        learnerID,
			XP:               xp,
			StreakDays:       1,
			LastActivityDate: today,
		}
		if correct {
			stats.TotalCorrect = 1
		} else {
			stats.TotalIncorrect = 1
		}
		err = a.store.Create(ctx, stats)
		if errors.Is(err, database.ErrConflict) {
			// Another answer created the row first; fall through to the
			// increment path against the fresh row.
			current, err = a.store.Get(ctx, learnerID)
		} else if err != nil {
			return fmt.Errorf("failed to create stats: %w", err)
		} else {
			metrics.XPAwarded.Add(float64(xp))
			return nil
		}
	}
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	delta := models.StatsDelta{
		XP:           xp,
		Correct:      correct,
		StreakDays:   nextDayStreak(current.StreakDays, current.LastActivityDate, today),
		ActivityDate: today,
	}
	if err := a.store.Increment(ctx, learnerID, delta); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	metrics.XPAwarded.Add(float64(xp))
	return nil
}

// Stats returns the learner's aggregates. A learner who has never answered
// gets the zero aggregate, not an error.
func (a *Aggregator) Stats(ctx context.Context, learnerID string) (*models.UserStats, error) {
	stats, err := a.store.Get(ctx, learnerID)
	if errors.Is(err, database.ErrNotFound) {
		return &models.UserStats{LearnerID: learnerID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	return stats, nil
}

// nextDayStreak derives the new day streak from the last recorded activity
// date. Same day: unchanged. Yesterday: one longer. Anything older, missing
// or unparseable: back to 1.
func nextDayStreak(current int, lastActivity, today string) int {
	if lastActivity == today {
		if current < 1 {
			return 1
		}
		return current
	}
	last, err := time.Parse(models.DateLayout, lastActivity)
	if err != nil {
		return 1
	}
	day, err := time.Parse(models.DateLayout, today)
	if err != nil {
		return 1
	}
	if day.Sub(last) == 24*time.Hour {
		return current + 1
	}
	return 1
}
