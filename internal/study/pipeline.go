// Package study orchestrates answer submission: score validation, the
// scheduling strategy, the progress write and the stats update.
package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/signalcards/internal/database"
	"github.com/example/signalcards/internal/metrics"
	"github.com/example/signalcards/internal/spaced_repetition"
	"github.com/example/signalcards/pkg/models"
)

// ErrInvalidScore is returned for scores outside the 0-5 scale. It is
// rejected before any store access and never retried.
var ErrInvalidScore = errors.New("score must be an integer between 0 and 5")

// ProgressStore is the slice of the progress repository the pipeline needs.
type ProgressStore interface {
	GetByLearnerAndQuestion(ctx context.Context, learnerID, questionID string) (*models.Progress, error)
	Create(ctx context.Context, p *models.Progress) error
	Update(ctx context.Context, p *models.Progress) error
}

// QuestionGetter verifies a question exists before any progress is written.
type QuestionGetter interface {
	GetByID(ctx context.Context, id string) (*models.Question, error)
}

// Pipeline handles one answer end to end.
type Pipeline struct {
	progress ProgressStore
	content  QuestionGetter
	stats    *Aggregator
	strategy spaced_repetition.Strategy
	log      *zap.Logger
	now      func() time.Time
}

// NewPipeline creates an answer pipeline using the given scheduling strategy.
func NewPipeline(progress ProgressStore, content QuestionGetter, stats *Aggregator, strategy spaced_repetition.Strategy, log *zap.Logger) *Pipeline {
	return &Pipeline{
		progress: progress,
		content:  content,
		stats:    stats,
		strategy: strategy,
		log:      log,
		now:      time.Now,
	}
}

// SubmitAnswer records one recall for a card.
//
// An empty learnerID means guest/practice mode: the call succeeds without
// touching the store. That is a documented success path, not a swallowed
// error. Otherwise the card's progress is read, advanced by the strategy and
// written back under an optimistic version check; on a conflict the
// read-modify-write is retried exactly once before the conflict surfaces.
func (p *Pipeline) SubmitAnswer(ctx context.Context, learnerID, questionID string, score int) error {
	if !models.IsValidScore(score) {
		return fmt.Errorf("%w: got %d", ErrInvalidScore, score)
	}

	if learnerID == "" {
		metrics.AnswersRecorded.WithLabelValues("guest").Inc()
		p.log.Debug("guest answer, nothing persisted",
			zap.String("question_id", questionID),
			zap.Int("score", score),
		)
		return nil
	}

	if _, err := p.content.GetByID(ctx, questionID); err != nil {
		return fmt.Errorf("failed to look up question %s: %w", questionID, err)
	}

	err := p.applyAnswer(ctx, learnerID, questionID, score)
	if errors.Is(err, database.ErrConflict) {
		metrics.UpdateConflicts.Inc()
		p.log.Warn("progress version conflict, retrying once",
			zap.String("learner_id", learnerID),
			zap.String("question_id", questionID),
		)
		err = p.applyAnswer(ctx, learnerID, questionID, score)
	}
	if err != nil {
		return err
	}

	outcome := "incorrect"
	if score >= models.CorrectThreshold {
		outcome = "correct"
	}
	metrics.AnswersRecorded.WithLabelValues(outcome).Inc()

	return p.stats.RecordAnswer(ctx, learnerID, score)
}

// applyAnswer performs one read-modify-write attempt.
func (p *Pipeline) applyAnswer(ctx context.Context, learnerID, questionID string, score int) error {
	now := p.now()

	current, err := p.progress.GetByLearnerAndQuestion(ctx, learnerID, questionID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		fresh := &models.Progress{
			LearnerID:  learnerID,
			QuestionID: questionID,
			EaseFactor: 2.5,
		}
		p.strategy.Initial(fresh, score, now)
		stampAnswer(fresh, score, now)
		return p.progress.Create(ctx, fresh)
	case err != nil:
		return fmt.Errorf("failed to read progress: %w", err)
	}

	p.strategy.Advance(current, score, now)
	stampAnswer(current, score, now)
	return p.progress.Update(ctx, current)
}

// stampAnswer applies the per-answer bookkeeping shared by both paths:
// counters, the per-card streak and the review timestamps.
func stampAnswer(p *models.Progress, score int, now time.Time) {
	p.LastScore = score
	p.LastReviewedAt = now
	p.UpdatedAt = now
	p.RepetitionCount++
	if score >= models.CorrectThreshold {
		p.CorrectCount++
		p.Streak++
	} else {
		p.IncorrectCount++
		p.Streak = 0
	}
}
