// Package session assembles ordered study sessions from the progress store
// and the content store. Composition is read-only; a session is a plain
// slice owned by the caller, the engine keeps no session state between calls.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/signalcards/internal/content"
	"github.com/example/signalcards/internal/metrics"
	"github.com/example/signalcards/pkg/models"
)

// DefaultBatchSize applies when the caller passes a non-positive batch size.
const DefaultBatchSize = 20

var (
	// ErrLearnerRequired is returned for review/boxes sessions without a
	// learner identity. Guests study in practice or guest mode.
	ErrLearnerRequired = errors.New("learner required for this session mode")
	// ErrInvalidMode is returned for an unknown session mode.
	ErrInvalidMode = errors.New("invalid session mode")
	// ErrInvalidBox is returned when a boxes session names a box outside 1-5.
	ErrInvalidBox = errors.New("box number must be between 1 and 5")
)

// ProgressStore is the slice of the progress repository the composer needs.
type ProgressStore interface {
	DueForLearner(ctx context.Context, learnerID string, now time.Time, f models.SessionFilter, limit int) ([]models.Progress, error)
	ByBox(ctx context.Context, learnerID string, box int, f models.SessionFilter, limit int) ([]models.Progress, error)
}

// Composer builds study sessions.
type Composer struct {
	progress     ProgressStore
	content      content.Store
	log          *zap.Logger
	now          func() time.Time
	defaultBatch int
}

// NewComposer creates a session composer. A non-positive defaultBatch falls
// back to DefaultBatchSize.
func NewComposer(progress ProgressStore, store content.Store, log *zap.Logger, defaultBatch int) *Composer {
	if defaultBatch <= 0 {
		defaultBatch = DefaultBatchSize
	}
	return &Composer{
		progress:     progress,
		content:      store,
		log:          log,
		now:          time.Now,
		defaultBatch: defaultBatch,
	}
}

// Compose returns an ordered batch of questions for one sitting.
//
// Review sessions put due cards first (most overdue leading) and top up with
// never-seen questions; overflow due cards are simply served by the next
// call. Practice and guest sessions ignore due dates entirely and nothing
// answered in them is persisted. Boxes sessions serve only cards currently in
// the requested box.
func (c *Composer) Compose(ctx context.Context, learnerID string, opts models.SessionOptions) ([]models.SessionQuestion, error) {
	if !opts.Mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, opts.Mode)
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = c.defaultBatch
	}

	var (
		session []models.SessionQuestion
		err     error
	)
	switch opts.Mode {
	case models.ModeReview:
		if learnerID == "" {
			return nil, ErrLearnerRequired
		}
		session, err = c.composeReview(ctx, learnerID, opts.Filter, batch)
	case models.ModeBoxes:
		if learnerID == "" {
			return nil, ErrLearnerRequired
		}
		if opts.BoxNumber < models.MinBox || opts.BoxNumber > models.MaxBox {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidBox, opts.BoxNumber)
		}
		session, err = c.composeBox(ctx, learnerID, opts.BoxNumber, opts.Filter, batch)
	case models.ModePractice, models.ModeGuest:
		session, err = c.composePractice(ctx, opts.Filter, batch)
	}
	if err != nil {
		return nil, err
	}

	metrics.SessionsLoaded.WithLabelValues(string(opts.Mode)).Inc()
	c.log.Debug("session composed",
		zap.String("mode", string(opts.Mode)),
		zap.Int("cards", len(session)),
	)
	return session, nil
}

func (c *Composer) composeReview(ctx context.Context, learnerID string, f models.SessionFilter, batch int) ([]models.SessionQuestion, error) {
	due, err := c.progress.DueForLearner(ctx, learnerID, c.now(), f, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to load due cards: %w", err)
	}

	session, err := c.attachQuestions(ctx, due)
	if err != nil {
		return nil, err
	}

	if remaining := batch - len(session); remaining > 0 {
		fresh, err := c.content.Unseen(ctx, learnerID, f, remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to load new cards: %w", err)
		}
		for _, q := range fresh {
			session = append(session, models.SessionQuestion{Question: q})
		}
	}
	return session, nil
}

func (c *Composer) composeBox(ctx context.Context, learnerID string, box int, f models.SessionFilter, batch int) ([]models.SessionQuestion, error) {
	cards, err := c.progress.ByBox(ctx, learnerID, box, f, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to load box %d: %w", box, err)
	}
	return c.attachQuestions(ctx, cards)
}

func (c *Composer) composePractice(ctx context.Context, f models.SessionFilter, batch int) ([]models.SessionQuestion, error) {
	questions, err := c.content.List(ctx, f, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to load practice questions: %w", err)
	}
	session := make([]models.SessionQuestion, 0, len(questions))
	for _, q := range questions {
		session = append(session, models.SessionQuestion{Question: q})
	}
	return session, nil
}

// attachQuestions resolves the question for each progress row, preserving the
// order of the rows. Progress rows whose question vanished from the content
// store are skipped rather than failing the whole session.
func (c *Composer) attachQuestions(ctx context.Context, cards []models.Progress) ([]models.SessionQuestion, error) {
	if len(cards) == 0 {
		return []models.SessionQuestion{}, nil
	}
	ids := make([]string, 0, len(cards))
	for i := range cards {
		ids = append(ids, cards[i].QuestionID)
	}
	questions, err := c.content.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session questions: %w", err)
	}

	session := make([]models.SessionQuestion, 0, len(cards))
	for i := range cards {
		q, ok := questions[cards[i].QuestionID]
		if !ok {
			c.log.Warn("progress row without question, skipping",
				zap.String("question_id", cards[i].QuestionID),
			)
			continue
		}
		p := cards[i]
		session = append(session, models.SessionQuestion{Question: q, Progress: &p})
	}
	return session, nil
}
