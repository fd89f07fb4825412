package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/signalcards/pkg/models"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedQuestion(t *testing.T, repo *QuestionRepository, id, category, regulation string) {
	t.Helper()
	err := repo.Create(context.Background(), &models.Question{
		ID:         id,
		Category:   category,
		Regulation: regulation,
		Difficulty: 2,
		Prompt:     "prompt " + id,
		Answers: []models.Answer{
			{Text: "right", IsCorrect: true},
			{Text: "wrong"},
		},
	})
	require.NoError(t, err)
}

func seedProgress(t *testing.T, repo *ProgressRepository, learnerID, questionID string, box int, nextReview time.Time) *models.Progress {
	t.Helper()
	p := &models.Progress{
		LearnerID:      learnerID,
		QuestionID:     questionID,
		BoxNumber:      box,
		EaseFactor:     2.5,
		LastReviewedAt: nextReview.AddDate(0, 0, -1),
		NextReviewAt:   nextReview,
		UpdatedAt:      nextReview.AddDate(0, 0, -1),
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestProgressUniqueConstraint(t *testing.T) {
	db := testDB(t)
	questions := NewQuestionRepository(db)
	progress := NewProgressRepository(db)
	seedQuestion(t, questions, "q1", models.CategorySignals, "")
	now := time.Now().UTC()

	seedProgress(t, progress, "lena", "q1", 2, now)

	dup := &models.Progress{
		LearnerID:      "lena",
		QuestionID:     "q1",
		BoxNumber:      1,
		LastReviewedAt: now,
		NextReviewAt:   now,
		UpdatedAt:      now,
	}
	err := progress.Create(context.Background(), dup)
	assert.ErrorIs(t, err, ErrConflict, "one progress row per (learner, question)")
}

func TestProgressVersionedUpdate(t *testing.T) {
	db := testDB(t)
	questions := NewQuestionRepository(db)
	progress := NewProgressRepository(db)
	seedQuestion(t, questions, "q1", models.CategorySignals, "")
	now := time.Now().UTC().Truncate(time.Second)

	seedProgress(t, progress, "lena", "q1", 2, now)

	ctx := context.Background()
	first, err := progress.GetByLearnerAndQuestion(ctx, "lena", "q1")
	require.NoError(t, err)
	second, err := progress.GetByLearnerAndQuestion(ctx, "lena", "q1")
	require.NoError(t, err)

	first.BoxNumber = 3
	first.UpdatedAt = now
	require.NoError(t, progress.Update(ctx, first))

	// The second reader now holds a stale version.
	second.BoxNumber = 1
	second.UpdatedAt = now
	assert.ErrorIs(t, progress.Update(ctx, second), ErrConflict)

	final, err := progress.GetByLearnerAndQuestion(ctx, "lena", "q1")
	require.NoError(t, err)
	assert.Equal(t, 3, final.BoxNumber, "the stale write changed nothing")
}

func TestProgressGetNotFound(t *testing.T) {
	db := testDB(t)
	progress := NewProgressRepository(db)
	_, err := progress.GetByLearnerAndQuestion(context.Background(), "lena", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDueForLearnerOrderingAndFilters(t *testing.T) {
	db := testDB(t)
	questions := NewQuestionRepository(db)
	progress := NewProgressRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	seedQuestion(t, questions, "q-ds", models.CategorySignals, "ds301")
	seedQuestion(t, questions, "q-both", models.CategorySignals, "both")
	seedQuestion(t, questions, "q-plain", models.CategorySignals, "")
	seedQuestion(t, questions, "q-dv", models.CategorySignals, "dv301")
	seedQuestion(t, questions, "q-later", models.CategoryOperations, "")

	seedProgress(t, progress, "lena", "q-both", 1, now.AddDate(0, 0, -3))
	seedProgress(t, progress, "lena", "q-ds", 1, now.AddDate(0, 0, -1))
	seedProgress(t, progress, "lena", "q-plain", 1, now.AddDate(0, 0, -2))
	seedProgress(t, progress, "lena", "q-dv", 1, now.AddDate(0, 0, -4))
	seedProgress(t, progress, "lena", "q-later", 1, now.AddDate(0, 0, 5))

	// Regulation ds301 matches the exact tag, "both" and the untagged
	// question, but not dv301; the future card is not due.
	due, err := progress.DueForLearner(ctx, "lena", now, models.SessionFilter{Regulation: "ds301"}, 10)
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, "q-both", due[0].QuestionID, "most overdue first")
	assert.Equal(t, "q-plain", due[1].QuestionID)
	assert.Equal(t, "q-ds", due[2].QuestionID)

	// "all" disables regulation filtering.
	due, err = progress.DueForLearner(ctx, "lena", now, models.SessionFilter{Regulation: models.RegulationAll}, 10)
	require.NoError(t, err)
	assert.Len(t, due, 4)

	// Category filter.
	due, err = progress.DueForLearner(ctx, "lena", now, models.SessionFilter{Category: models.CategoryOperations}, 10)
	require.NoError(t, err)
	assert.Empty(t, due, "the operations card is not due yet")

	// Limit applies.
	due, err = progress.DueForLearner(ctx, "lena", now, models.SessionFilter{}, 2)
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestByBoxAndCounts(t *testing.T) {
	db := testDB(t)
	questions := NewQuestionRepository(db)
	progress := NewProgressRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	seedQuestion(t, questions, "q1", models.CategorySignals, "")
	seedQuestion(t, questions, "q2", models.CategorySignals, "")
	seedQuestion(t, questions, "q3", models.CategorySignals, "")
	seedProgress(t, progress, "lena", "q1", 2, now)
	seedProgress(t, progress, "lena", "q2", 2, now)
	seedProgress(t, progress, "lena", "q3", 5, now)
	seedProgress(t, progress, "ole", "q1", 1, now)

	cards, err := progress.ByBox(ctx, "lena", 2, models.SessionFilter{}, 10)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	counts, err := progress.CountByBox(ctx, "lena")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{2: 2, 5: 1}, counts)
}

func TestUnseenExcludesStudiedQuestions(t *testing.T) {
	db := testDB(t)
	questions := NewQuestionRepository(db)
	progress := NewProgressRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	seedQuestion(t, questions, "q1", models.CategorySignals, "")
	seedQuestion(t, questions, "q2", models.CategorySignals, "")
	seedQuestion(t, questions, "q3", models.CategoryOperations, "")
	seedProgress(t, progress, "lena", "q1", 2, now)

	unseen, err := questions.Unseen(ctx, "lena", models.SessionFilter{}, 10)
	require.NoError(t, err)
	ids := []string{}
	for _, q := range unseen {
		ids = append(ids, q.ID)
	}
	assert.ElementsMatch(t, []string{"q2", "q3"}, ids)

	// Another learner has seen nothing.
	unseen, err = questions.Unseen(ctx, "ole", models.SessionFilter{}, 10)
	require.NoError(t, err)
	assert.Len(t, unseen, 3)
}

func TestQuestionRoundTrip(t *testing.T) {
	db := testDB(t)
	questions := NewQuestionRepository(db)
	ctx := context.Background()

	seedQuestion(t, questions, "q1", models.CategorySignals, "ds301")

	q, err := questions.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, models.CategorySignals, q.Category)
	require.Len(t, q.Answers, 2)
	assert.True(t, q.Answers[0].IsCorrect)

	_, err = questions.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	byIDs, err := questions.GetByIDs(ctx, []string{"q1", "ghost"})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	counts, err := questions.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].Questions)
}

func TestStatsLifecycle(t *testing.T) {
	db := testDB(t)
	stats := NewStatsRepository(db)
	ctx := context.Background()

	_, err := stats.Get(ctx, "lena")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, stats.Create(ctx, &models.UserStats{
		LearnerID:        "lena",
		XP:               15,
		TotalCorrect:     1,
		StreakDays:       1,
		LastActivityDate: "2025-03-10",
	}))
	assert.ErrorIs(t, stats.Create(ctx, &models.UserStats{LearnerID: "lena"}), ErrConflict)

	require.NoError(t, stats.Increment(ctx, "lena", models.StatsDelta{
		XP:           5,
		Correct:      false,
		StreakDays:   1,
		ActivityDate: "2025-03-10",
	}))

	s, err := stats.Get(ctx, "lena")
	require.NoError(t, err)
	assert.Equal(t, 20, s.XP)
	assert.Equal(t, 1, s.TotalCorrect)
	assert.Equal(t, 1, s.TotalIncorrect)
	assert.Equal(t, 1, s.StreakDays)
	assert.Equal(t, "2025-03-10", s.LastActivityDate)

	err = stats.Increment(ctx, "nobody", models.StatsDelta{XP: 5})
	assert.ErrorIs(t, err, ErrNotFound)
}
