package models

import "time"

// Score bounds for a recall rating. Scores of CorrectThreshold and above are
// treated as a correct recall throughout the engine.
const (
	MinScore         = 0
	MaxScore         = 5
	CorrectThreshold = 4
)

// Box bounds of the Leitner system (1 = weakest, 5 = strongest).
const (
	MinBox = 1
	MaxBox = 5
)

// IsValidScore reports whether score is inside the 0-5 recall scale.
func IsValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// Progress is the per-(learner, question) mastery record. Exactly one record
// exists per pair; the store enforces this with a unique constraint.
//
// IntervalDays and EaseFactor are only maintained by the ease-factor
// scheduling strategy and keep their defaults under the Leitner strategy.
type Progress struct {
	ID              int64     `json:"id" db:"id"`
	LearnerID       string    `json:"learner_id" db:"learner_id"`
	QuestionID      string    `json:"question_id" db:"question_id"`
	BoxNumber       int       `json:"box_number" db:"box_number"`
	LastScore       int       `json:"last_score" db:"last_score"`
	IntervalDays    int       `json:"interval_days" db:"interval_days"`
	EaseFactor      float64   `json:"ease_factor" db:"ease_factor"`
	LastReviewedAt  time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	NextReviewAt    time.Time `json:"next_review_at" db:"next_review_at"`
	Streak          int       `json:"streak" db:"streak"`
	RepetitionCount int       `json:"repetition_count" db:"repetition_count"`
	CorrectCount    int       `json:"correct_count" db:"correct_count"`
	IncorrectCount  int       `json:"incorrect_count" db:"incorrect_count"`
	Version         int64     `json:"-" db:"version"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// IsDue reports whether the card is due for review at the given time.
func (p *Progress) IsDue(now time.Time) bool {
	return !p.NextReviewAt.After(now)
}
