package models

import "time"

// DateLayout is the calendar-date format used for streak bookkeeping.
// Day-streak math is date-granular, never time-granular.
const DateLayout = "2006-01-02"

// UserStats is the per-learner aggregate, created lazily on the first answer.
type UserStats struct {
	LearnerID        string    `json:"learner_id" db:"learner_id"`
	XP               int       `json:"xp" db:"xp"`
	TotalCorrect     int       `json:"total_correct" db:"total_correct"`
	TotalIncorrect   int       `json:"total_incorrect" db:"total_incorrect"`
	StreakDays       int       `json:"streak_days" db:"streak_days"`
	LastActivityDate string    `json:"last_activity_date" db:"last_activity_date"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// StatsDelta is one answer's contribution to a learner's aggregate stats.
// XP and the correct/incorrect counters are additive; StreakDays and
// ActivityDate are absolute values so same-day replays stay idempotent.
type StatsDelta struct {
	XP           int
	Correct      bool
	StreakDays   int
	ActivityDate string
}
