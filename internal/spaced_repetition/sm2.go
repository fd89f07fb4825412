package spaced_repetition

import (
	"time"

	"github.com/example/signalcards/pkg/models"
)

// SM2 is the ease-factor scheduling strategy, modelled on SuperMemo-2.
// Intervals grow with an ease factor per card instead of the fixed box table.
// It still derives a box number from the interval so box-mode sessions keep
// working when this strategy is active.
type SM2 struct {
	// MinEaseFactor is the floor for the ease factor.
	MinEaseFactor float64
	// MaxIntervalDays caps interval growth.
	MaxIntervalDays int
}

// NewSM2 creates the ease-factor strategy with standard parameters.
func NewSM2() *SM2 {
	return &SM2{
		MinEaseFactor:   1.3,
		MaxIntervalDays: 365,
	}
}

// Initial seeds ease-factor state for a first answer. The starting interval
// mirrors the Leitner first-box defaults (3 days on a correct recall, 1 day
// otherwise) so the two strategies agree on a card's first due date.
func (s *SM2) Initial(p *models.Progress, score int, now time.Time) {
	p.BoxNumber = FirstBox(score)
	p.EaseFactor = s.nextEaseFactor(2.5, score)
	p.IntervalDays = boxIntervals[p.BoxNumber]
	p.NextReviewAt = now.AddDate(0, 0, p.IntervalDays)
}

// Advance applies the SM-2 update: failures reset the interval to one day and
// the card to box 1; successes grow the interval by the ease factor.
func (s *SM2) Advance(p *models.Progress, score int, now time.Time) {
	p.EaseFactor = s.nextEaseFactor(p.EaseFactor, score)

	if score < advanceThreshold {
		p.IntervalDays = 1
		p.BoxNumber = models.MinBox
		p.NextReviewAt = now.AddDate(0, 0, 1)
		return
	}

	interval := int(float64(p.IntervalDays) * p.EaseFactor)
	if interval <= p.IntervalDays {
		interval = p.IntervalDays + 1
	}
	if interval > s.MaxIntervalDays {
		interval = s.MaxIntervalDays
	}
	p.IntervalDays = interval
	p.BoxNumber = boxForInterval(interval)
	p.NextReviewAt = now.AddDate(0, 0, interval)
}

func (s *SM2) nextEaseFactor(ef float64, score int) float64 {
	q := float64(score)
	next := ef + (0.1 - (5.0-q)*(0.08+(5.0-q)*0.02))
	if next < s.MinEaseFactor {
		next = s.MinEaseFactor
	}
	return next
}

// boxForInterval maps an interval back onto the Leitner tiers using the same
// table that drives NextReviewDate.
func boxForInterval(days int) int {
	box := models.MinBox
	for b := models.MinBox; b <= models.MaxBox; b++ {
		if days >= boxIntervals[b] {
			box = b
		}
	}
	return box
}
