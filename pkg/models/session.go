package models

// SessionMode selects how a study session is composed.
type SessionMode string

const (
	// ModeReview serves due cards first, topped up with never-seen questions.
	ModeReview SessionMode = "review"
	// ModePractice ignores due dates and persists nothing.
	ModePractice SessionMode = "practice"
	// ModeBoxes serves only cards currently in one Leitner box.
	ModeBoxes SessionMode = "boxes"
	// ModeGuest is practice for callers without a learner identity.
	ModeGuest SessionMode = "guest"
)

// IsValid reports whether m is a known session mode.
func (m SessionMode) IsValid() bool {
	switch m {
	case ModeReview, ModePractice, ModeBoxes, ModeGuest:
		return true
	}
	return false
}

// Persistent reports whether answers submitted in this mode update progress.
func (m SessionMode) Persistent() bool {
	return m == ModeReview || m == ModeBoxes
}

// SessionFilter narrows the question pool. Empty fields mean no filtering;
// the regulation field additionally understands the "all" wildcard.
type SessionFilter struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Regulation  string `json:"regulation"`
}

// SessionOptions describes one session request.
type SessionOptions struct {
	Mode      SessionMode   `json:"mode"`
	Filter    SessionFilter `json:"filter"`
	BoxNumber int           `json:"box_number,omitempty"`
	BatchSize int           `json:"batch_size"`
}

// SessionQuestion pairs a question with the learner's progress on it.
// Progress is nil for questions the learner has never answered.
type SessionQuestion struct {
	Question Question  `json:"question"`
	Progress *Progress `json:"progress,omitempty"`
}
