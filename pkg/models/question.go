package models

// Question categories form a small closed set mirroring the exam syllabus.
const (
	CategorySignals        = "signals"
	CategoryOperations     = "operations"
	CategoryProtection     = "protection"
	CategoryInfrastructure = "infrastructure"
)

// Regulation sentinel values. A question tagged "both" (or left untagged)
// applies to every regulation; a filter of "all" disables regulation
// filtering entirely.
const (
	RegulationAll  = "all"
	RegulationBoth = "both"
)

// ValidCategories lists every allowed question category.
var ValidCategories = []string{
	CategorySignals,
	CategoryOperations,
	CategoryProtection,
	CategoryInfrastructure,
}

// IsValidCategory reports whether c is one of the known categories.
func IsValidCategory(c string) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Answer is one answer option of a question.
type Answer struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is a flashcard question owned by the content store. The scheduling
// engine only reads questions; creation and editing happen elsewhere.
type Question struct {
	ID          string   `json:"id" db:"id"`
	Category    string   `json:"category" db:"category"`
	Subcategory string   `json:"subcategory" db:"subcategory"`
	Regulation  string   `json:"regulation" db:"regulation"`
	Difficulty  int      `json:"difficulty" db:"difficulty"`
	Prompt      string   `json:"prompt" db:"prompt"`
	Answers     []Answer `json:"answers" db:"-"`
}

// MatchesRegulation reports whether the question passes the given regulation
// filter. "all" (or an empty filter) matches everything; otherwise a question
// matches when its tag equals the filter, equals "both", or is absent.
func (q *Question) MatchesRegulation(filter string) bool {
	if filter == "" || filter == RegulationAll {
		return true
	}
	return q.Regulation == "" || q.Regulation == RegulationBoth || q.Regulation == filter
}

// CategoryCount is a per-category question tally used by the category browser.
type CategoryCount struct {
	Category  string `json:"category" db:"category"`
	Questions int    `json:"questions" db:"questions"`
}
