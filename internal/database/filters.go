package database

import "github.com/example/signalcards/pkg/models"

// questionFilterClauses appends WHERE clauses for a session filter against a
// questions table aliased as q. The regulation clause implements the wildcard
// semantics: "all" (or empty) disables filtering, any other value also
// matches questions tagged "both" or left untagged.
func questionFilterClauses(where []string, args []interface{}, f models.SessionFilter) ([]string, []interface{}) {
	if f.Category != "" {
		where = append(where, "q.category = ?")
		args = append(args, f.Category)
	}
	if f.Subcategory != "" {
		where = append(where, "q.subcategory = ?")
		args = append(args, f.Subcategory)
	}
	if f.Regulation != "" && f.Regulation != models.RegulationAll {
		where = append(where, "(q.regulation = ? OR q.regulation = ? OR q.regulation = '')")
		args = append(args, f.Regulation, models.RegulationBoth)
	}
	return where, args
}
