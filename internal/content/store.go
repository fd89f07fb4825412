// Package content defines the engine's view of the question/category content
// store. The store itself is an external collaborator; the relational
// implementation in internal/database satisfies Store.
package content

import (
	"context"

	"github.com/example/signalcards/pkg/models"
)

// Store is the read-side contract the scheduling engine consumes.
type Store interface {
	// List returns up to limit questions matching the filter.
	List(ctx context.Context, f models.SessionFilter, limit int) ([]models.Question, error)
	// GetByID returns one question, or database.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Question, error)
	// GetByIDs returns the named questions keyed by ID.
	GetByIDs(ctx context.Context, ids []string) (map[string]models.Question, error)
	// Unseen returns questions the learner has never answered.
	Unseen(ctx context.Context, learnerID string, f models.SessionFilter, limit int) ([]models.Question, error)
	// Categories returns per-category question counts.
	Categories(ctx context.Context) ([]models.CategoryCount, error)
}
