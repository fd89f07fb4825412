package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/signalcards/pkg/models"
)

// QuestionRepository is the relational implementation of the content store
// consumed by the scheduling engine. The engine only reads questions; Create
// exists for the xlsx importer.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new repository instance.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// questionRow mirrors the questions table; answers are stored as JSON text.
type questionRow struct {
	ID          string    `db:"id"`
	Category    string    `db:"category"`
	Subcategory string    `db:"subcategory"`
	Regulation  string    `db:"regulation"`
	Difficulty  int       `db:"difficulty"`
	Prompt      string    `db:"prompt"`
	Answers     string    `db:"answers"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row *questionRow) toModel() (models.Question, error) {
	q := models.Question{
		ID:          row.ID,
		Category:    row.Category,
		Subcategory: row.Subcategory,
		Regulation:  row.Regulation,
		Difficulty:  row.Difficulty,
		Prompt:      row.Prompt,
	}
	if row.Answers != "" {
		if err := json.Unmarshal([]byte(row.Answers), &q.Answers); err != nil {
			return q, fmt.Errorf("failed to decode answers for question %s: %w", row.ID, err)
		}
	}
	return q, nil
}

func rowsToModels(rows []questionRow) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(rows))
	for i := range rows {
		q, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// List returns up to limit questions matching the filter in random order.
// Random order keeps practice sessions varied between calls.
func (r *QuestionRepository) List(ctx context.Context, f models.SessionFilter, limit int) ([]models.Question, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}
	where, args = questionFilterClauses(where, args, f)
	args = append(args, limit)

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT q.* FROM questions q
		WHERE %s
		ORDER BY RANDOM()
		LIMIT ?
	`, strings.Join(where, " AND ")))

	var rows []questionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return rowsToModels(rows)
}

// GetByID returns a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	query := r.db.Rebind(`SELECT * FROM questions WHERE id = ?`)
	var row questionRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	q, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetByIDs returns the questions with the given IDs keyed by ID. Missing IDs
// are simply absent from the result.
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.Question, error) {
	if len(ids) == 0 {
		return map[string]models.Question{}, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM questions WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build question lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []questionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	result := make(map[string]models.Question, len(rows))
	for i := range rows {
		q, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		result[q.ID] = q
	}
	return result, nil
}

// Unseen returns questions the learner has no progress row for, used to top
// up review sessions with new cards.
func (r *QuestionRepository) Unseen(ctx context.Context, learnerID string, f models.SessionFilter, limit int) ([]models.Question, error) {
	where := []string{
		`NOT EXISTS (
			SELECT 1 FROM progress p
			WHERE p.learner_id = ? AND p.question_id = q.id
		)`,
	}
	args := []interface{}{learnerID}
	where, args = questionFilterClauses(where, args, f)
	args = append(args, limit)

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT q.* FROM questions q
		WHERE %s
		ORDER BY q.id
		LIMIT ?
	`, strings.Join(where, " AND ")))

	var rows []questionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get unseen questions: %w", err)
	}
	return rowsToModels(rows)
}

// Categories returns the per-category question counts.
func (r *QuestionRepository) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*) AS questions
		FROM questions
		GROUP BY category
		ORDER BY category
	`
	var counts []models.CategoryCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	return counts, nil
}

// Create inserts a question (importer path).
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	answers, err := json.Marshal(q.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	now := time.Now().UTC()
	query := r.db.Rebind(`
		INSERT INTO questions (
			id, category, subcategory, regulation,
			difficulty, prompt, answers, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(ctx, query,
		q.ID,
		q.Category,
		q.Subcategory,
		q.Regulation,
		q.Difficulty,
		q.Prompt,
		string(answers),
		now,
		now,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}
