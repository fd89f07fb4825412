// Package excel bulk-loads the question bank from a spreadsheet. Expected
// columns: category, subcategory, regulation, difficulty, prompt, then
// alternating answer text / correctness marker ("x" marks a correct answer).
package excel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/example/signalcards/pkg/models"
)

// QuestionWriter is the write side of the content store used by the import.
type QuestionWriter interface {
	Create(ctx context.Context, q *models.Question) error
}

// ImportConfig defines how the spreadsheet is read.
type ImportConfig struct {
	// SheetName of the sheet to import; empty means the first sheet.
	SheetName string
	// SkipHeader skips the first row.
	SkipHeader bool
}

// DefaultImportConfig returns the standard layout: first sheet, header row.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{SkipHeader: true}
}

// ImportResult summarises one import run.
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Importer reads question rows from an xlsx file into the content store.
type Importer struct {
	store  QuestionWriter
	config ImportConfig
}

// NewImporter creates an importer with the given configuration.
func NewImporter(store QuestionWriter, config ImportConfig) *Importer {
	return &Importer{store: store, config: config}
}

// ImportFile reads every row of the configured sheet and creates a question
// per valid row. Rows with problems are skipped and reported in the result,
// not fatal to the run.
func (im *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := im.config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 && im.config.SkipHeader {
			continue
		}
		result.TotalProcessed++

		q, err := parseRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if err := im.store.Create(ctx, q); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

// parseRow converts one spreadsheet row to a question. Layout:
// A category, B subcategory, C regulation, D difficulty, E prompt,
// then pairs of (answer text, "x" if correct).
func parseRow(row []string) (*models.Question, error) {
	if len(row) < 5 {
		return nil, fmt.Errorf("expected at least 5 columns, got %d", len(row))
	}
	category := strings.TrimSpace(row[0])
	if !models.IsValidCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	prompt := strings.TrimSpace(row[4])
	if prompt == "" {
		return nil, fmt.Errorf("empty prompt")
	}

	difficulty := 1
	if v := strings.TrimSpace(row[3]); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("bad difficulty %q", v)
		}
		difficulty = d
	}

	var answers []models.Answer
	for col := 5; col+1 < len(row); col += 2 {
		text := strings.TrimSpace(row[col])
		if text == "" {
			continue
		}
		answers = append(answers, models.Answer{
			Text:      text,
			IsCorrect: strings.EqualFold(strings.TrimSpace(row[col+1]), "x"),
		})
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("no answers")
	}

	return &models.Question{
		ID:          uuid.NewString(),
		Category:    category,
		Subcategory: strings.TrimSpace(row[1]),
		Regulation:  strings.TrimSpace(row[2]),
		Difficulty:  difficulty,
		Prompt:      prompt,
		Answers:     answers,
	}, nil
}
