package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/signalcards/pkg/models"
)

type collectingStore struct {
	created []models.Question
}

func (c *collectingStore) Create(_ context.Context, q *models.Question) error {
	c.created = append(c.created, *q)
	return nil
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "questions.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportFile(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"category", "subcategory", "regulation", "difficulty", "prompt", "a1", "correct", "a2", "correct"},
		{models.CategorySignals, "main signals", "ds301", 2, "What does Hp 0 mean?", "Stop", "x", "Proceed", ""},
		{models.CategoryOperations, "", "both", "", "Who authorises a departure?", "The dispatcher", "x", "The driver", ""},
	})

	store := &collectingStore{}
	importer := NewImporter(store, DefaultImportConfig())

	result, err := importer.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Zero(t, result.Skipped)
	require.Len(t, store.created, 2)

	first := store.created[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, models.CategorySignals, first.Category)
	assert.Equal(t, "main signals", first.Subcategory)
	assert.Equal(t, "ds301", first.Regulation)
	assert.Equal(t, 2, first.Difficulty)
	require.Len(t, first.Answers, 2)
	assert.True(t, first.Answers[0].IsCorrect)
	assert.False(t, first.Answers[1].IsCorrect)

	second := store.created[1]
	assert.Equal(t, 1, second.Difficulty, "missing difficulty defaults to 1")
	assert.Equal(t, models.RegulationBoth, second.Regulation)
}

func TestImportFileSkipsBadRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"category", "subcategory", "regulation", "difficulty", "prompt", "a1", "correct"},
		{"cooking", "", "", 1, "Bad category", "yes", "x"},
		{models.CategorySignals, "", "", 1, "", "no prompt", "x"},
		{models.CategorySignals, "", "", 1, "No answers at all"},
		{models.CategorySignals, "", "", 1, "Valid", "yes", "x"},
	})

	store := &collectingStore{}
	importer := NewImporter(store, DefaultImportConfig())

	result, err := importer.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, result.Errors, 3)
}

func TestImportFileMissing(t *testing.T) {
	importer := NewImporter(&collectingStore{}, DefaultImportConfig())
	_, err := importer.ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}
