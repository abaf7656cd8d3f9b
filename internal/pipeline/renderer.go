package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// CSVHeader names the columns of the question file
var CSVHeader = []string{
	"question", "option1", "option2", "option3", "option4",
	"correct_index", "difficulty", "source", "tags", "status",
}

// tagSeparator joins the tag set into one column
const tagSeparator = ", "

// Renderer writes questions to disk
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Record returns the CSV row for q
func Record(q model.Question) []string {
	row := make([]string, 0, len(CSVHeader))
	row = append(row, q.Text)
	row = append(row, q.Options[:]...)
	row = append(row,
		strconv.Itoa(q.CorrectIndex),
		string(q.Difficulty),
		q.Source,
		strings.Join(q.Tags, tagSeparator),
		model.StatusValidated,
	)
	return row
}

// RenderCSV writes questions to path. Rows go to a temporary file in the
// same directory which is renamed over path once complete, so a failed
// write never leaves a partial file behind.
func (r *Renderer) RenderCSV(questions []model.Question, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(CSVHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, q := range questions {
		if err := w.Write(Record(q)); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush CSV: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}

	return nil
}
