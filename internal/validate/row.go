package validate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// minColumns is question, four options, correct index and difficulty
const minColumns = 7

// ErrInvalidRow is wrapped by every RowError
var ErrInvalidRow = errors.New("invalid row")

// importDifficulties are the labels the database accepts
var importDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// RowError describes a rejected CSV row
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

func (e *RowError) Unwrap() error {
	return ErrInvalidRow
}

// Row validates one CSV record. Values are trimmed; the difficulty is
// lower-cased.
func Row(values []string) (model.ImportRow, error) {
	if len(values) < minColumns {
		return model.ImportRow{}, &RowError{Reason: fmt.Sprintf("expected at least %d columns, got %d", minColumns, len(values))}
	}

	trimmed := make([]string, minColumns)
	for i := range trimmed {
		trimmed[i] = strings.TrimSpace(values[i])
	}

	if trimmed[0] == "" {
		return model.ImportRow{}, &RowError{Reason: "empty question"}
	}

	correct, err := strconv.Atoi(trimmed[5])
	if err != nil || correct < 0 || correct >= model.OptionCount {
		return model.ImportRow{}, &RowError{Reason: fmt.Sprintf("correct index %q not in 0..3", trimmed[5])}
	}

	difficulty := strings.ToLower(trimmed[6])
	if !importDifficulties[difficulty] {
		return model.ImportRow{}, &RowError{Reason: fmt.Sprintf("unknown difficulty %q", trimmed[6])}
	}

	return model.ImportRow{
		Text:         trimmed[0],
		Options:      append([]string(nil), trimmed[1:5]...),
		CorrectIndex: correct,
		Difficulty:   difficulty,
	}, nil
}

// ImportSet is the result of reading a question CSV for import
type ImportSet struct {
	Rows     []model.ImportRow
	Rejected []*RowError
}

// Skipped returns the number of rejected rows
func (s *ImportSet) Skipped() int {
	return len(s.Rejected)
}

// ReadImportCSV parses r, skipping a leading header row, and validates every
// record. Invalid rows are collected, not fatal; malformed CSV is.
func ReadImportCSV(r io.Reader) (*ImportSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	set := &ImportSet{}
	first := true
	for {
		values, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if len(values) > 0 && strings.TrimSpace(values[0]) == "question" {
				continue
			}
		}

		row, err := Row(values)
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				rowErr.Line = line
				set.Rejected = append(set.Rejected, rowErr)
				continue
			}
			return nil, err
		}
		set.Rows = append(set.Rows, row)
	}

	return set, nil
}
