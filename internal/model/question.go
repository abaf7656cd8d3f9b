package model

import (
	"fmt"
	"strings"
)

// Difficulty is the label written with each question. Medium is the
// standard tier, hard the elevated one.
type Difficulty string

const (
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts the two labels plus the tier aliases
// "standard" and "elevated".
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medium", "standard":
		return DifficultyMedium, nil
	case "hard", "elevated":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (supported: hard, medium)", s)
	}
}

// OptionCount is the number of answer options per question
const OptionCount = 4

// Ref points back at the corpus entity a question was built from.
// Verse is zero for chapter-level questions.
type Ref struct {
	Chapter int
	Verse   int
}

// Question is a single multiple-choice item
type Question struct {
	Text         string
	Options      [OptionCount]string
	CorrectIndex int
	Difficulty   Difficulty
	Source       string   // Citation, e.g. "Quran 2:255"
	Tags         []string // Free-text classification tags

	Kind string // Question type that produced it (not serialized)
	Ref  Ref    // Source entity (not serialized)
}

// CorrectAnswer returns the option at CorrectIndex
func (q Question) CorrectAnswer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// StatusValidated is the constant status column written for generated rows
const StatusValidated = "validated"

// ImportRow is a validated CSV row ready for database insertion
type ImportRow struct {
	Text         string
	Options      []string
	CorrectIndex int
	Difficulty   string
}
