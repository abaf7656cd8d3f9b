package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// ErrInsufficient is wrapped by InsufficientError
var ErrInsufficient = errors.New("insufficient questions")

// InsufficientError reports a supply shortfall
type InsufficientError struct {
	Available int
	Requested int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("not enough questions generated: available %d, requested %d", e.Available, e.Requested)
}

func (e *InsufficientError) Unwrap() error {
	return ErrInsufficient
}

// Sample shuffles a copy of the whole set and returns its first n items.
// It never returns a partial result.
func Sample(rng *rand.Rand, questions []model.Question, n int) ([]model.Question, error) {
	if n < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", n)
	}
	if len(questions) < n {
		return nil, &InsufficientError{Available: len(questions), Requested: n}
	}

	shuffled := append([]model.Question(nil), questions...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n:n], nil
}
