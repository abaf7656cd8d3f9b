package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// ErrInfeasibleDomain means four distinct options cannot be drawn from the domain
var ErrInfeasibleDomain = errors.New("infeasible distractor domain")

// Options is a shuffled option set with the position of the correct answer
type Options struct {
	Values       [model.OptionCount]string
	CorrectIndex int
}

// NumberOptions draws four distinct integers from [lo, hi] that include
// correct. Distractors are uniform over the range, so callers wanting
// nearby values narrow the range themselves.
func NumberOptions(rng *rand.Rand, correct, lo, hi int) (Options, error) {
	if lo > hi {
		lo, hi = hi, lo
	}
	if size := hi - lo + 1; size < model.OptionCount {
		return Options{}, fmt.Errorf("%w: range [%d, %d] holds %d values", ErrInfeasibleDomain, lo, hi, size)
	}

	picked := sampleRange(rng, lo, hi, model.OptionCount)
	if !containsInt(picked, correct) {
		picked[rng.IntN(len(picked))] = correct
		if !distinctInts(picked) {
			return Options{}, fmt.Errorf("%w: overwrite of %d collapsed options", ErrInfeasibleDomain, correct)
		}
	}

	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	var opts Options
	for i, v := range picked {
		opts.Values[i] = strconv.Itoa(v)
		if v == correct {
			opts.CorrectIndex = i
		}
	}
	return opts, nil
}

// NameOptions builds four distinct options from correct plus uniform draws
// from domain. The domain may repeat values; it must hold at least three
// distinct values other than correct.
func NameOptions(rng *rand.Rand, correct string, domain []string) (Options, error) {
	if n := distinctWith(domain, correct); n < model.OptionCount {
		return Options{}, fmt.Errorf("%w: %d distinct names available", ErrInfeasibleDomain, n)
	}

	picked := make([]string, 1, model.OptionCount)
	picked[0] = correct
	for len(picked) < model.OptionCount {
		candidate := domain[rng.IntN(len(domain))]
		if !containsString(picked, candidate) {
			picked = append(picked, candidate)
		}
	}

	return shuffleStrings(rng, picked, correct), nil
}

// FixedOptions shuffles a closed set of exactly four distinct choices
// that contains correct.
func FixedOptions(rng *rand.Rand, correct string, choices []string) (Options, error) {
	if len(choices) != model.OptionCount || !distinctStrings(choices) {
		return Options{}, fmt.Errorf("%w: closed set needs %d distinct choices", ErrInfeasibleDomain, model.OptionCount)
	}
	if !containsString(choices, correct) {
		return Options{}, fmt.Errorf("%w: %q is not one of the choices", ErrInfeasibleDomain, correct)
	}

	picked := append([]string(nil), choices...)
	return shuffleStrings(rng, picked, correct), nil
}

func shuffleStrings(rng *rand.Rand, picked []string, correct string) Options {
	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	var opts Options
	for i, v := range picked {
		opts.Values[i] = v
		if v == correct {
			opts.CorrectIndex = i
		}
	}
	return opts
}

// sampleRange draws k distinct values uniformly from [lo, hi] with a
// partial Fisher-Yates shuffle
func sampleRange(rng *rand.Rand, lo, hi, k int) []int {
	pool := make([]int, hi-lo+1)
	for i := range pool {
		pool[i] = lo + i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return append([]int(nil), pool[:k]...)
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func distinctInts(values []int) bool {
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func distinctStrings(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// distinctWith counts the distinct values of domain plus extra
func distinctWith(domain []string, extra string) int {
	seen := make(map[string]struct{}, len(domain)+1)
	seen[extra] = struct{}{}
	for _, v := range domain {
		seen[v] = struct{}{}
	}
	return len(seen)
}
