package quiz

import (
	"strings"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// Verdict is the collector's decision on one candidate
type Verdict int

const (
	Accepted Verdict = iota
	RejectedSkipped
	RejectedMalformed
	RejectedDuplicate
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedSkipped:
		return "skipped"
	case RejectedMalformed:
		return "malformed"
	case RejectedDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Stats counts collector verdicts
type Stats struct {
	Accepted  int `json:"accepted"`
	Skipped   int `json:"skipped"`
	Malformed int `json:"malformed"`
	Duplicate int `json:"duplicate"`
}

// Offered returns the total number of candidates seen
func (s Stats) Offered() int {
	return s.Accepted + s.Skipped + s.Malformed + s.Duplicate
}

// Collector accumulates accepted questions in insertion order. Rejections
// are counted, never returned as errors.
type Collector struct {
	seen      map[string]struct{}
	questions []model.Question
	stats     Stats
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// Offer accepts or rejects a candidate
func (c *Collector) Offer(cand Candidate) Verdict {
	if cand.Outcome != Produced {
		c.stats.Skipped++
		return RejectedSkipped
	}

	q := cand.Question
	if !wellFormed(q) {
		c.stats.Malformed++
		return RejectedMalformed
	}

	key := NormalizeText(q.Text)
	if _, ok := c.seen[key]; ok {
		c.stats.Duplicate++
		return RejectedDuplicate
	}

	c.seen[key] = struct{}{}
	c.questions = append(c.questions, q)
	c.stats.Accepted++
	return Accepted
}

// Questions returns the accepted questions in insertion order
func (c *Collector) Questions() []model.Question {
	return c.questions
}

// Stats returns the verdict counters
func (c *Collector) Stats() Stats {
	return c.stats
}

// NormalizeText case-folds and collapses whitespace. Two questions with the
// same normalized text are the same question.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func wellFormed(q model.Question) bool {
	if q.CorrectIndex < 0 || q.CorrectIndex >= model.OptionCount {
		return false
	}
	for _, opt := range q.Options {
		if opt == "" {
			return false
		}
	}
	return distinctStrings(q.Options[:])
}
