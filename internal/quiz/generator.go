package quiz

import (
	"fmt"
	"math/rand/v2"

	"github.com/AkmelFed12/quizgen/internal/extract"
	"github.com/AkmelFed12/quizgen/internal/model"
)

// pcgStream is the fixed second PCG word; only the seed varies between runs
const pcgStream = 0x9e3779b97f4a7c15

// NewRand returns the run's random source for seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), pcgStream))
}

// Params are the inputs of one generation pass
type Params struct {
	Count      int
	Difficulty model.Difficulty
	Seed       int64

	// Sample limits how many verse records a sampled question type uses,
	// keyed by type name. Zero or absent means every record.
	Sample map[string]int
}

// Result is the outcome of a successful pass
type Result struct {
	Questions []model.Question
	Stats     Stats
	PerKind   map[string]int // Accepted questions per type
}

// Generate runs every question type of the tier over the corpus, collects
// the candidates and samples Count of them. All randomness comes from one
// generator seeded with Params.Seed, consumed in catalog order.
func Generate(corpus *model.Corpus, params Params) (Result, error) {
	if corpus == nil || len(corpus.Chapters) == 0 {
		return Result{}, fmt.Errorf("empty corpus")
	}
	if params.Count < 0 {
		return Result{}, fmt.Errorf("count must not be negative, got %d", params.Count)
	}
	if params.Difficulty != model.DifficultyMedium && params.Difficulty != model.DifficultyHard {
		return Result{}, fmt.Errorf("unknown difficulty %q", params.Difficulty)
	}

	rng := NewRand(params.Seed)
	e := &env{
		bounds: corpus.Bounds,
		names:  corpus.ChapterNames(),
	}
	records := extract.FlattenVerses(corpus)
	window := &sampleWindow{records: records}

	collector := NewCollector()
	perKind := make(map[string]int)

	for _, qt := range Catalog(params.Difficulty) {
		offer := func(cand Candidate) {
			cand.Question.Kind = qt.Name
			cand.Question.Tags = qt.Tags
			cand.Question.Difficulty = params.Difficulty
			if collector.Offer(cand) == Accepted {
				perKind[qt.Name]++
			}
		}

		switch qt.Scope {
		case ScopeChapter:
			for _, ch := range corpus.Chapters {
				offer(qt.chapter(rng, e, ch))
			}
		case ScopeVerse:
			subset := records
			if qt.Sampled {
				subset = window.take(rng, params.Sample[qt.Name])
			}
			for _, rec := range subset {
				offer(qt.verse(rng, e, rec))
			}
		}
	}

	questions, err := Sample(rng, collector.Questions(), params.Count)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Questions: questions,
		Stats:     collector.Stats(),
		PerKind:   perKind,
	}, nil
}

// sampleWindow hands out disjoint slices of one shuffled copy of the verse
// records. The shuffle happens on the first limited request, so passes
// without sample limits draw nothing extra from the generator.
type sampleWindow struct {
	records  []model.VerseRecord
	shuffled []model.VerseRecord
	offset   int
}

func (w *sampleWindow) take(rng *rand.Rand, n int) []model.VerseRecord {
	if n <= 0 {
		return w.records
	}
	if w.shuffled == nil {
		w.shuffled = append([]model.VerseRecord(nil), w.records...)
		rng.Shuffle(len(w.shuffled), func(i, j int) {
			w.shuffled[i], w.shuffled[j] = w.shuffled[j], w.shuffled[i]
		})
	}

	start := min(w.offset, len(w.shuffled))
	end := min(start+n, len(w.shuffled))
	w.offset = end
	return w.shuffled[start:end]
}
