package quiz

import (
	"math/rand/v2"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// Outcome tells whether a template produced a question for an entity
type Outcome int

const (
	Produced Outcome = iota
	Skipped
)

// Candidate is the result of applying one question type to one entity
type Candidate struct {
	Outcome  Outcome
	Question model.Question
	Reason   error // Why the candidate was skipped
}

func produced(q model.Question) Candidate {
	return Candidate{Outcome: Produced, Question: q}
}

func skipped(ref model.Ref, reason error) Candidate {
	return Candidate{
		Outcome:  Skipped,
		Question: model.Question{Ref: ref},
		Reason:   reason,
	}
}

// Scope is the kind of entity a question type is built from
type Scope int

const (
	ScopeChapter Scope = iota
	ScopeVerse
)

// env is the read-only state shared by every template of one pass
type env struct {
	bounds model.Bounds
	names  []string
}

// QuestionType pairs a text template with a distractor strategy. Build
// functions fill text, options and source; the generator stamps kind, tags
// and difficulty.
type QuestionType struct {
	Name  string
	Scope Scope
	Tags  []string

	// Sampled types honour a per-type record limit from Params.Sample
	Sampled bool

	chapter func(rng *rand.Rand, e *env, ch model.Chapter) Candidate
	verse   func(rng *rand.Rand, e *env, rec model.VerseRecord) Candidate
}

// Catalog returns the ordered question types of a difficulty tier. The order
// is part of the determinism contract: it fixes the sequence of RNG draws.
func Catalog(difficulty model.Difficulty) []QuestionType {
	if difficulty == model.DifficultyMedium {
		return mediumCatalog
	}
	return hardCatalog
}

var mediumCatalog = []QuestionType{
	{Name: KindSurahNumber, Scope: ScopeChapter, Tags: []string{"quran", "surah", "number"}, chapter: chapterNumber("What is the number of surah %s?")},
	{Name: KindSurahVerseCount, Scope: ScopeChapter, Tags: []string{"quran", "surah", "verses"}, chapter: chapterVerseCount("Surah %s has how many verses?")},
	{Name: KindSurahRevelation, Scope: ScopeChapter, Tags: []string{"quran", "surah", "revelation"}, chapter: chapterRevelation("Is surah %s Meccan or Medinan?")},
	{Name: KindSurahName, Scope: ScopeChapter, Tags: []string{"quran", "surah"}, chapter: chapterName("What is the name of surah number %d?")},
	{Name: KindSurahPrevious, Scope: ScopeChapter, Tags: []string{"quran", "surah", "order"}, chapter: chapterNeighbour("Which surah comes right before %s?", -1)},
	{Name: KindSurahNext, Scope: ScopeChapter, Tags: []string{"quran", "surah", "order"}, chapter: chapterNeighbour("Which surah comes right after %s?", +1)},
	{Name: KindVerseJuz, Scope: ScopeVerse, Tags: []string{"quran", "juz", "verse"}, Sampled: true, verse: verseJuz("Verse %d of surah %s belongs to which juz?")},
	{Name: KindVersePage, Scope: ScopeVerse, Tags: []string{"quran", "page", "verse"}, Sampled: true, verse: versePage("Verse %d of surah %s is on which page?")},
}

var hardCatalog = []QuestionType{
	{Name: KindExcerptSurah, Scope: ScopeVerse, Tags: []string{"quran", "surah", "excerpt"}, verse: excerptChapter("In which surah does the following excerpt appear: \"%s\"?")},
	{Name: KindVerseJuz, Scope: ScopeVerse, Tags: []string{"quran", "juz"}, verse: verseJuz("In which juz is verse %d of surah %s?")},
	{Name: KindVersePage, Scope: ScopeVerse, Tags: []string{"quran", "page"}, verse: versePage("On which page is verse %d of surah %s?")},
	{Name: KindSurahName, Scope: ScopeChapter, Tags: []string{"quran", "surah"}, chapter: chapterName("Which surah is number %d?")},
	{Name: KindSurahPosition, Scope: ScopeChapter, Tags: []string{"quran", "surah", "order"}, chapter: chapterNumber("Which position does surah %s hold in the mushaf order?")},
	{Name: KindSurahPrevious, Scope: ScopeChapter, Tags: []string{"quran", "surah", "order"}, chapter: chapterNeighbour("Which surah precedes %s in the order of the Quran?", -1)},
	{Name: KindSurahNext, Scope: ScopeChapter, Tags: []string{"quran", "surah", "order"}, chapter: chapterNeighbour("Which surah follows %s in the order of the Quran?", +1)},
	{Name: KindSurahVerseCount, Scope: ScopeChapter, Tags: []string{"quran", "surah", "verses"}, chapter: chapterVerseCount("How many verses does surah %s contain?")},
	{Name: KindSurahRevelation, Scope: ScopeChapter, Tags: []string{"quran", "surah", "revelation"}, chapter: chapterRevelation("What is the revelation type of surah %s?")},
	{Name: KindExcerptVerseNumber, Scope: ScopeVerse, Tags: []string{"quran", "verse", "excerpt"}, verse: excerptVerseNumber("What is the verse number of this excerpt in surah %s: \"%s\"?")},
}
