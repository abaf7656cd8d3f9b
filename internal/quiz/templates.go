package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/AkmelFed12/quizgen/internal/extract"
	"github.com/AkmelFed12/quizgen/internal/model"
)

// Question type names
const (
	KindSurahNumber        = "surah-number"
	KindSurahPosition      = "surah-position"
	KindSurahVerseCount    = "surah-verse-count"
	KindSurahRevelation    = "surah-revelation"
	KindSurahName          = "surah-name"
	KindSurahPrevious      = "surah-previous"
	KindSurahNext          = "surah-next"
	KindVerseJuz           = "verse-juz"
	KindVersePage          = "verse-page"
	KindExcerptSurah       = "excerpt-surah"
	KindExcerptVerseNumber = "excerpt-verse-number"
)

// Decoy labels offered next to the two real revelation types
const (
	RevelationMixed         = "Mixed"
	RevelationIndeterminate = "Indeterminate"
)

// revelationChoices is the closed option set of revelation questions
var revelationChoices = []string{
	string(model.RevelationMeccan),
	string(model.RevelationMedinan),
	RevelationMixed,
	RevelationIndeterminate,
}

// ErrNoNeighbour is the skip reason for the first chapter's predecessor and
// the last chapter's successor
var ErrNoNeighbour = errors.New("no neighbouring chapter")

// proximity is how far excerpt-verse-number distractors stray from the answer
const proximity = 5

func chapterSource(number int) string {
	return fmt.Sprintf("Quran - Surah %d", number)
}

func verseSource(chapter, verse int) string {
	return fmt.Sprintf("Quran %d:%d", chapter, verse)
}

func build(text string, opts Options, source string, ref model.Ref) Candidate {
	return produced(model.Question{
		Text:         text,
		Options:      opts.Values,
		CorrectIndex: opts.CorrectIndex,
		Source:       source,
		Ref:          ref,
	})
}

func chapterNumber(format string) func(*rand.Rand, *env, model.Chapter) Candidate {
	return func(rng *rand.Rand, e *env, ch model.Chapter) Candidate {
		ref := model.Ref{Chapter: ch.Number}
		opts, err := NumberOptions(rng, ch.Number, 1, e.bounds.ChapterCount)
		if err != nil {
			return skipped(ref, err)
		}
		return build(fmt.Sprintf(format, ch.Name), opts, chapterSource(ch.Number), ref)
	}
}

func chapterVerseCount(format string) func(*rand.Rand, *env, model.Chapter) Candidate {
	return func(rng *rand.Rand, e *env, ch model.Chapter) Candidate {
		ref := model.Ref{Chapter: ch.Number}
		opts, err := NumberOptions(rng, len(ch.Verses), e.bounds.MinVerseCount, e.bounds.MaxVerseCount)
		if err != nil {
			return skipped(ref, err)
		}
		return build(fmt.Sprintf(format, ch.Name), opts, chapterSource(ch.Number), ref)
	}
}

func chapterRevelation(format string) func(*rand.Rand, *env, model.Chapter) Candidate {
	return func(rng *rand.Rand, e *env, ch model.Chapter) Candidate {
		ref := model.Ref{Chapter: ch.Number}
		opts, err := FixedOptions(rng, string(ch.Revelation), revelationChoices)
		if err != nil {
			return skipped(ref, err)
		}
		return build(fmt.Sprintf(format, ch.Name), opts, chapterSource(ch.Number), ref)
	}
}

func chapterName(format string) func(*rand.Rand, *env, model.Chapter) Candidate {
	return func(rng *rand.Rand, e *env, ch model.Chapter) Candidate {
		ref := model.Ref{Chapter: ch.Number}
		opts, err := NameOptions(rng, ch.Name, e.names)
		if err != nil {
			return skipped(ref, err)
		}
		return build(fmt.Sprintf(format, ch.Number), opts, chapterSource(ch.Number), ref)
	}
}

// chapterNeighbour asks for the chapter offset positions away in mushaf
// order: -1 for the one before, +1 for the one after.
func chapterNeighbour(format string, offset int) func(*rand.Rand, *env, model.Chapter) Candidate {
	return func(rng *rand.Rand, e *env, ch model.Chapter) Candidate {
		ref := model.Ref{Chapter: ch.Number}
		i := ch.Number - 1 + offset
		if i < 0 || i >= len(e.names) {
			return skipped(ref, fmt.Errorf("%w: surah %d", ErrNoNeighbour, ch.Number))
		}
		opts, err := NameOptions(rng, e.names[i], e.names)
		if err != nil {
			return skipped(ref, err)
		}
		return build(fmt.Sprintf(format, ch.Name), opts, chapterSource(ch.Number), ref)
	}
}

func verseJuz(format string) func(*rand.Rand, *env, model.VerseRecord) Candidate {
	return func(rng *rand.Rand, e *env, rec model.VerseRecord) Candidate {
		ref := model.Ref{Chapter: rec.ChapterNumber, Verse: rec.Number}
		opts, err := NumberOptions(rng, rec.Juz, 1, e.bounds.JuzCount)
		if err != nil {
			return skipped(ref, err)
		}
		return build(fmt.Sprintf(format, rec.Number, rec.ChapterName), opts, verseSource(rec.ChapterNumber, rec.Number), ref)
	}
}

func versePage(format string) func(*rand.Rand, *env, model.VerseRecord) Candidate {
	return func(rng *rand.Rand, e *env, rec model.VerseRecord) Candidate {
		ref := model.Ref{Chapter: rec.ChapterNumber, Verse: rec.Number}
		opts, err := NumberOptions(rng, rec.Page, 1, e.bounds.PageCount)
		if err != nil {
			return skipped(ref, err)
		}
		return build(fmt.Sprintf(format, rec.Number, rec.ChapterName), opts, verseSource(rec.ChapterNumber, rec.Number), ref)
	}
}

func excerptChapter(format string) func(*rand.Rand, *env, model.VerseRecord) Candidate {
	return func(rng *rand.Rand, e *env, rec model.VerseRecord) Candidate {
		ref := model.Ref{Chapter: rec.ChapterNumber, Verse: rec.Number}
		opts, err := NameOptions(rng, rec.ChapterName, e.names)
		if err != nil {
			return skipped(ref, err)
		}
		excerpt := extract.Excerpt(rec.Text, extract.ExcerptTokens)
		return build(fmt.Sprintf(format, excerpt), opts, verseSource(rec.ChapterNumber, rec.Number), ref)
	}
}

// excerptVerseNumber keeps distractors within proximity of the real verse
// number, widening to the whole chapter when that window is too small.
func excerptVerseNumber(format string) func(*rand.Rand, *env, model.VerseRecord) Candidate {
	return func(rng *rand.Rand, e *env, rec model.VerseRecord) Candidate {
		ref := model.Ref{Chapter: rec.ChapterNumber, Verse: rec.Number}

		lo := max(1, rec.Number-proximity)
		hi := min(rec.ChapterVerseCount, rec.Number+proximity)
		opts, err := NumberOptions(rng, rec.Number, lo, hi)
		if err != nil {
			opts, err = NumberOptions(rng, rec.Number, 1, rec.ChapterVerseCount)
		}
		if err != nil {
			return skipped(ref, err)
		}

		excerpt := extract.Excerpt(rec.Text, extract.ExcerptTokens)
		return build(fmt.Sprintf(format, rec.ChapterName, excerpt), opts, verseSource(rec.ChapterNumber, rec.Number), ref)
	}
}
