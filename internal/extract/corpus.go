package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// ErrMalformedCorpus is wrapped by every CorpusError
var ErrMalformedCorpus = errors.New("malformed corpus")

// CorpusError describes why a corpus payload was rejected
type CorpusError struct {
	Chapter int    // Offending chapter number, 0 if not chapter-specific
	Verse   int    // Offending verse number, 0 if not verse-specific
	Message string
	Err     error
}

func (e *CorpusError) Error() string {
	switch {
	case e.Verse > 0:
		return fmt.Sprintf("malformed corpus at %d:%d: %s", e.Chapter, e.Verse, e.Message)
	case e.Chapter > 0:
		return fmt.Sprintf("malformed corpus at chapter %d: %s", e.Chapter, e.Message)
	default:
		return fmt.Sprintf("malformed corpus: %s", e.Message)
	}
}

func (e *CorpusError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedCorpus
}

// payload mirrors the alquran.cloud edition response
type payload struct {
	Data struct {
		Surahs []surah `json:"surahs"`
	} `json:"data"`
}

type surah struct {
	Number         int    `json:"number"`
	EnglishName    string `json:"englishName"`
	RevelationType string `json:"revelationType"`
	Ayahs          []ayah `json:"ayahs"`
}

type ayah struct {
	NumberInSurah int    `json:"numberInSurah"`
	Juz           int    `json:"juz"`
	Page          int    `json:"page"`
	Text          string `json:"text"`
}

// DecodeCorpus parses an alquran.cloud payload, validates it and returns
// the corpus with its bounds derived.
func DecodeCorpus(data []byte) (*model.Corpus, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &CorpusError{Message: "decode JSON", Err: fmt.Errorf("%w: %v", ErrMalformedCorpus, err)}
	}

	if len(p.Data.Surahs) == 0 {
		return nil, &CorpusError{Message: "no chapters found"}
	}

	chapters := make([]model.Chapter, 0, len(p.Data.Surahs))
	for i, s := range p.Data.Surahs {
		ch, err := convertSurah(i+1, s)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, ch)
	}

	return model.NewCorpus(chapters), nil
}

func convertSurah(expected int, s surah) (model.Chapter, error) {
	if s.Number != expected {
		return model.Chapter{}, &CorpusError{
			Chapter: s.Number,
			Message: fmt.Sprintf("chapter numbers must be contiguous from 1, expected %d", expected),
		}
	}

	name := strings.TrimSpace(s.EnglishName)
	if name == "" {
		return model.Chapter{}, &CorpusError{Chapter: s.Number, Message: "empty chapter name"}
	}

	revelation, err := parseRevelation(s.RevelationType)
	if err != nil {
		return model.Chapter{}, &CorpusError{Chapter: s.Number, Message: err.Error()}
	}

	if len(s.Ayahs) == 0 {
		return model.Chapter{}, &CorpusError{Chapter: s.Number, Message: "chapter has no verses"}
	}

	verses := make([]model.Verse, 0, len(s.Ayahs))
	for j, a := range s.Ayahs {
		if a.NumberInSurah != j+1 {
			return model.Chapter{}, &CorpusError{
				Chapter: s.Number,
				Verse:   a.NumberInSurah,
				Message: fmt.Sprintf("verse numbers must be contiguous from 1, expected %d", j+1),
			}
		}
		if a.Page < 1 {
			return model.Chapter{}, &CorpusError{Chapter: s.Number, Verse: a.NumberInSurah, Message: "missing page"}
		}
		if a.Juz < 1 {
			return model.Chapter{}, &CorpusError{Chapter: s.Number, Verse: a.NumberInSurah, Message: "missing juz"}
		}
		verses = append(verses, model.Verse{
			Chapter: s.Number,
			Number:  a.NumberInSurah,
			Page:    a.Page,
			Juz:     a.Juz,
			Text:    a.Text,
		})
	}

	return model.Chapter{
		Number:     s.Number,
		Name:       name,
		Revelation: revelation,
		Verses:     verses,
	}, nil
}

// parseRevelation maps the source's revelationType onto the two known values
func parseRevelation(raw string) (model.Revelation, error) {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(lowered, "meccan"):
		return model.RevelationMeccan, nil
	case strings.HasPrefix(lowered, "medinan"):
		return model.RevelationMedinan, nil
	default:
		return "", fmt.Errorf("unknown revelation type %q", raw)
	}
}
