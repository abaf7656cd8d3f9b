package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/AkmelFed12/quizgen/internal/model"
)

const samplePayload = `{
  "code": 200,
  "status": "OK",
  "data": {
    "surahs": [
      {
        "number": 1,
        "englishName": "Al-Faatiha",
        "revelationType": "Meccan",
        "ayahs": [
          {"number": 1, "numberInSurah": 1, "juz": 1, "page": 1, "text": "bismi allahi", "sajda": false},
          {"number": 2, "numberInSurah": 2, "juz": 1, "page": 1, "text": "alhamdu lillahi"},
          {"number": 3, "numberInSurah": 3, "juz": 1, "page": 1, "text": "ar-rahmani ar-rahim"}
        ]
      },
      {
        "number": 2,
        "englishName": "Al-Baqara",
        "revelationType": "Medinan",
        "ayahs": [
          {"numberInSurah": 1, "juz": 1, "page": 2, "text": "alif lam mim"},
          {"numberInSurah": 2, "juz": 1, "page": 2, "text": "dhalika al-kitabu"},
          {"numberInSurah": 3, "juz": 2, "page": 3, "text": "alladhina yu'minuna"},
          {"numberInSurah": 4, "juz": 2, "page": 4, "text": "wa alladhina"},
          {"numberInSurah": 5, "juz": 3, "page": 5, "text": "ula'ika"}
        ]
      }
    ]
  }
}`

func TestDecodeCorpus_Valid(t *testing.T) {
	corpus, err := DecodeCorpus([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(corpus.Chapters) != 2 {
		t.Fatalf("Expected 2 chapters, got %d", len(corpus.Chapters))
	}

	first := corpus.Chapters[0]
	if first.Name != "Al-Faatiha" || first.Revelation != model.RevelationMeccan {
		t.Errorf("Unexpected first chapter: %+v", first)
	}
	if corpus.Chapters[1].Revelation != model.RevelationMedinan {
		t.Errorf("Expected Medinan, got %s", corpus.Chapters[1].Revelation)
	}
	if got := corpus.Chapters[1].Verses[2]; got.Chapter != 2 || got.Number != 3 || got.Juz != 2 || got.Page != 3 {
		t.Errorf("Unexpected verse: %+v", got)
	}
}

func TestDecodeCorpus_Bounds(t *testing.T) {
	corpus, err := DecodeCorpus([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := model.Bounds{
		ChapterCount:  2,
		VerseCount:    8,
		PageCount:     5,
		JuzCount:      3,
		MinVerseCount: 3,
		MaxVerseCount: 5,
	}
	if corpus.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", corpus.Bounds, want)
	}
}

func TestDecodeCorpus_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		contain string
	}{
		{
			name:    "invalid json",
			payload: `{"data":`,
			contain: "decode JSON",
		},
		{
			name:    "no chapters",
			payload: `{"data":{"surahs":[]}}`,
			contain: "no chapters",
		},
		{
			name:    "gap in chapter numbers",
			payload: `{"data":{"surahs":[{"number":2,"englishName":"X","revelationType":"Meccan","ayahs":[{"numberInSurah":1,"juz":1,"page":1,"text":"a"}]}]}}`,
			contain: "contiguous",
		},
		{
			name:    "empty name",
			payload: `{"data":{"surahs":[{"number":1,"englishName":"  ","revelationType":"Meccan","ayahs":[{"numberInSurah":1,"juz":1,"page":1,"text":"a"}]}]}}`,
			contain: "empty chapter name",
		},
		{
			name:    "unknown revelation",
			payload: `{"data":{"surahs":[{"number":1,"englishName":"X","revelationType":"Unknown","ayahs":[{"numberInSurah":1,"juz":1,"page":1,"text":"a"}]}]}}`,
			contain: "unknown revelation",
		},
		{
			name:    "no verses",
			payload: `{"data":{"surahs":[{"number":1,"englishName":"X","revelationType":"Meccan","ayahs":[]}]}}`,
			contain: "no verses",
		},
		{
			name:    "verse gap",
			payload: `{"data":{"surahs":[{"number":1,"englishName":"X","revelationType":"Meccan","ayahs":[{"numberInSurah":2,"juz":1,"page":1,"text":"a"}]}]}}`,
			contain: "1:2",
		},
		{
			name:    "missing page",
			payload: `{"data":{"surahs":[{"number":1,"englishName":"X","revelationType":"Meccan","ayahs":[{"numberInSurah":1,"juz":1,"text":"a"}]}]}}`,
			contain: "missing page",
		},
		{
			name:    "missing juz",
			payload: `{"data":{"surahs":[{"number":1,"englishName":"X","revelationType":"Meccan","ayahs":[{"numberInSurah":1,"page":1,"text":"a"}]}]}}`,
			contain: "missing juz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCorpus([]byte(tt.payload))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedCorpus) {
				t.Errorf("Expected ErrMalformedCorpus, got %v", err)
			}
			var corpusErr *CorpusError
			if !errors.As(err, &corpusErr) {
				t.Errorf("Expected *CorpusError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.contain) {
				t.Errorf("Expected error to contain %q, got %q", tt.contain, err.Error())
			}
		})
	}
}

func TestFlattenVerses(t *testing.T) {
	corpus, err := DecodeCorpus([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records := FlattenVerses(corpus)
	if len(records) != 8 {
		t.Fatalf("Expected 8 records, got %d", len(records))
	}

	last := records[7]
	if last.ChapterName != "Al-Baqara" || last.ChapterNumber != 2 || last.ChapterVerseCount != 5 || last.Number != 5 {
		t.Errorf("Unexpected record: %+v", last)
	}
	if last.Revelation != model.RevelationMedinan {
		t.Errorf("Expected revelation copied, got %s", last.Revelation)
	}
}

func TestExcerpt(t *testing.T) {
	twenty := "w1 w2 w3 w4 w5 w6 w7 w8 w9 w10 w11 w12 w13 w14 w15 w16 w17 w18 w19 w20"

	tests := []struct {
		name string
		text string
		want string
	}{
		{"short text unchanged", "one two three", "one two three"},
		{"exactly limit unchanged", "a b c d e f g h i j k l m n", "a b c d e f g h i j k l m n"},
		{"long text truncated", twenty, "w1 w2 w3 w4 w5 w6 w7 w8 w9 w10 w11 w12 w13 w14 ..."},
		{"whitespace collapsed when truncated", strings.Replace(twenty, " ", "  \t", 3), "w1 w2 w3 w4 w5 w6 w7 w8 w9 w10 w11 w12 w13 w14 ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.text, ExcerptTokens); got != tt.want {
				t.Errorf("Excerpt() = %q, want %q", got, tt.want)
			}
		})
	}
}
