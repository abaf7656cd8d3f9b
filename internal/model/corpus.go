package model

// Revelation classifies a surah by where it was revealed
type Revelation string

const (
	RevelationMeccan  Revelation = "Meccan"
	RevelationMedinan Revelation = "Medinan"
)

// Chapter is one surah of the corpus
type Chapter struct {
	Number     int        `json:"number"`     // 1-based position in the mushaf
	Name       string     `json:"name"`       // Transliterated English name (e.g. "Al-Baqara")
	Revelation Revelation `json:"revelation"` // Meccan or Medinan
	Verses     []Verse    `json:"verses"`     // Ayahs in order
}

// Verse is one ayah. Chapter is the parent surah number, not an owning pointer.
type Verse struct {
	Chapter int    `json:"chapter"`
	Number  int    `json:"number"` // Position inside the surah (1-based)
	Page    int    `json:"page"`   // Mushaf page
	Juz     int    `json:"juz"`    // Juz (segment) index
	Text    string `json:"text"`
}

// Bounds holds the corpus-wide value ranges used as distractor domains.
// They are computed once by NewCorpus.
type Bounds struct {
	ChapterCount  int `json:"chapter_count"`
	VerseCount    int `json:"verse_count"`
	PageCount     int `json:"page_count"`
	JuzCount      int `json:"juz_count"`
	MinVerseCount int `json:"min_verse_count"` // Fewest verses in a single chapter
	MaxVerseCount int `json:"max_verse_count"` // Most verses in a single chapter
}

// Corpus is the loaded, read-only source dataset
type Corpus struct {
	Chapters []Chapter `json:"chapters"`
	Bounds   Bounds    `json:"bounds"`
}

// NewCorpus wraps chapters and derives their bounds
func NewCorpus(chapters []Chapter) *Corpus {
	return &Corpus{
		Chapters: chapters,
		Bounds:   deriveBounds(chapters),
	}
}

func deriveBounds(chapters []Chapter) Bounds {
	b := Bounds{ChapterCount: len(chapters)}

	for i, ch := range chapters {
		n := len(ch.Verses)
		b.VerseCount += n
		if i == 0 || n < b.MinVerseCount {
			b.MinVerseCount = n
		}
		if n > b.MaxVerseCount {
			b.MaxVerseCount = n
		}

		for _, v := range ch.Verses {
			if v.Page > b.PageCount {
				b.PageCount = v.Page
			}
			if v.Juz > b.JuzCount {
				b.JuzCount = v.Juz
			}
		}
	}

	return b
}

// ChapterNames returns every chapter name in corpus order
func (c *Corpus) ChapterNames() []string {
	names := make([]string, len(c.Chapters))
	for i, ch := range c.Chapters {
		names[i] = ch.Name
	}
	return names
}

// Chapter returns the chapter with the given number
func (c *Corpus) Chapter(number int) (Chapter, bool) {
	if number < 1 || number > len(c.Chapters) {
		return Chapter{}, false
	}
	ch := c.Chapters[number-1]
	return ch, ch.Number == number
}

// VerseRecord is a verse flattened together with its chapter's fields
type VerseRecord struct {
	ChapterNumber     int
	ChapterName       string
	Revelation        Revelation
	ChapterVerseCount int
	Number            int
	Page              int
	Juz               int
	Text              string
}
