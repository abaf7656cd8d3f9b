package extract

import (
	"strings"

	"github.com/AkmelFed12/quizgen/internal/model"
)

// ExcerptTokens is how many whitespace-delimited tokens an excerpt keeps
const ExcerptTokens = 14

// ellipsis is appended to truncated excerpts
const ellipsis = " ..."

// FlattenVerses returns one record per verse in corpus order
func FlattenVerses(corpus *model.Corpus) []model.VerseRecord {
	records := make([]model.VerseRecord, 0, corpus.Bounds.VerseCount)
	for _, ch := range corpus.Chapters {
		for _, v := range ch.Verses {
			records = append(records, model.VerseRecord{
				ChapterNumber:     ch.Number,
				ChapterName:       ch.Name,
				Revelation:        ch.Revelation,
				ChapterVerseCount: len(ch.Verses),
				Number:            v.Number,
				Page:              v.Page,
				Juz:               v.Juz,
				Text:              v.Text,
			})
		}
	}
	return records
}

// Excerpt returns text unchanged when it has at most limit tokens,
// otherwise the first limit tokens joined by single spaces plus " ...".
func Excerpt(text string, limit int) string {
	parts := strings.Fields(text)
	if len(parts) <= limit {
		return text
	}
	return strings.Join(parts[:limit], " ") + ellipsis
}
