package lemma

import (
	"regexp"
	"strings"
)

// Verse is one entry of a chapter: the verse address as it appears in the
// source document and its space-joined lemma record.
type Verse struct {
	ID     string
	Record string
}

// Chapter holds the verses of one chapter in stored order.
type Chapter struct {
	Key    string
	Verses []Verse
}

// Index is the per-book lemma index: chapter key -> verse address -> record.
// Chapters and verses keep the order in which they were inserted or loaded.
type Index struct {
	Chapters []Chapter
}

var digitRun = regexp.MustCompile(`\p{Nd}+`)

// Tokens returns every maximal run of decimal digits in a raw lemma
// annotation, in source order. "H1234a" yields ["1234"]; "H01b H02c"
// yields ["01", "02"].
func Tokens(annotation string) []string {
	return digitRun.FindAllString(annotation, -1)
}

// Record joins lemma tokens into a verse lemma record.
func Record(tokens []string) string {
	return strings.Join(tokens, " ")
}

// Chapter returns the chapter stored under key.
func (x *Index) Chapter(key string) (*Chapter, bool) {
	for i := range x.Chapters {
		if x.Chapters[i].Key == key {
			return &x.Chapters[i], true
		}
	}
	return nil, false
}

// Verse finds a verse in the given chapter. verse may be either the full
// address ("Gen.1.1") or the verse number ("1").
func (x *Index) Verse(chapter, verse string) (Verse, bool) {
	ch, ok := x.Chapter(chapter)
	if !ok {
		return Verse{}, false
	}
	for _, v := range ch.Verses {
		if v.ID == verse {
			return v, true
		}
		if addr, err := ParseAddress(v.ID); err == nil && addr.Verse == verse {
			return v, true
		}
	}
	return Verse{}, false
}

// Len returns the number of verse entries across all chapters.
func (x *Index) Len() int {
	n := 0
	for _, ch := range x.Chapters {
		n += len(ch.Verses)
	}
	return n
}

// Records returns the verse records in stored chapter then verse order.
func (x *Index) Records() []string {
	records := make([]string, 0, x.Len())
	for _, ch := range x.Chapters {
		for _, v := range ch.Verses {
			records = append(records, v.Record)
		}
	}
	return records
}

// Each calls fn for every verse in stored order.
func (x *Index) Each(fn func(chapter string, v Verse)) {
	for _, ch := range x.Chapters {
		for _, v := range ch.Verses {
			fn(ch.Key, v)
		}
	}
}
