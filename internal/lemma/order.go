package lemma

import (
	"slices"
	"strings"
	"unicode"
)

// Canonical returns a copy of the index with chapters and verses sorted
// numeric-aware, so that "2" < "10" and "Gen.1.9" < "Gen.1.10".
func (x *Index) Canonical() *Index {
	out := &Index{Chapters: make([]Chapter, len(x.Chapters))}
	for i, ch := range x.Chapters {
		verses := slices.Clone(ch.Verses)
		slices.SortStableFunc(verses, func(a, b Verse) int {
			return CompareNatural(a.ID, b.ID)
		})
		out.Chapters[i] = Chapter{Key: ch.Key, Verses: verses}
	}
	slices.SortStableFunc(out.Chapters, func(a, b Chapter) int {
		return CompareNatural(a.Key, b.Key)
	})
	return out
}

// CompareNatural orders strings by comparing runs of digits by numeric value
// and everything else byte-wise.
func CompareNatural(a, b string) int {
	ra, rb := splitRuns(a), splitRuns(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		x, y := ra[i], rb[i]
		xd, yd := isDigits(x), isDigits(y)
		var c int
		switch {
		case xd && yd:
			c = compareNumeric(x, y)
		case xd:
			c = -1
		case yd:
			c = 1
		default:
			c = strings.Compare(x, y)
		}
		if c != 0 {
			return c
		}
	}
	if c := len(ra) - len(rb); c != 0 {
		if c < 0 {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func splitRuns(s string) []string {
	var runs []string
	start := 0
	var prevDigit bool
	for i, r := range s {
		d := unicode.IsDigit(r)
		if i > 0 && d != prevDigit {
			runs = append(runs, s[start:i])
			start = i
		}
		prevDigit = d
	}
	if start < len(s) {
		runs = append(runs, s[start:])
	}
	return runs
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
