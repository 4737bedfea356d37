package analysis

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"lemmacorpus/internal/lemma"
)

// OSISNamespace is the namespace of OSIS 2.x documents.
const OSISNamespace = "http://www.bibletechnologies.net/2003/OSIS/namespace"

// OSISExtractor reads container-style OSIS verses (<verse osisID="Gen.1.1">
// holding <w lemma="..."> children) and keeps the digits of each lemma.
// Only <w> elements that are direct children of a verse contribute.
type OSISExtractor struct {
	// Namespace overrides OSISNamespace when set.
	Namespace string
}

func init() {
	RegisterExtractor(".xml", &OSISExtractor{})
}

type verseState struct {
	id      string
	chapter int
	depth   int
	tokens  []string
}

func (p *OSISExtractor) Extract(name string, content []byte) (*lemma.Index, error) {
	ns := p.Namespace
	if ns == "" {
		ns = OSISNamespace
	}

	dec := xml.NewDecoder(bytes.NewReader(content))
	index := &lemma.Index{}
	chapters := make(map[string]int)
	seen := make(map[string]int)

	var cur *verseState
	depth := 0
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fe := &FormatError{Document: name, Reason: "malformed document", Err: err}
			if cur != nil {
				fe.VerseID = cur.id
			}
			return nil, fe
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			sawRoot = true
			if t.Name.Space != ns {
				continue
			}
			switch t.Name.Local {
			case "verse":
				if cur != nil {
					return nil, &FormatError{Document: name, VerseID: cur.id, Reason: "nested verse element"}
				}
				id, _ := attr(t, "osisID")
				addr, err := lemma.ParseAddress(id)
				if err != nil {
					return nil, &FormatError{Document: name, VerseID: id, Reason: "verse without a usable osisID", Err: err}
				}
				pos, ok := chapters[addr.Chapter]
				if !ok {
					pos = len(index.Chapters)
					chapters[addr.Chapter] = pos
					index.Chapters = append(index.Chapters, lemma.Chapter{Key: addr.Chapter})
				}
				cur = &verseState{id: id, chapter: pos, depth: depth}
			case "w":
				if cur == nil || depth != cur.depth+1 {
					continue
				}
				if raw, ok := attr(t, "lemma"); ok && raw != "" {
					cur.tokens = append(cur.tokens, lemma.Tokens(raw)...)
				}
			}

		case xml.EndElement:
			if cur != nil && depth == cur.depth {
				if len(cur.tokens) > 0 {
					ch := &index.Chapters[cur.chapter]
					v := lemma.Verse{ID: cur.id, Record: lemma.Record(cur.tokens)}
					// A repeated address replaces the earlier record in place.
					if i, ok := seen[cur.id]; ok {
						ch.Verses[i] = v
					} else {
						seen[cur.id] = len(ch.Verses)
						ch.Verses = append(ch.Verses, v)
					}
				}
				cur = nil
			}
			depth--
		}
	}

	if !sawRoot {
		return nil, &FormatError{Document: name, Reason: "no root element"}
	}
	return index, nil
}

func attr(el xml.StartElement, local string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}
