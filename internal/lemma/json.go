package lemma

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the index as a nested object, chapter -> verse
// address -> record, keeping stored key order.
func (x Index) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ch := range x.Chapters {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, ch.Key); err != nil {
			return nil, err
		}
		buf.WriteString(":{")
		for j, v := range ch.Verses {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(&buf, v.ID); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeString(&buf, v.Record); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// UnmarshalJSON decodes a nested chapter -> verse -> record object. Key
// order is preserved; duplicate chapter or verse keys are rejected.
func (x *Index) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		x.Chapters = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var chapters []Chapter
	seenChapters := make(map[string]bool)
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		if seenChapters[key] {
			return fmt.Errorf("duplicate chapter key %q", key)
		}
		seenChapters[key] = true

		ch := Chapter{Key: key}
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("chapter %q: %w", key, err)
		}
		seenVerses := make(map[string]bool)
		for dec.More() {
			id, err := readKey(dec)
			if err != nil {
				return err
			}
			if seenVerses[id] {
				return fmt.Errorf("chapter %q: duplicate verse key %q", key, id)
			}
			seenVerses[id] = true

			tok, err := dec.Token()
			if err != nil {
				return err
			}
			record, ok := tok.(string)
			if !ok {
				return fmt.Errorf("verse %q: record must be a string, got %v", id, tok)
			}
			ch.Verses = append(ch.Verses, Verse{ID: id, Record: record})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
		chapters = append(chapters, ch)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	x.Chapters = chapters
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
