package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"lemmacorpus/internal/lemma"
)

// IndexExt is the file extension of persisted book lemma indexes.
const IndexExt = ".json"

// SaveIndex writes the index as a 4-space indented JSON object
// (chapter -> verse address -> record), creating parent directories as
// needed. An existing file is overwritten.
func SaveIndex(index *lemma.Index, path string) error {
	data, err := EncodeIndex(index)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// EncodeIndex renders the on-disk form of an index.
func EncodeIndex(index *lemma.Index) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(index); err != nil {
		return nil, fmt.Errorf("failed to encode lemma index: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// LoadIndex reads an index written by SaveIndex.
func LoadIndex(path string) (*lemma.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	var index lemma.Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("JSON decoding error in %s: %w", path, err)
	}
	return &index, nil
}
