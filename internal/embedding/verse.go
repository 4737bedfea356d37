package embedding

import (
	"errors"
	"fmt"
	"io"
)

// VerseEmbedder embeds verse lemma records with a tokenizer and model that
// are loaded once and reused for every call.
type VerseEmbedder struct {
	Tokenizer Tokenizer
	Model     Model
}

func NewVerseEmbedder(tok Tokenizer, model Model) *VerseEmbedder {
	return &VerseEmbedder{Tokenizer: tok, Model: model}
}

// Embed returns the pooled vector of one verse.
func (e *VerseEmbedder) Embed(text string) ([]float32, error) {
	return Embed(text, e.Tokenizer, e.Model)
}

// EmbedBatch embeds each text in turn.
func (e *VerseEmbedder) EmbedBatch(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		out = append(out, vec)
	}
	return out, nil
}

// Close releases the model and tokenizer when they hold resources.
func (e *VerseEmbedder) Close() error {
	var errs []error
	for _, c := range []any{e.Model, e.Tokenizer} {
		if closer, ok := c.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}
