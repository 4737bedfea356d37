package embedding

import (
	"errors"
	"fmt"

	tokenizer "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// ErrTooLong is returned when an encoded text exceeds MaxLength.
var ErrTooLong = errors.New("sequence exceeds model maximum")

// HFTokenizer wraps a HuggingFace tokenizer.json.
type HFTokenizer struct {
	tk *tokenizer.Tokenizer
	// MaxLength bounds the encoded length, special tokens included. Zero
	// disables the check.
	MaxLength int
}

func LoadHFTokenizer(path string, maxLength int) (*HFTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return &HFTokenizer{tk: tk, MaxLength: maxLength}, nil
}

func (h *HFTokenizer) Tokenize(text string) (Tokens, error) {
	enc, err := h.tk.EncodeSingle(text, true)
	if err != nil {
		return Tokens{}, err
	}

	ids := enc.GetIds()
	if h.MaxLength > 0 && len(ids) > h.MaxLength {
		return Tokens{}, fmt.Errorf("%w: %d > %d tokens", ErrTooLong, len(ids), h.MaxLength)
	}
	mask := enc.GetAttentionMask()
	typeIDs := enc.GetTypeIds()

	tokens := Tokens{
		IDs:           make([]int64, len(ids)),
		AttentionMask: make([]int64, len(ids)),
		TypeIDs:       make([]int64, len(ids)),
	}
	for i, id := range ids {
		tokens.IDs[i] = int64(id)
		if i < len(mask) {
			tokens.AttentionMask[i] = int64(mask[i])
		}
		if i < len(typeIDs) {
			tokens.TypeIDs[i] = int64(typeIDs[i])
		}
	}
	return tokens, nil
}
