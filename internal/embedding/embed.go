package embedding

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is returned when the hidden states are not [1, seq, hidden].
	ErrShape = errors.New("unexpected hidden state shape")
	// ErrEmptySequence is returned when there is nothing to pool.
	ErrEmptySequence = errors.New("empty token sequence")
)

// Embed tokenizes text, runs the model and mean-pools the last hidden layer
// over the sequence axis. The result has the model's hidden dimension.
func Embed(text string, tok Tokenizer, model Model) ([]float32, error) {
	tokens, err := tok.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("tokenization failed: %w", err)
	}
	if tokens.Len() == 0 {
		return nil, ErrEmptySequence
	}

	states, err := model.Forward(tokens)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	return MeanPool(states)
}

// MeanPool averages a [1, seq, hidden] tensor over seq.
func MeanPool(states HiddenStates) ([]float32, error) {
	if len(states.Shape) != 3 || states.Shape[0] != 1 {
		return nil, fmt.Errorf("%w: %v", ErrShape, states.Shape)
	}
	seqLen, hidden := states.Shape[1], states.Shape[2]
	if seqLen <= 0 || hidden <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrEmptySequence, states.Shape)
	}
	if int64(len(states.Data)) != seqLen*hidden {
		return nil, fmt.Errorf("%w: %v holds %d values", ErrShape, states.Shape, len(states.Data))
	}

	sums := make([]float64, hidden)
	for i := int64(0); i < seqLen; i++ {
		row := states.Data[i*hidden : (i+1)*hidden]
		for j, v := range row {
			sums[j] += float64(v)
		}
	}

	out := make([]float32, hidden)
	for j, s := range sums {
		out[j] = float32(s / float64(seqLen))
	}
	return out, nil
}
