package embedding

// Embedder defines the interface for generating vector embeddings from text.
type Embedder interface {
	// EmbedBatch generates embeddings for a batch of texts.
	// Returns a slice of float32 slices, where each inner slice is the embedding for the corresponding text.
	EmbedBatch(texts []string) ([][]float32, error)
}

// Tokens is one encoded sequence.
type Tokens struct {
	IDs           []int64
	AttentionMask []int64
	TypeIDs       []int64
}

// Len returns the sequence length.
func (t Tokens) Len() int {
	return len(t.IDs)
}

// Tokenizer encodes text into model input, special tokens included.
type Tokenizer interface {
	Tokenize(text string) (Tokens, error)
}

// HiddenStates is a row-major float tensor, [batch, sequence, hidden] for
// the last layer of an encoder.
type HiddenStates struct {
	Shape []int64
	Data  []float32
}

// Model runs a forward pass and returns the last hidden layer.
type Model interface {
	Forward(tokens Tokens) (HiddenStates, error)
}
