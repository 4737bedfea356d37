package embedding

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestTokenizer(t *testing.T, maxLength int) *HFTokenizer {
	t.Helper()
	tok, err := LoadHFTokenizer(filepath.Join("testdata", "tokenizer.json"), maxLength)
	require.NoError(t, err)
	return tok
}

func TestHFTokenizer_Tokenize(t *testing.T) {
	tok := loadTestTokenizer(t, 0)

	tokens, err := tok.Tokenize("1961 3117 430")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4, 5, 6, 3}, tokens.IDs)
	assert.Equal(t, []int64{1, 1, 1, 1, 1}, tokens.AttentionMask)
	assert.Equal(t, []int64{0, 0, 0, 0, 0}, tokens.TypeIDs)
	assert.Equal(t, 5, tokens.Len())
}

func TestHFTokenizer_TooLong(t *testing.T) {
	tok := loadTestTokenizer(t, 4)

	tokens, err := tok.Tokenize("1961 3117")
	require.NoError(t, err)
	assert.Equal(t, 4, tokens.Len())

	_, err = tok.Tokenize("1961 3117 430")
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestLoadHFTokenizer_MissingFile(t *testing.T) {
	_, err := LoadHFTokenizer(filepath.Join(t.TempDir(), "absent.json"), 0)
	assert.Error(t, err)
}
