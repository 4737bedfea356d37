//go:build test_mocks

package main

import (
	"strconv"
	"strings"

	"lemmacorpus/internal/embedding"
)

// MockTokenizer encodes each numeric lemma as its value between [CLS]=1
// and [SEP]=2.
type MockTokenizer struct{}

func (m *MockTokenizer) Tokenize(text string) (embedding.Tokens, error) {
	ids := []int64{1}
	for _, f := range strings.Fields(text) {
		n, _ := strconv.ParseInt(f, 10, 64)
		ids = append(ids, n+3)
	}
	ids = append(ids, 2)
	mask := make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return embedding.Tokens{IDs: ids, AttentionMask: mask, TypeIDs: make([]int64, len(ids))}, nil
}

// MockModel derives each hidden row from its token id.
type MockModel struct {
	Hidden int
}

func (m *MockModel) Forward(tokens embedding.Tokens) (embedding.HiddenStates, error) {
	data := make([]float32, 0, tokens.Len()*m.Hidden)
	for _, id := range tokens.IDs {
		for j := 0; j < m.Hidden; j++ {
			data = append(data, float32((id*int64(j+1))%97)/97)
		}
	}
	return embedding.HiddenStates{
		Shape: []int64{1, int64(tokens.Len()), int64(m.Hidden)},
		Data:  data,
	}, nil
}
