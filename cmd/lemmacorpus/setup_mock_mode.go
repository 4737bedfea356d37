//go:build test_mocks

package main

import (
	"log"
	"os"

	"lemmacorpus/internal/config"
	"lemmacorpus/internal/embedding"
)

func setupEmbedder(cfg config.Config) (*embedding.VerseEmbedder, error) {
	if os.Getenv("LEMMACORPUS_MOCK_ENABLED") == "true" {
		log.Println("Using Mock Embedder (test_mocks build)")
		return embedding.NewVerseEmbedder(&MockTokenizer{}, &MockModel{Hidden: 8}), nil
	}
	return loadEmbedder(cfg)
}
