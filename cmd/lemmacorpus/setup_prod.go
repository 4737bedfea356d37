//go:build !test_mocks

package main

import (
	"lemmacorpus/internal/config"
	"lemmacorpus/internal/embedding"
)

func setupEmbedder(cfg config.Config) (*embedding.VerseEmbedder, error) {
	return loadEmbedder(cfg)
}
