package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the paths, model settings and graph database connection of
// the corpus pipeline.
type Config struct {
	SourceDir  string `yaml:"source_dir"`
	RecordsDir string `yaml:"records_dir"`
	CorpusFile string `yaml:"corpus_file"`

	ModelDir          string `yaml:"model_dir"`
	ModelFile         string `yaml:"model_file"`
	TokenizerFile     string `yaml:"tokenizer_file"`
	OnnxLibrary       string `yaml:"onnx_library"`
	MaxSequenceLength int    `yaml:"max_sequence_length"`

	Workers int `yaml:"workers"`

	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUser     string `yaml:"neo4j_user"`
	Neo4jPassword string `yaml:"neo4j_password"`
}

// DefaultConfig returns the layout of a checkout with texts/ and models/
// next to the working directory.
func DefaultConfig() Config {
	return Config{
		SourceDir:         "./texts/manuscripts/ot",
		RecordsDir:        "./texts/lemmatized_manuscripts/ot",
		CorpusFile:        "./texts/training/ot/tanakh_strongs.txt",
		ModelDir:          "./models/ot_bert_final",
		ModelFile:         "model.onnx",
		TokenizerFile:     "tokenizer.json",
		MaxSequenceLength: 512,
		Workers:           1,
	}
}

// ModelPath joins ModelDir and ModelFile.
func (c Config) ModelPath() string {
	return filepath.Join(c.ModelDir, c.ModelFile)
}

// TokenizerPath joins ModelDir and TokenizerFile.
func (c Config) TokenizerPath() string {
	return filepath.Join(c.ModelDir, c.TokenizerFile)
}

// Load layers defaults, the YAML file at path and the environment. An empty
// path or a missing file yields defaults and environment only.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"LEMMACORPUS_SOURCE_DIR":     &cfg.SourceDir,
		"LEMMACORPUS_RECORDS_DIR":    &cfg.RecordsDir,
		"LEMMACORPUS_CORPUS_FILE":    &cfg.CorpusFile,
		"LEMMACORPUS_MODEL_DIR":      &cfg.ModelDir,
		"LEMMACORPUS_MODEL_FILE":     &cfg.ModelFile,
		"LEMMACORPUS_TOKENIZER_FILE": &cfg.TokenizerFile,
		"ONNXRUNTIME_LIB":            &cfg.OnnxLibrary,
		"NEO4J_URI":                  &cfg.Neo4jURI,
		"NEO4J_USER":                 &cfg.Neo4jUser,
		"NEO4J_PASSWORD":             &cfg.Neo4jPassword,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	var errs []error
	ints := map[string]*int{
		"LEMMACORPUS_MAX_SEQ_LEN": &cfg.MaxSequenceLength,
		"LEMMACORPUS_WORKERS":     &cfg.Workers,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
			continue
		}
		*dst = n
	}
	return errors.Join(errs...)
}

// LoadEnv loads environment variables from a .env file, searching up the directory tree.
func LoadEnv() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached root
		}
		dir = parent
	}

	// Not found is fine
	return nil
}
