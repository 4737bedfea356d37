package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Env(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://localhost:7687")
	t.Setenv("NEO4J_USER", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "password")
	t.Setenv("LEMMACORPUS_RECORDS_DIR", "/data/records")
	t.Setenv("LEMMACORPUS_WORKERS", "4")
	t.Setenv("LEMMACORPUS_MAX_SEQ_LEN", "")
	t.Setenv("LEMMACORPUS_SOURCE_DIR", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Neo4jURI != "bolt://localhost:7687" {
		t.Errorf("expected Neo4jURI to be 'bolt://localhost:7687', got '%s'", cfg.Neo4jURI)
	}
	if cfg.Neo4jUser != "neo4j" {
		t.Errorf("expected Neo4jUser to be 'neo4j', got '%s'", cfg.Neo4jUser)
	}
	if cfg.Neo4jPassword != "password" {
		t.Errorf("expected Neo4jPassword to be 'password', got '%s'", cfg.Neo4jPassword)
	}
	if cfg.RecordsDir != "/data/records" {
		t.Errorf("expected RecordsDir from env, got '%s'", cfg.RecordsDir)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.MaxSequenceLength != 512 {
		t.Errorf("expected default MaxSequenceLength, got %d", cfg.MaxSequenceLength)
	}
	if cfg.SourceDir != "./texts/manuscripts/ot" {
		t.Errorf("expected default SourceDir, got '%s'", cfg.SourceDir)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "records_dir: /yaml/records\nmodel_dir: /yaml/model\nworkers: 3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("LEMMACORPUS_MODEL_DIR", "/env/model")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RecordsDir != "/yaml/records" {
		t.Errorf("expected RecordsDir from YAML, got '%s'", cfg.RecordsDir)
	}
	if cfg.ModelDir != "/env/model" {
		t.Errorf("expected env to override YAML, got '%s'", cfg.ModelDir)
	}
	if cfg.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Workers)
	}
	if cfg.ModelPath() != filepath.Join("/env/model", "model.onnx") {
		t.Errorf("unexpected ModelPath %s", cfg.ModelPath())
	}
	if cfg.TokenizerPath() != filepath.Join("/env/model", "tokenizer.json") {
		t.Errorf("unexpected TokenizerPath %s", cfg.TokenizerPath())
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	for _, key := range []string{"ONNXRUNTIME_LIB", "NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "LEMMACORPUS_WORKERS", "LEMMACORPUS_MODEL_DIR"} {
		t.Setenv(key, "")
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: [1"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected malformed YAML to fail")
	}

	t.Setenv("LEMMACORPUS_WORKERS", "many")
	if _, err := Load(""); err == nil {
		t.Error("expected invalid LEMMACORPUS_WORKERS to fail")
	}
}

func TestLoadEnv(t *testing.T) {
	tempDir := t.TempDir()

	envContent := "TEST_ENV_VAR=loaded_successfully"
	envFile := filepath.Join(tempDir, ".env")
	if err := os.WriteFile(envFile, []byte(envContent), 0644); err != nil {
		t.Fatalf("Failed to create .env file: %v", err)
	}

	subDir := filepath.Join(tempDir, "subdir", "deep", "nested")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current working directory: %v", err)
	}
	defer os.Chdir(wd)

	if err := os.Chdir(subDir); err != nil {
		t.Fatalf("Failed to change working directory: %v", err)
	}

	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if val := os.Getenv("TEST_ENV_VAR"); val != "loaded_successfully" {
		t.Errorf("Expected TEST_ENV_VAR to be 'loaded_successfully', got '%s'", val)
	}

	os.Unsetenv("TEST_ENV_VAR")
}
