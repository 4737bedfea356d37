package e2e_test

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mockEnv = []string{"LEMMACORPUS_MOCK_ENABLED=true"}

func extractFixtures(t *testing.T, cliPath string) string {
	t.Helper()
	root := getRepoRoot(t)
	records := filepath.Join(t.TempDir(), "records")
	output, code := run(t, cliPath, nil, "extract", filepath.Join(root, "test", "fixtures", "osis"), records)
	require.Equal(t, 0, code, output)
	return records
}

func TestCLI_Embed_MockModel(t *testing.T) {
	cliPath := buildCLI(t, "test_mocks")
	records := extractFixtures(t, cliPath)

	output, code := run(t, cliPath, append(mockEnv, "LEMMACORPUS_RECORDS_DIR="+records), "embed", "Gen", "1", "2")
	require.Equal(t, 0, code, output)

	var vec []float32
	require.NoError(t, json.Unmarshal([]byte(lastLines(output, 1)), &vec), output)
	assert.Len(t, vec, 8)

	again, code := run(t, cliPath, append(mockEnv, "LEMMACORPUS_RECORDS_DIR="+records), "embed", "Gen", "1", "Gen.1.2")
	require.Equal(t, 0, code, again)
	assert.Equal(t, lastLines(output, 1), lastLines(again, 1))

	output, code = run(t, cliPath, mockEnv, "embed", "-records", records, "Gen", "9", "9")
	assert.Equal(t, 2, code)
	assert.Contains(t, output, "no lemma record")

	output, code = run(t, cliPath, mockEnv, "embed", "-records", records, "Exod", "1", "1")
	assert.Equal(t, 2, code)
	assert.Contains(t, output, "[Gen Ruth]")
}

func TestCLI_Cluster_MockModel(t *testing.T) {
	cliPath := buildCLI(t, "test_mocks")
	records := extractFixtures(t, cliPath)

	output, code := run(t, cliPath, mockEnv, "cluster", "-records", records, "-k", "2", "Gen")
	require.Equal(t, 0, code, output)
	assert.Contains(t, output, "Using Mock Embedder")

	start := strings.Index(output, "{")
	require.GreaterOrEqual(t, start, 0, output)
	var clusters map[string][]string
	require.NoError(t, json.Unmarshal([]byte(output[start:]), &clusters), output)

	var all []string
	for name, ids := range clusters {
		assert.Contains(t, []string{"cluster-0", "cluster-1"}, name)
		all = append(all, ids...)
	}
	assert.ElementsMatch(t, []string{"Gen.1.1", "Gen.1.2", "Gen.2.1"}, all)

	again, code := run(t, cliPath, mockEnv, "cluster", "-records", records, "-k", "2", "Gen")
	require.Equal(t, 0, code, again)
	assert.Equal(t, output[start:], again[strings.Index(again, "{"):])
}
