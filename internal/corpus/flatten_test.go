package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lemmacorpus/internal/analysis"
	"lemmacorpus/internal/lemma"
	"lemmacorpus/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalBook = `<osis xmlns="http://www.bibletechnologies.net/2003/OSIS/namespace">
  <osisText><div type="book" osisID="Test">
    <chapter osisID="Test.1">
      <verse osisID="Test.1.1"><w lemma="H1">a</w><w lemma="H2a">b</w></verse>
      <verse osisID="Test.1.2"><w>c</w></verse>
    </chapter>
  </div></osisText>
</osis>`

func writeIndex(t *testing.T, dir, name string, index *lemma.Index) {
	t.Helper()
	require.NoError(t, storage.SaveIndex(index, filepath.Join(dir, name)))
}

func TestFlatten_MinimalBook(t *testing.T) {
	dir := t.TempDir()
	index, err := (&analysis.OSISExtractor{}).Extract("Test.xml", []byte(minimalBook))
	require.NoError(t, err)
	writeIndex(t, dir, "Test.json", index)

	lines, err := Flatten(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1 2"}, lines)

	dest := filepath.Join(t.TempDir(), "training", "corpus.txt")
	n, err := WriteFile(dir, dest, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "1 2\n", string(data))
}

func TestFlatten_StoredOrderAcrossBooks(t *testing.T) {
	dir := t.TempDir()
	writeIndex(t, dir, "A.json", &lemma.Index{Chapters: []lemma.Chapter{
		{Key: "2", Verses: []lemma.Verse{{ID: "A.2.1", Record: "20"}}},
		{Key: "1", Verses: []lemma.Verse{{ID: "A.1.2", Record: "12"}, {ID: "A.1.1", Record: "11"}}},
	}})
	writeIndex(t, dir, "B.json", &lemma.Index{Chapters: []lemma.Chapter{
		{Key: "1", Verses: []lemma.Verse{{ID: "B.1.1", Record: "99 98"}}},
		{Key: "2"},
	}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	lines, err := Flatten(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"20", "12", "11", "99 98"}, lines)

	lines, err = Flatten(dir, Options{Canonical: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"11", "12", "20", "99 98"}, lines)
}

func TestWriteFile_LineCountMatchesIndexes(t *testing.T) {
	dir := t.TempDir()
	results := []*lemma.Index{
		{Chapters: []lemma.Chapter{
			{Key: "1", Verses: []lemma.Verse{{ID: "X.1.1", Record: "1"}, {ID: "X.1.2", Record: "2 3"}}},
			{Key: "2", Verses: []lemma.Verse{{ID: "X.2.1", Record: "4"}}},
		}},
		{Chapters: []lemma.Chapter{{Key: "1", Verses: []lemma.Verse{{ID: "Y.1.1", Record: "5"}}}}},
		{},
	}
	want := 0
	for i, index := range results {
		writeIndex(t, dir, string(rune('a'+i))+".json", index)
		want += index.Len()
	}

	dest := filepath.Join(t.TempDir(), "corpus.txt")
	n, err := WriteFile(dir, dest, Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, want)
	assert.Equal(t, want, n)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, want, strings.Count(string(data), "\n"))
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestWriteFile_EmptyDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "corpus.txt")
	n, err := WriteFile(t.TempDir(), dest, Options{})
	require.NoError(t, err)
	assert.Zero(t, n)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFlatten_Errors(t *testing.T) {
	_, err := Flatten(filepath.Join(t.TempDir(), "missing"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bad.json"), []byte("{"), 0644))
	_, err = Flatten(dir, Options{})
	assert.ErrorContains(t, err, "Bad.json")
}
