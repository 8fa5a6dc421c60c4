package search_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naab-lang/naab/internal/search"
)

func seedIndex(t *testing.T) *search.Index {
	t.Helper()
	idx, err := search.Open(filepath.Join(t.TempDir(), "search.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	err = idx.Rebuild([]search.BlockMeta{
		{ID: "BLOCK-PY-00001", Description: "reverse a string", Language: "python", Code: "s[::-1]", SourceFile: "py/reverse.json", Version: "1.0.0"},
		{ID: "BLOCK-JS-00042", Description: "debounce a callback", Language: "javascript", Code: "setTimeout(fn, ms)", SourceFile: "js/debounce.json", Version: "2.1.0", Deprecated: true},
		{ID: "BLOCK-GO-00007", Description: "reverse a slice in place", Language: "go", Code: "slices.Reverse(s)", SourceFile: "go/reverse.json", Version: "1.3.0"},
	})
	require.NoError(t, err)
	return idx
}

func TestOpen_MemoryDatabase(t *testing.T) {
	idx, err := search.Open(":memory:", false)
	require.NoError(t, err)
	defer idx.Close()

	results, err := idx.Query("anything", 0)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestIndex_QueryMatchesDescriptionAndCode(t *testing.T) {
	idx := seedIndex(t)

	results, err := idx.Query("reverse", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	ids := map[string]bool{}
	for _, r := range results {
		ids[r.ID] = true
	}
	require.True(t, ids["BLOCK-PY-00001"])
	require.True(t, ids["BLOCK-GO-00007"])
}

func TestIndex_QueryRespectsResultCap(t *testing.T) {
	idx := seedIndex(t)

	results, err := idx.Query("reverse", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestIndex_QueryReportsDeprecation(t *testing.T) {
	idx := seedIndex(t)

	results, err := idx.Query("debounce", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Deprecated)
}

func TestIndex_RebuildIsIdempotent(t *testing.T) {
	idx := seedIndex(t)

	entries := []search.BlockMeta{
		{ID: "BLOCK-PY-00001", Description: "reverse a string", Language: "python", Code: "s[::-1]", SourceFile: "py/reverse.json", Version: "1.0.0"},
	}
	require.NoError(t, idx.Rebuild(entries))
	require.NoError(t, idx.Rebuild(entries))

	results, err := idx.Query("reverse", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
}
