package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_SearchFindsByTitleAndTag(t *testing.T) {
	idx, err := OpenMem()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.IndexPost(&PostDocument{
		ID: "1",
		Title: "Profiling Go services in production",
		Content: "pprof, traces and flame graphs",
		Author: "alice",
		Tags: []string{"golang", "performance"},
	}))
	require.NoError(t, idx.IndexPost(&PostDocument{
		ID: "2",
		Title: "Sourdough starter basics",
		Content: "flour and water",
		Author: "bob",
		Tags: []string{"baking"},
	}))

	results, err := idx.Search("profiling", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)

	results, err = idx.Search("baking", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), results[0].ID)
}

func TestIndex_DeleteRemovesPost(t *testing.T) {
	idx, err := OpenMem()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.IndexPost(&PostDocument{ID: "1", Title: "Temporary post"}))
	require.NoError(t, idx.DeletePost("1"))

	results, err := idx.Search("temporary", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
