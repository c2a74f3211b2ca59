// Package search wraps a bleve full-text index over published posts.
package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

type Index struct {
	index bleve.Index
}

// PostDocument is the indexed shape of a post.
type PostDocument struct {
	ID      string
	Title   string
	Content string
	Author  string
	Tags    []string
}

type Result struct {
	ID        int64
	Score     float64
	Fragments map[string][]string
}

// Open opens the index at path, creating it with the post mapping when it
// does not exist yet.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

// OpenMem builds an in-memory index. Used by tests.
func OpenMem() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Content", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Author", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Tags", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

func (i *Index) IndexPost(doc *PostDocument) error {
	return i.index.Index(doc.ID, doc)
}

func (i *Index) DeletePost(id string) error {
	return i.index.Delete(id)
}

// Search runs a fuzzy-tolerant match query over titles, content, tags and
// author names, returning ranked post IDs with highlighted fragments.
func (i *Index) Search(queryStr string, limit int, offset int) ([]*Result, error) {
	matchQuery := bleve.NewMatchQuery(queryStr)
	matchQuery.SetFuzziness(1)

	searchRequest := bleve.NewSearchRequestOptions(matchQuery, limit, offset, false)
	searchRequest.Highlight = bleve.NewHighlight()

	searchResult, err := i.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]*Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		var id int64
		if _, err := fmt.Sscanf(hit.ID, "%d", &id); err != nil {
			continue
		}

		results = append(results, &Result{
			ID: id,
			Score: hit.Score,
			Fragments: hit.Fragments,
		})
	}

	return results, nil
}

func (i *Index) Close() error {
	return i.index.Close()
}
