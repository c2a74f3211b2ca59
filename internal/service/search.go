package service

import (
	"context"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/search"
	"go.uber.org/zap"
)

type searchService struct {
	logger *zap.Logger
	repo *repository.Repository
	index *search.Index
}

func newSearchService(logger *zap.Logger, repo *repository.Repository, index *search.Index) Search {
	return &searchService{
		logger: logger,
		repo: repo,
		index: index,
	}
}

// Search ranks posts through the bleve index and hydrates the hits from
// postgres. Indexed posts that have since been deleted or unpublished
// drop out of the result silently.
func (s *searchService) Search(ctx context.Context, query string, limit int, offset int) ([]*dto.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*dto.SearchHit{}, nil
	}

	results, err := s.index.Search(query, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search posts for query(%s): %s", query, err.Error())
		return nil, ErrInternal
	}
	if len(results) == 0 {
		return []*dto.SearchHit{}, nil
	}

	ids := make([]int64, 0, len(results))
	for _, result := range results {
		ids = append(ids, result.ID)
	}

	posts, err := s.repo.Postgres.Post.FindManyByID(ctx, ids)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hydrate search results: %s", err.Error())
		return nil, ErrInternal
	}

	postsByID := make(map[int64]*model.FullPost, len(posts))
	for _, post := range posts {
		postsByID[post.Post.ID] = post
	}

	hits := make([]*dto.SearchHit, 0, len(results))
	for _, result := range results {
		post, ok := postsByID[result.ID]
		if !ok || post.Post.IsDraft {
			continue
		}

		hits = append(hits, &dto.SearchHit{
			Post: *post,
			Score: result.Score,
			Fragments: result.Fragments,
		})
	}

	return hits, nil
}
