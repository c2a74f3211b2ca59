package service

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-service/internal/cache"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/pkg/utils"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type tagService struct {
	logger *zap.Logger
	repo *repository.Repository
}

func newTagService(logger *zap.Logger, repo *repository.Repository) Tag {
	return &tagService{
		logger: logger,
		repo: repo,
	}
}

// ApplyTagDelta reconciles the tag ledger with a post's tag set change.
// Each name is processed independently: a failed increment or decrement
// is logged and the siblings still proceed. Counts never go below zero.
func (s *tagService) ApplyTagDelta(ctx context.Context, added []string, removed []string) {
	for _, raw := range added {
		name := utils.NormalizeTagName(raw)
		if name == "" {
			continue
		}

		created, err := s.repo.Postgres.Tag.IncrementUsage(ctx, name, utils.TagDisplayName(raw))
		if err != nil {
			s.logger.Sugar().Errorf("failed to increment usage for tag(%s): %s", name, err.Error())
			continue
		}

		if created {
			s.logger.Sugar().Infof("created tag(%s)", name)
		}
	}

	for _, raw := range removed {
		name := utils.NormalizeTagName(raw)
		if name == "" {
			continue
		}

		if err := s.repo.Postgres.Tag.DecrementUsage(ctx, name); err != nil {
			s.logger.Sugar().Errorf("failed to decrement usage for tag(%s): %s", name, err.Error())
		}
	}

	if err := s.repo.Cache.DeleteByPattern(ctx, cache.TagsPattern()); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate tag cache: %s", err.Error())
	}
}

func (s *tagService) List(ctx context.Context, limit int, offset int) ([]*model.Tag, error) {
	tags, err := cache.GetOrSet(ctx, s.repo.Cache, cache.TagsKey(limit, offset), time.Minute*5, func() ([]*model.Tag, error) {
		return s.repo.Postgres.Tag.List(ctx, limit, offset)
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to list tags: %s", err.Error())
		return nil, ErrInternal
	}

	return tags, nil
}

func (s *tagService) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	name = utils.NormalizeTagName(name)

	tag, err := s.repo.Postgres.Tag.FindByName(ctx, name)
	if err == pgx.ErrNoRows {
		return nil, ErrTagNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find tag(%s): %s", name, err.Error())
		return nil, ErrInternal
	}

	return tag, nil
}

func (s *tagService) Trending(ctx context.Context, days int, limit int) ([]*model.Tag, error) {
	tags, err := s.repo.Postgres.Tag.Trending(ctx, days, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get trending tags: %s", err.Error())
		return nil, ErrInternal
	}

	return tags, nil
}

// Delete removes a tag record. The gate re-derives the live reference
// count from post membership instead of trusting the cached post_count.
func (s *tagService) Delete(ctx context.Context, name string) error {
	name = utils.NormalizeTagName(name)

	if _, err := s.repo.Postgres.Tag.FindByName(ctx, name); err != nil {
		if err == pgx.ErrNoRows {
			return ErrTagNotFound
		}
		s.logger.Sugar().Errorf("failed to find tag(%s): %s", name, err.Error())
		return ErrInternal
	}

	refCount, err := s.repo.Postgres.Tag.LiveRefCount(ctx, name)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count live references for tag(%s): %s", name, err.Error())
		return ErrInternal
	}
	if refCount > 0 {
		return ErrTagInUse
	}

	if err := s.repo.Postgres.Tag.Delete(ctx, name); err != nil {
		s.logger.Sugar().Errorf("failed to delete tag(%s): %s", name, err.Error())
		return ErrInternal
	}

	s.invalidate(ctx)

	return nil
}

func (s *tagService) Merge(ctx context.Context, sources []string, target string) error {
	targetName := utils.NormalizeTagName(target)
	if targetName == "" {
		return ErrTagNotFound
	}

	normalized := make([]string, 0, len(sources))
	for _, source := range sources {
		name := utils.NormalizeTagName(source)
		if name == "" || name == targetName {
			continue
		}
		normalized = append(normalized, name)
	}
	if len(normalized) == 0 {
		return nil
	}

	if err := s.repo.Postgres.Tag.Merge(ctx, normalized, targetName, utils.TagDisplayName(target)); err != nil {
		s.logger.Sugar().Errorf("failed to merge tags(%v) into tag(%s): %s", normalized, targetName, err.Error())
		return ErrInternal
	}

	s.invalidate(ctx)

	return nil
}

func (s *tagService) invalidate(ctx context.Context) {
	if err := s.repo.Cache.DeleteByPattern(ctx, cache.TagsPattern()); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate tag cache: %s", err.Error())
	}
}
