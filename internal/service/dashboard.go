package service

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-service/internal/cache"
	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const trendingTagsDays = 7
const trendingTagsLimit = 10

type dashboardService struct {
	logger *zap.Logger
	repo *repository.Repository
}

func newDashboardService(logger *zap.Logger, repo *repository.Repository) Dashboard {
	return &dashboardService{
		logger: logger,
		repo: repo,
	}
}

// Summary aggregates platform-wide counters with the caller's unread
// notification count. Cached briefly per user; the counters tolerate
// short staleness.
func (s *dashboardService) Summary(ctx context.Context, userID uuid.UUID) (*dto.DashboardSummary, error) {
	summary, err := cache.GetOrSet(ctx, s.repo.Cache, cache.DashboardKey(userID.String()), time.Minute, func() (*dto.DashboardSummary, error) {
		posts, err := s.repo.Postgres.Post.Count(ctx)
		if err != nil {
			return nil, err
		}

		comments, err := s.repo.Postgres.Comment.Count(ctx)
		if err != nil {
			return nil, err
		}

		tags, err := s.repo.Postgres.Tag.Count(ctx)
		if err != nil {
			return nil, err
		}

		unread, err := s.repo.Postgres.Notification.CountUnread(ctx, userID)
		if err != nil {
			return nil, err
		}

		trendingTags, err := s.repo.Postgres.Tag.Trending(ctx, trendingTagsDays, trendingTagsLimit)
		if err != nil {
			return nil, err
		}

		return &dto.DashboardSummary{
			Posts: posts,
			Comments: comments,
			Tags: tags,
			UnreadNotifications: unread,
			TrendingTags: trendingTags,
		}, nil
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to build dashboard summary for user(%s): %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return summary, nil
}
