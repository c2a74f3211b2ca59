package service

import (
	"context"
	"mime/multipart"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/rabbitmq"
	"github.com/BloggingApp/blog-service/internal/realtime"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error)
	Edit(ctx context.Context, authorID uuid.UUID, input dto.EditPostRequest) error
	Publish(ctx context.Context, postID int64, authorID uuid.UUID) error
	Delete(ctx context.Context, postID int64, authorID uuid.UUID) error
	FindByID(ctx context.Context, id int64) (*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, includeDrafts bool, limit int, offset int) ([]*model.AuthorPost, error)
	FindUserLikes(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	GetTrending(ctx context.Context, hours int, limit int) ([]*model.FullPost, error)
	Like(ctx context.Context, postID int64, userID uuid.UUID, unlike bool) error
	IsLiked(ctx context.Context, postID int64, userID uuid.UUID) bool
	UploadTempPostImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
}

type Comment interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.CommentNode, error)
	FindAll(ctx context.Context, limit int, offset int) ([]*model.CommentNode, error)
	Delete(ctx context.Context, commentID int64, requesterID uuid.UUID, moderator bool) error
	Like(ctx context.Context, commentID int64, userID uuid.UUID, unlike bool) error
	IsLiked(ctx context.Context, commentID int64, userID uuid.UUID) bool
}

type Tag interface {
	ApplyTagDelta(ctx context.Context, added []string, removed []string)
	List(ctx context.Context, limit int, offset int) ([]*model.Tag, error)
	FindByName(ctx context.Context, name string) (*model.Tag, error)
	Trending(ctx context.Context, days int, limit int) ([]*model.Tag, error)
	Delete(ctx context.Context, name string) error
	Merge(ctx context.Context, sources []string, target string) error
}

type UserCache interface {
	CreateOrGet(ctx context.Context, id uuid.UUID, accessToken string) (*model.CachedUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	FindByUsername(ctx context.Context, username string) (*model.CachedUser, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	ConsumeUserUpdates(ctx context.Context)
}

type Notification interface {
	Create(ctx context.Context, notification model.Notification) (*model.Notification, error)
	FindForUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Search interface {
	Search(ctx context.Context, query string, limit int, offset int) ([]*dto.SearchHit, error)
}

type AI interface {
	SuggestTitles(ctx context.Context, content string) ([]string, error)
	Summarize(ctx context.Context, content string) (string, error)
}

type Dashboard interface {
	Summary(ctx context.Context, userID uuid.UUID) (*dto.DashboardSummary, error)
}

type Service struct {
	Post Post
	Comment Comment
	Tag Tag
	UserCache UserCache
	Notification Notification
	Search Search
	AI AI
	Dashboard Dashboard
}

func New(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.MQConn, hub *realtime.Hub, searchIndex *search.Index) *Service {
	notification := newNotificationService(logger, repo, hub)
	tag := newTagService(logger, repo)

	return &Service{
		Post: newPostService(logger, repo, tag, notification, searchIndex, mq),
		Comment: newCommentService(logger, repo, notification, hub),
		Tag: tag,
		UserCache: newUserCacheService(logger, repo, mq),
		Notification: notification,
		Search: newSearchService(logger, repo, searchIndex),
		AI: newAIService(logger),
		Dashboard: newDashboardService(logger, repo),
	}
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	go s.UserCache.ConsumeUserUpdates(ctx)
}
