package postgres

import (
	"context"
	"fmt"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_LIMIT = 50

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT || *limit <= 0 {
		*limit = MAX_LIMIT
	}
}

type Post interface {
	Create(ctx context.Context, post model.Post, tags []string) (*model.Post, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	UpdateTags(ctx context.Context, postID int64, added []string, removed []string) error
	FindByID(ctx context.Context, id int64) (*model.FullPost, error)
	FindManyByID(ctx context.Context, ids []int64) ([]*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, includeDrafts bool, limit int, offset int) ([]*model.AuthorPost, error)
	FindUserLikes(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	FindTrending(ctx context.Context, hours int, limit int) ([]*model.FullPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	GetTags(ctx context.Context, postID int64) ([]string, error)
	Delete(ctx context.Context, id int64) error
	IncrViews(ctx context.Context, id int64) error
	Like(ctx context.Context, postID int64, userID uuid.UUID) error
	Unlike(ctx context.Context, postID int64, userID uuid.UUID) error
	IsLiked(ctx context.Context, postID int64, userID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type Tag interface {
	IncrementUsage(ctx context.Context, name string, displayName string) (bool, error)
	DecrementUsage(ctx context.Context, name string) error
	FindByName(ctx context.Context, name string) (*model.Tag, error)
	List(ctx context.Context, limit int, offset int) ([]*model.Tag, error)
	Trending(ctx context.Context, days int, limit int) ([]*model.Tag, error)
	LiveRefCount(ctx context.Context, name string) (int64, error)
	Delete(ctx context.Context, name string) error
	Merge(ctx context.Context, sources []string, target string, targetDisplayName string) error
	Count(ctx context.Context) (int64, error)
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.FullComment, error)
	FindAll(ctx context.Context, limit int, offset int) ([]*model.FullComment, error)
	Delete(ctx context.Context, commentID int64) error
	Like(ctx context.Context, commentID int64, userID uuid.UUID) error
	Unlike(ctx context.Context, commentID int64, userID uuid.UUID) error
	IsLiked(ctx context.Context, commentID int64, userID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type UserCache interface {
	Create(ctx context.Context, cachedUser model.CachedUser) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	FindByUsername(ctx context.Context, username string) (*model.CachedUser, error)
}

type Notification interface {
	Create(ctx context.Context, notification model.Notification) (*model.Notification, error)
	FindForUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id int64, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type PostgresRepository struct {
	Post
	Tag
	Comment
	UserCache
	Notification
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post: newPostRepo(db),
		Tag: newTagRepo(db),
		Comment: newCommentRepo(db),
		UserCache: newUserCacheRepo(db),
		Notification: newNotificationRepo(db),
	}
}

func ConnString(cfg config.DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)
}

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, ConnString(cfg))
}
