package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BloggingApp/blog-service/internal/cache"
	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/rabbitmq"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/BloggingApp/blog-service/internal/search"
	"github.com/BloggingApp/blog-service/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// maxSlugAttempts bounds the collision suffix loop. The unique index on
// posts.slug is the final guard against races; this bound only stops the
// loop from spinning forever on a pathological title.
const maxSlugAttempts = 50

type postService struct {
	logger *zap.Logger
	repo *repository.Repository
	tags Tag
	notifications Notification
	searchIndex *search.Index
	mq *rabbitmq.MQConn
	httpClient *http.Client
}

func newPostService(logger *zap.Logger, repo *repository.Repository, tags Tag, notifications Notification, searchIndex *search.Index, mq *rabbitmq.MQConn) Post {
	return &postService{
		logger: logger,
		repo: repo,
		tags: tags,
		notifications: notifications,
		searchIndex: searchIndex,
		mq: mq,
		httpClient: &http.Client{},
	}
}

func normalizeTagSet(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var tags []string
	for _, tag := range raw {
		name := utils.NormalizeTagName(tag)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}

func tagSetDiff(previous []string, current []string) (added []string, removed []string) {
	prevSet := make(map[string]struct{}, len(previous))
	for _, tag := range previous {
		prevSet[tag] = struct{}{}
	}
	curSet := make(map[string]struct{}, len(current))
	for _, tag := range current {
		curSet[tag] = struct{}{}
	}

	for _, tag := range current {
		if _, ok := prevSet[tag]; !ok {
			added = append(added, tag)
		}
	}
	for _, tag := range previous {
		if _, ok := curSet[tag]; !ok {
			removed = append(removed, tag)
		}
	}

	return added, removed
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error) {
	base := utils.Slugify(input.Title)
	if base == "" {
		base = "post"
	}

	tags := normalizeTagSet(input.Tags)

	post := model.Post{
		AuthorID: authorID,
		Title: input.Title,
		Content: input.Content,
		IsDraft: input.IsDraft,
	}

	var createdPost *model.Post
	for attempt := 0; attempt <= maxSlugAttempts; attempt++ {
		slug := base
		if attempt > 0 {
			slug = base + "-" + strconv.Itoa(attempt)
		}

		// Best-effort pre-check; the unique index catches what it misses.
		exists, err := s.repo.Postgres.Post.SlugExists(ctx, slug)
		if err != nil {
			s.logger.Sugar().Errorf("failed to check slug(%s): %s", slug, err.Error())
			return nil, ErrInternal
		}
		if exists {
			continue
		}

		post.Slug = slug
		createdPost, err = s.repo.Postgres.Post.Create(ctx, post, tags)
		if err == postgres.ErrSlugTaken {
			continue
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
			return nil, ErrInternal
		}
		break
	}
	if createdPost == nil {
		s.logger.Sugar().Errorf("exhausted %d slug attempts for title(%s)", maxSlugAttempts, input.Title)
		return nil, ErrSlugExhausted
	}

	s.tags.ApplyTagDelta(ctx, tags, nil)

	if !createdPost.IsDraft {
		s.indexPost(createdPost, tags)
	}

	s.invalidateAuthor(ctx, authorID)

	return createdPost, nil
}

func (s *postService) Edit(ctx context.Context, authorID uuid.UUID, input dto.EditPostRequest) error {
	existing, err := s.repo.Postgres.Post.FindByID(ctx, input.ID)
	if err == pgx.ErrNoRows {
		return ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", input.ID, err.Error())
		return ErrInternal
	}
	if existing.Post.AuthorID != authorID {
		return ErrNoAccess
	}

	updates := map[string]interface{}{}
	if input.Content != nil {
		updates["content"] = *input.Content
	}

	if input.Title != nil && *input.Title != existing.Post.Title {
		updates["title"] = *input.Title

		slug, err := s.resolveSlug(ctx, *input.Title, existing.Post.Slug)
		if err != nil {
			return err
		}
		updates["slug"] = slug
	}

	if len(updates) > 0 {
		if err := s.repo.Postgres.Post.Update(ctx, input.ID, updates); err != nil {
			s.logger.Sugar().Errorf("failed to update post(%d): %s", input.ID, err.Error())
			return ErrInternal
		}
	}

	if input.Tags != nil {
		current := normalizeTagSet(*input.Tags)
		added, removed := tagSetDiff(existing.Tags, current)

		if len(added) > 0 || len(removed) > 0 {
			if err := s.repo.Postgres.Post.UpdateTags(ctx, input.ID, added, removed); err != nil {
				s.logger.Sugar().Errorf("failed to update post(%d) tags: %s", input.ID, err.Error())
				return ErrInternal
			}

			s.tags.ApplyTagDelta(ctx, added, removed)
		}
	}

	updated, err := s.repo.Postgres.Post.FindByID(ctx, input.ID)
	if err == nil && !updated.Post.IsDraft {
		s.indexPost(&updated.Post, updated.Tags)
	}

	s.invalidatePost(ctx, input.ID)
	s.invalidateAuthor(ctx, authorID)

	return nil
}

// resolveSlug rederives a slug for a changed title, reusing the bounded
// suffix loop. keep short-circuits when the title still maps to the
// post's current slug.
func (s *postService) resolveSlug(ctx context.Context, title string, keep string) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "post"
	}

	for attempt := 0; attempt <= maxSlugAttempts; attempt++ {
		slug := base
		if attempt > 0 {
			slug = base + "-" + strconv.Itoa(attempt)
		}

		if slug == keep {
			return slug, nil
		}

		exists, err := s.repo.Postgres.Post.SlugExists(ctx, slug)
		if err != nil {
			s.logger.Sugar().Errorf("failed to check slug(%s): %s", slug, err.Error())
			return "", ErrInternal
		}
		if !exists {
			return slug, nil
		}
	}

	s.logger.Sugar().Errorf("exhausted %d slug attempts for title(%s)", maxSlugAttempts, title)
	return "", ErrSlugExhausted
}

func (s *postService) Publish(ctx context.Context, postID int64, authorID uuid.UUID) error {
	post, err := s.repo.Postgres.Post.FindByID(ctx, postID)
	if err == pgx.ErrNoRows {
		return ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return ErrInternal
	}
	if post.Post.AuthorID != authorID {
		return ErrNoAccess
	}
	if !post.Post.IsDraft {
		return nil
	}

	if err := s.repo.Postgres.Post.Update(ctx, postID, map[string]interface{}{"is_draft": false}); err != nil {
		s.logger.Sugar().Errorf("failed to publish post(%d): %s", postID, err.Error())
		return ErrInternal
	}

	s.indexPost(&post.Post, post.Tags)

	// Side effects after the authoritative write: both are best-effort
	// and never roll the publish back.
	if _, err := s.notifications.Create(ctx, model.Notification{
		UserID: authorID,
		Type: model.NotificationTypePostPublished,
		Title: "Post published",
		Message: fmt.Sprintf("Your post %q is now live", post.Post.Title),
		PostID: &postID,
	}); err != nil {
		s.logger.Sugar().Errorf("failed to create publish notification for post(%d): %s", postID, err.Error())
	}

	msg, err := json.Marshal(dto.MQPostPublishedMsg{
		PostID: postID,
		UserID: authorID,
		PostTitle: post.Post.Title,
		PostSlug: post.Post.Slug,
		PublishedAt: time.Now(),
	})
	if err == nil {
		if err := s.mq.Publish(ctx, rabbitmq.POST_PUBLISHED_QUEUE, msg); err != nil {
			s.logger.Sugar().Errorf("failed to publish post(%d) message to rabbitmq: %s", postID, err.Error())
		}
	}

	s.invalidatePost(ctx, postID)
	s.invalidateAuthor(ctx, authorID)

	return nil
}

func (s *postService) Delete(ctx context.Context, postID int64, authorID uuid.UUID) error {
	post, err := s.repo.Postgres.Post.FindByID(ctx, postID)
	if err == pgx.ErrNoRows {
		return ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return ErrInternal
	}
	if post.Post.AuthorID != authorID {
		return ErrNoAccess
	}

	if err := s.repo.Postgres.Post.Delete(ctx, postID); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d): %s", postID, err.Error())
		return ErrInternal
	}

	// Deletion is a tag delta with the full set removed.
	s.tags.ApplyTagDelta(ctx, nil, post.Tags)

	if err := s.searchIndex.DeletePost(strconv.FormatInt(postID, 10)); err != nil {
		s.logger.Sugar().Errorf("failed to remove post(%d) from search index: %s", postID, err.Error())
	}

	s.invalidatePost(ctx, postID)
	s.invalidateAuthor(ctx, authorID)

	return nil
}

func (s *postService) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	cachedPost, err := cache.Get[model.FullPost](ctx, s.repo.Cache, cache.PostKey(id))
	if err == nil && cachedPost != nil {
		s.incrViews(cachedPost.Post.ID)
		return cachedPost, nil
	}
	if err != nil && err != cache.ErrCacheMiss {
		s.logger.Sugar().Errorf("failed to get post(%d) from cache: %s", id, err.Error())
	}

	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Cache.Set(ctx, cache.PostKey(id), post, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) in cache: %s", id, err.Error())
	}

	s.incrViews(post.Post.ID)

	return post, nil
}

func (s *postService) incrViews(postID int64) {
	go func(id int64) {
		ctx := context.Background()
		if err := s.repo.Postgres.Post.IncrViews(ctx, id); err != nil {
			s.logger.Sugar().Errorf("failed to increment views for post(%d): %s", id, err.Error())
		}
	}(postID)
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, includeDrafts bool, limit int, offset int) ([]*model.AuthorPost, error) {
	// Draft listings are private to the author; only the public view is cached.
	if includeDrafts {
		posts, err := s.repo.Postgres.Post.FindAuthorPosts(ctx, authorID, true, limit, offset)
		if err != nil {
			s.logger.Sugar().Errorf("failed to find author(%s) posts: %s", authorID.String(), err.Error())
			return nil, ErrInternal
		}
		return posts, nil
	}

	posts, err := cache.GetOrSet(ctx, s.repo.Cache, cache.AuthorPostsKey(authorID.String(), limit, offset), time.Hour, func() ([]*model.AuthorPost, error) {
		return s.repo.Postgres.Post.FindAuthorPosts(ctx, authorID, false, limit, offset)
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) FindUserLikes(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	posts, err := s.repo.Postgres.Post.FindUserLikes(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get user(%s) likes: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) GetTrending(ctx context.Context, hours int, limit int) ([]*model.FullPost, error) {
	posts, err := cache.GetOrSet(ctx, s.repo.Cache, cache.TrendingPostsKey(hours, limit), time.Minute*10, func() ([]*model.FullPost, error) {
		return s.repo.Postgres.Post.FindTrending(ctx, hours, limit)
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to get trending posts: %s", err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) Like(ctx context.Context, postID int64, userID uuid.UUID, unlike bool) error {
	post, err := s.repo.Postgres.Post.FindByID(ctx, postID)
	if err == pgx.ErrNoRows {
		return ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return ErrInternal
	}

	if unlike {
		err = s.repo.Postgres.Post.Unlike(ctx, postID, userID)
	} else {
		err = s.repo.Postgres.Post.Like(ctx, postID, userID)
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to update like on post(%d) by user(%s): %s", postID, userID.String(), err.Error())
		return ErrInternal
	}

	if !unlike && post.Post.AuthorID != userID {
		if _, err := s.notifications.Create(ctx, model.Notification{
			UserID: post.Post.AuthorID,
			SenderID: &userID,
			Type: model.NotificationTypeLike,
			Title: "New like",
			Message: fmt.Sprintf("Someone liked your post %q", post.Post.Title),
			PostID: &postID,
		}); err != nil {
			s.logger.Sugar().Errorf("failed to create like notification for post(%d): %s", postID, err.Error())
		}
	}

	s.invalidatePost(ctx, postID)

	return nil
}

func (s *postService) IsLiked(ctx context.Context, postID int64, userID uuid.UUID) bool {
	isLiked, err := s.repo.Postgres.Post.IsLiked(ctx, postID, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check like on post(%d) by user(%s): %s", postID, userID.String(), err.Error())
		return false
	}

	return isLiked
}

func (s *postService) UploadTempPostImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrFileMustBeImage
	}

	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", ErrFileMustHaveAValidExtension
	}

	return s.uploadImageToCDN("post-images", file, fileHeader)
}

func (s *postService) uploadImageToCDN(path string, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	endpoint := "/upload"
	url := viper.GetString("cdn.origin") + endpoint

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	fileWriter, err := writer.CreateFormFile("file", fileHeader.Filename)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create file part for CDN request: %s", err.Error())
		return "", ErrInternal
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.logger.Sugar().Errorf("failed to seek to the start of the file: %s", err.Error())
		return "", ErrInternal
	}

	if _, err := io.Copy(fileWriter, file); err != nil {
		s.logger.Sugar().Errorf("failed to copy file content for CDN request: %s", err.Error())
		return "", ErrInternal
	}

	if err := writer.WriteField("path", path); err != nil {
		s.logger.Sugar().Errorf("failed to write path field for CDN request: %s", err.Error())
		return "", ErrInternal
	}

	if err := writer.Close(); err != nil {
		s.logger.Sugar().Errorf("failed to close writer for CDN request: %s", err.Error())
		return "", ErrInternal
	}

	req, err := http.NewRequest(http.MethodPost, url, &requestBody)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create CDN request: %s", err.Error())
		return "", ErrInternal
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Add("type", "IMAGE")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to do CDN request: %s", err.Error())
		return "", ErrInternal
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read response body from CDN: %s", err.Error())
		return "", ErrInternal
	}

	if resp.StatusCode != http.StatusOK {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(body, &bodyJSON); err != nil {
			s.logger.Sugar().Errorf("failed to decode error response from CDN: %s", err.Error())
		} else {
			s.logger.Sugar().Errorf("ERROR from CDN endpoint(%s), code(%d), details: %s", endpoint, resp.StatusCode, bodyJSON["details"])
		}
		return "", ErrFailedToUploadPostImageToCDN
	}

	return string(body), nil
}

func (s *postService) indexPost(post *model.Post, tags []string) {
	if s.searchIndex == nil {
		return
	}

	if err := s.searchIndex.IndexPost(&search.PostDocument{
		ID: strconv.FormatInt(post.ID, 10),
		Title: post.Title,
		Content: post.Content,
		Tags: tags,
	}); err != nil {
		s.logger.Sugar().Errorf("failed to index post(%d): %s", post.ID, err.Error())
	}
}

func (s *postService) invalidatePost(ctx context.Context, postID int64) {
	if err := s.repo.Cache.DeleteByPattern(ctx, cache.PostKeysPattern(postID)); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%d) cache: %s", postID, err.Error())
	}
}

func (s *postService) invalidateAuthor(ctx context.Context, authorID uuid.UUID) {
	if err := s.repo.Cache.DeleteByPattern(ctx, cache.AuthorPostsPattern(authorID.String())); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate author(%s) posts cache: %s", authorID.String(), err.Error())
	}
}
