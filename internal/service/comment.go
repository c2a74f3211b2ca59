package service

import (
	"context"
	"fmt"
	"time"

	"github.com/BloggingApp/blog-service/internal/cache"
	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/realtime"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo *repository.Repository
	notifications Notification
	hub *realtime.Hub
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, notifications Notification, hub *realtime.Hub) Comment {
	return &commentService{
		logger: logger,
		repo: repo,
		notifications: notifications,
		hub: hub,
	}
}

func (s *commentService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, input.PostID)
	if err == pgx.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", input.PostID, err.Error())
		return nil, ErrInternal
	}

	var notifyParentAuthor *uuid.UUID
	if input.ParentID != nil {
		parent, err := s.repo.Postgres.Comment.FindByID(ctx, *input.ParentID)
		if err == pgx.ErrNoRows {
			return nil, ErrParentCommentNotFound
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to find parent comment(%d): %s", *input.ParentID, err.Error())
			return nil, ErrInternal
		}
		if parent.PostID != input.PostID {
			return nil, ErrParentCommentNotFound
		}
		if parent.AuthorID != authorID {
			notifyParentAuthor = &parent.AuthorID
		}
	}

	comment, err := s.repo.Postgres.Comment.Create(ctx, model.Comment{
		ParentID: input.ParentID,
		PostID: input.PostID,
		AuthorID: authorID,
		Content: input.Content,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create comment on post(%d): %s", input.PostID, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Cache.DeleteByPattern(ctx, cache.PostCommentsPattern(input.PostID)); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%d) comments cache: %s", input.PostID, err.Error())
	}

	s.hub.Publish(realtime.PostRoom(input.PostID), "new_comment", comment)

	s.notifyAboutComment(ctx, post, comment, notifyParentAuthor)

	return comment, nil
}

// notifyAboutComment fans out after the write. A reply notifies the
// parent comment's author, a top-level comment notifies the post author.
// Self comments notify no one.
func (s *commentService) notifyAboutComment(ctx context.Context, post *model.FullPost, comment *model.Comment, parentAuthor *uuid.UUID) {
	recipient := post.Post.AuthorID
	title := "New comment"
	message := fmt.Sprintf("Someone commented on your post %q", post.Post.Title)
	if parentAuthor != nil {
		recipient = *parentAuthor
		title = "New reply"
		message = "Someone replied to your comment"
	}
	if recipient == comment.AuthorID {
		return
	}

	if _, err := s.notifications.Create(ctx, model.Notification{
		UserID: recipient,
		SenderID: &comment.AuthorID,
		Type: model.NotificationTypeComment,
		Title: title,
		Message: message,
		PostID: &comment.PostID,
		CommentID: &comment.ID,
	}); err != nil {
		s.logger.Sugar().Errorf("failed to create comment(%d) notification: %s", comment.ID, err.Error())
	}
}

// buildCommentTree assembles flat rows into a reply tree in two passes.
// Rows whose parent is missing from the page are kept as top-level nodes
// so pagination never hides a loaded comment.
func buildCommentTree(comments []*model.FullComment) []*model.CommentNode {
	nodes := make(map[int64]*model.CommentNode, len(comments))
	for _, comment := range comments {
		nodes[comment.Comment.ID] = &model.CommentNode{
			Comment: comment.Comment,
			Author: comment.Author,
		}
	}

	roots := make([]*model.CommentNode, 0, len(comments))
	for _, comment := range comments {
		node := nodes[comment.Comment.ID]

		if comment.Comment.ParentID != nil {
			parent, ok := nodes[*comment.Comment.ParentID]
			if ok && parent != node {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}

		roots = append(roots, node)
	}

	return roots
}

func (s *commentService) FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.CommentNode, error) {
	comments, err := cache.GetOrSet(ctx, s.repo.Cache, cache.PostCommentsKey(postID, limit, offset), time.Minute*5, func() ([]*model.FullComment, error) {
		return s.repo.Postgres.Comment.FindPostComments(ctx, postID, limit, offset)
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) comments: %s", postID, err.Error())
		return nil, ErrInternal
	}

	return buildCommentTree(comments), nil
}

func (s *commentService) FindAll(ctx context.Context, limit int, offset int) ([]*model.CommentNode, error) {
	comments, err := s.repo.Postgres.Comment.FindAll(ctx, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comments: %s", err.Error())
		return nil, ErrInternal
	}

	return buildCommentTree(comments), nil
}

func (s *commentService) Delete(ctx context.Context, commentID int64, requesterID uuid.UUID, moderator bool) error {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, commentID)
	if err == pgx.ErrNoRows {
		return ErrCommentNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}
	if comment.AuthorID != requesterID && !moderator {
		return ErrNoAccess
	}

	if err := s.repo.Postgres.Comment.Delete(ctx, commentID); err != nil {
		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}

	if moderator && comment.AuthorID != requesterID {
		if _, err := s.notifications.Create(ctx, model.Notification{
			UserID: comment.AuthorID,
			Type: model.NotificationTypeAdminAction,
			Title: "Comment removed",
			Message: "Your comment was removed by a moderator",
			PostID: &comment.PostID,
		}); err != nil {
			s.logger.Sugar().Errorf("failed to create moderation notification for comment(%d): %s", commentID, err.Error())
		}
	}

	if err := s.repo.Cache.DeleteByPattern(ctx, cache.PostCommentsPattern(comment.PostID)); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%d) comments cache: %s", comment.PostID, err.Error())
	}

	return nil
}

func (s *commentService) Like(ctx context.Context, commentID int64, userID uuid.UUID, unlike bool) error {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, commentID)
	if err == pgx.ErrNoRows {
		return ErrCommentNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}

	if unlike {
		err = s.repo.Postgres.Comment.Unlike(ctx, commentID, userID)
	} else {
		err = s.repo.Postgres.Comment.Like(ctx, commentID, userID)
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to update like on comment(%d) by user(%s): %s", commentID, userID.String(), err.Error())
		return ErrInternal
	}

	if err := s.repo.Cache.DeleteByPattern(ctx, cache.PostCommentsPattern(comment.PostID)); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%d) comments cache: %s", comment.PostID, err.Error())
	}

	return nil
}

func (s *commentService) IsLiked(ctx context.Context, commentID int64, userID uuid.UUID) bool {
	isLiked, err := s.repo.Postgres.Comment.IsLiked(ctx, commentID, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check like on comment(%d) by user(%s): %s", commentID, userID.String(), err.Error())
		return false
	}

	return isLiked
}
