package service

import (
	"context"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/realtime"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type notificationService struct {
	logger *zap.Logger
	repo *repository.Repository
	hub *realtime.Hub
}

func newNotificationService(logger *zap.Logger, repo *repository.Repository, hub *realtime.Hub) Notification {
	return &notificationService{
		logger: logger,
		repo: repo,
		hub: hub,
	}
}

// Create persists the notification first, then pushes it to the
// recipient's room. Delivery is fire-and-forget; the stored row is the
// source of truth for anyone not connected.
func (s *notificationService) Create(ctx context.Context, notification model.Notification) (*model.Notification, error) {
	created, err := s.repo.Postgres.Notification.Create(ctx, notification)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create notification for user(%s): %s", notification.UserID.String(), err.Error())
		return nil, ErrInternal
	}

	event := "notification"
	if created.Type == model.NotificationTypeLike {
		event = "like_notification"
	}
	s.hub.Publish(realtime.UserRoom(created.UserID.String()), event, created)

	return created, nil
}

func (s *notificationService) FindForUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.Notification, error) {
	notifications, err := s.repo.Postgres.Notification.FindForUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find notifications for user(%s): %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	if err := s.repo.Postgres.Notification.MarkRead(ctx, id, userID); err != nil {
		s.logger.Sugar().Errorf("failed to mark notification(%d) as read: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Postgres.Notification.MarkAllRead(ctx, userID); err != nil {
		s.logger.Sugar().Errorf("failed to mark notifications as read for user(%s): %s", userID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *notificationService) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	if err := s.repo.Postgres.Notification.Delete(ctx, id, userID); err != nil {
		s.logger.Sugar().Errorf("failed to delete notification(%d): %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *notificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.Postgres.Notification.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count unread notifications for user(%s): %s", userID.String(), err.Error())
		return 0, ErrInternal
	}

	return count, nil
}
