package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type notificationRepo struct {
	db *pgxpool.Pool
}

func newNotificationRepo(db *pgxpool.Pool) Notification {
	return &notificationRepo{
		db: db,
	}
}

func (r *notificationRepo) Create(ctx context.Context, notification model.Notification) (*model.Notification, error) {
	notification.CreatedAt = time.Now()
	if notification.Metadata == nil {
		notification.Metadata = map[string]interface{}{}
	}

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO notifications(user_id, sender_id, type, title, message, post_id, comment_id, metadata, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		notification.UserID,
		notification.SenderID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.PostID,
		notification.CommentID,
		notification.Metadata,
		notification.CreatedAt,
	).Scan(&notification.ID); err != nil {
		return nil, err
	}

	return &notification, nil
}

func (r *notificationRepo) FindForUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.Notification, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, sender_id, type, title, message, post_id, comment_id, read, metadata, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
		OFFSET $3`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.SenderID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.PostID,
			&n.CommentID,
			&n.Read,
			&n.Metadata,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}

		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, id int64, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "UPDATE notifications SET read = TRUE WHERE user_id = $1", userID)
	return err
}

func (r *notificationRepo) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM notifications WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE", userID).Scan(&count)
	return count, err
}
