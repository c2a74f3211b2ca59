package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeComment       = "comment"
	NotificationTypeLike          = "like"
	NotificationTypeAdminAction   = "admin_action"
	NotificationTypeSystem        = "system"
	NotificationTypePostPublished = "post_published"
)

type Notification struct {
	ID        int64                  `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	SenderID  *uuid.UUID             `json:"sender_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	PostID    *int64                 `json:"post_id"`
	CommentID *int64                 `json:"comment_id"`
	Read      bool                   `json:"read"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}
