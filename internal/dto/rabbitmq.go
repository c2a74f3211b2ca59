package dto

import (
	"time"

	"github.com/google/uuid"
)

type MQPostPublishedMsg struct {
	PostID      int64     `json:"post_id"`
	UserID      uuid.UUID `json:"user_id"`
	PostTitle   string    `json:"post_title"`
	PostSlug    string    `json:"post_slug"`
	PublishedAt time.Time `json:"published_at"`
}
