package dto

import "github.com/BloggingApp/blog-service/internal/model"

type DashboardSummary struct {
	Posts               int64        `json:"posts"`
	Comments            int64        `json:"comments"`
	Tags                int64        `json:"tags"`
	UnreadNotifications int64        `json:"unread_notifications"`
	TrendingTags        []*model.Tag `json:"trending_tags"`
}
