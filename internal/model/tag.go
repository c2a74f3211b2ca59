package model

import "time"

type Tag struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Color       string    `json:"color"`
	Category    string    `json:"category"`
	PostCount   int64     `json:"post_count"`
	Active      bool      `json:"active"`
	LastUsedAt  time.Time `json:"last_used_at"`
	CreatedAt   time.Time `json:"created_at"`
}
