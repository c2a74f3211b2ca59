package dto

import "github.com/BloggingApp/blog-service/internal/model"

type GetPost struct {
	Post    model.FullPost `json:"post"`
	IsLiked bool           `json:"is_liked"`
}

type SearchHit struct {
	Post      model.FullPost      `json:"post"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments"`
}
