package dto

type CreatePostRequest struct {
	Title   string   `json:"title" binding:"required,min=2,max=200"`
	Content string   `json:"content" binding:"required,min=20"`
	Tags    []string `json:"tags" binding:"max=10"`
	IsDraft bool     `json:"is_draft"`
}

type EditPostRequest struct {
	ID      int64     `json:"id" binding:"required"`
	Title   *string   `json:"title" binding:"omitempty,min=2,max=200"`
	Content *string   `json:"content" binding:"omitempty,min=20"`
	Tags    *[]string `json:"tags" binding:"omitempty,max=10"`
}

type GetPostsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
