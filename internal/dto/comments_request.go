package dto

type CreateCommentRequest struct {
	PostID   int64  `json:"post_id" binding:"required"`
	ParentID *int64 `json:"parent_id"`
	Content  string `json:"content" binding:"required,min=1,max=5000"`
}

type GetCommentsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
