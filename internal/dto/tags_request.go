package dto

type GetTagsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type MergeTagsRequest struct {
	Sources []string `json:"sources" binding:"required,min=1"`
	Target  string   `json:"target" binding:"required"`
}
