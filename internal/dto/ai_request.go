package dto

type SuggestTitlesRequest struct {
	Content string `json:"content" binding:"required,min=20"`
}

type SuggestTitlesResponse struct {
	Titles []string `json:"titles"`
}

type SummarizeRequest struct {
	Content string `json:"content" binding:"required,min=20"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}
