package handler

import (
	"net/http"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) aiSuggestTitles(c *gin.Context) {
	var input dto.SuggestTitlesRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	titles, err := h.services.AI.SuggestTitles(c.Request.Context(), input.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuggestTitlesResponse{Titles: titles})
}

func (h *Handler) aiSummarize(c *gin.Context) {
	var input dto.SummarizeRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	summary, err := h.services.AI.Summarize(c.Request.Context(), input.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SummarizeResponse{Summary: summary})
}
