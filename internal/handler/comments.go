package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func commentIDParam(c *gin.Context) (int64, bool) {
	commentID, err := strconv.ParseInt(strings.TrimSpace(c.Param("commentID")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidCommentID.Error()))
		return 0, false
	}
	return commentID, true
}

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.CreateCommentRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, *comment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	postID, err := strconv.ParseInt(strings.TrimSpace(c.Param("postID")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.GetCommentsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), postID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) modGetAllComments(c *gin.Context) {
	var input dto.GetCommentsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comments, err := h.services.Comment.FindAll(c.Request.Context(), input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	moderator := c.GetBool("moderator")

	if err := h.services.Comment.Delete(c.Request.Context(), commentID, user.ID, moderator); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) commentsIsLiked(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	isLiked := h.services.Comment.IsLiked(c.Request.Context(), commentID, user.ID)

	c.JSON(http.StatusOK, gin.H{"isLiked": isLiked})
}

func (h *Handler) commentsLike(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Comment.Like(c.Request.Context(), commentID, user.ID, false); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, nil)
}

func (h *Handler) commentsUnlike(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Comment.Like(c.Request.Context(), commentID, user.ID, true); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, nil)
}
