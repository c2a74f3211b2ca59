package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func postIDParam(c *gin.Context) (int64, bool) {
	postID, err := strconv.ParseInt(strings.TrimSpace(c.Param("postID")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return 0, false
	}
	return postID, true
}

func (h *Handler) postsUploadImage(c *gin.Context) {
	file, fileHeader, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	url, err := h.services.Post.UploadTempPostImage(c.Request.Context(), file, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, url)
}

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, *createdPost)
}

func (h *Handler) postsEdit(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.EditPostRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Post.Edit(c.Request.Context(), user.ID, input); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsPublish(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Post.Publish(c.Request.Context(), postID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), postID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) postsGetMy(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), user.ID, true, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGet(c *gin.Context) {
	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), userID, false, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Drafts stay private to their author.
	if post.Post.IsDraft && (user == nil || user.ID != post.Post.AuthorID) {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	postDto := dto.GetPost{
		Post: *post,
	}

	if user != nil {
		postDto.IsLiked = h.services.Post.IsLiked(c.Request.Context(), post.Post.ID, user.ID)
	}

	c.JSON(http.StatusOK, postDto)
}

func (h *Handler) postsIsLiked(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	isLiked := h.services.Post.IsLiked(c.Request.Context(), postID, user.ID)

	c.JSON(http.StatusOK, gin.H{"isLiked": isLiked})
}

func (h *Handler) postsLike(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Post.Like(c.Request.Context(), postID, user.ID, false); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, nil)
}

func (h *Handler) postsUnlike(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Post.Like(c.Request.Context(), postID, user.ID, true); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, nil)
}

func (h *Handler) postsGetLiked(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	posts, err := h.services.Post.FindUserLikes(c.Request.Context(), user.ID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsTrending(c *gin.Context) {
	hours, err0 := strconv.Atoi(c.DefaultQuery("hours", "24"))
	limit, err1 := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errHoursAndLimitMustBeInt.Error()))
		return
	}

	posts, err := h.services.Post.GetTrending(c.Request.Context(), hours, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsSearch(c *gin.Context) {
	limit, err0 := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, err1 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitAndOffsetMustBeInt.Error()))
		return
	}
	query := c.Query("q")

	result, err := h.services.Search.Search(c.Request.Context(), query, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// postsStream pushes live post events (new comments) over SSE.
func (h *Handler) postsStream(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	events, unsubscribe := h.hub.Subscribe(realtime.PostRoom(postID))
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-events:
			if !open {
				return false
			}
			c.SSEvent(event.Event, event.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
