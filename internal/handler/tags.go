package handler

import (
	"net/http"
	"strconv"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) tagsList(c *gin.Context) {
	var input dto.GetTagsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	tags, err := h.services.Tag.List(c.Request.Context(), input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

func (h *Handler) tagsTrending(c *gin.Context) {
	days, err0 := strconv.Atoi(c.DefaultQuery("days", "7"))
	limit, err1 := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitAndOffsetMustBeInt.Error()))
		return
	}

	tags, err := h.services.Tag.Trending(c.Request.Context(), days, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

func (h *Handler) tagsGetByName(c *gin.Context) {
	tag, err := h.services.Tag.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

func (h *Handler) modDeleteTag(c *gin.Context) {
	if err := h.services.Tag.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) modMergeTags(c *gin.Context) {
	var input dto.MergeTagsRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Tag.Merge(c.Request.Context(), input.Sources, input.Target); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
