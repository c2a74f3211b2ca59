package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

func (h *Handler) usersGetMe(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	c.JSON(http.StatusOK, *user)
}

func (h *Handler) usersGetByUsername(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))

	user, err := h.services.UserCache.FindByUsername(c.Request.Context(), username)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "user not found"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
