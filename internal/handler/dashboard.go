package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) dashboardSummary(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	summary, err := h.services.Dashboard.Summary(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
