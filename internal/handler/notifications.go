package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/realtime"
	"github.com/gin-gonic/gin"
)

func notificationIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return 0, false
	}
	return id, true
}

func (h *Handler) notificationsGet(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	limit, err0 := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, err1 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitAndOffsetMustBeInt.Error()))
		return
	}

	notifications, err := h.services.Notification.FindForUser(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) notificationsUnreadCount(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	count, err := h.services.Notification.CountUnread(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) notificationsRead(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	id, ok := notificationIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Notification.MarkRead(c.Request.Context(), id, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) notificationsReadAll(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	if err := h.services.Notification.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) notificationsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	id, ok := notificationIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Notification.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

// notificationsStream pushes the caller's notifications over SSE as they
// are created.
func (h *Handler) notificationsStream(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	events, unsubscribe := h.hub.Subscribe(realtime.UserRoom(user.ID.String()))
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
