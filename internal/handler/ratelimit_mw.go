package handler

import (
	"net/http"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// rateLimit keys the bucket by user when authenticated, by client IP
// otherwise.
func (h *Handler) rateLimit(limiter *ratelimit.KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if user := h.getCachedUserFromRequest(c); user != nil {
			key = user.ID.String()
		}

		if !limiter.Allow(key) {
			c.JSON(http.StatusTooManyRequests, dto.NewBasicResponse(false, errTooManyRequests.Error()))
			c.Abort()
			return
		}

		c.Next()
	}
}
