package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized = errors.New("user is not authorized")
	errInvalidPostID = errors.New("invalid post ID")
	errInvalidCommentID = errors.New("invalid comment ID")
	errInvalidID = errors.New("invalid ID")
	errHoursAndLimitMustBeInt = errors.New("hours and limit must be int")
	errLimitAndOffsetMustBeInt = errors.New("limit and offset must be int")
	errTooManyRequests = errors.New("too many requests")
)

func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrParentCommentNotFound),
		errors.Is(err, service.ErrTagNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoAccess):
		return http.StatusForbidden
	case errors.Is(err, service.ErrTagInUse),
		errors.Is(err, service.ErrSlugExhausted):
		return http.StatusConflict
	case errors.Is(err, service.ErrAIUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrFileMustBeImage),
		errors.Is(err, service.ErrFileMustHaveAValidExtension):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), dto.NewBasicResponse(false, err.Error()))
}
