package service

import "errors"

var (
	ErrInternal = errors.New("internal server error")
	ErrPostNotFound = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrParentCommentNotFound = errors.New("parent comment not found")
	ErrTagNotFound = errors.New("tag not found")
	ErrTagInUse = errors.New("tag is still referenced by at least one post")
	ErrSlugExhausted = errors.New("could not derive a unique slug for this title")
	ErrNoAccess = errors.New("no access")
	ErrAIUnavailable = errors.New("ai service is unavailable")
	ErrFileMustBeImage = errors.New("file must be an image")
	ErrFileMustHaveAValidExtension = errors.New("file must have a valid extension")
	ErrFailedToUploadPostImageToCDN = errors.New("failed to upload post image to CDN")
)
