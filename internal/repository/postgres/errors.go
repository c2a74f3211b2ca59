package postgres

import "errors"

var (
	ErrSlugTaken = errors.New("post slug is already taken")
	ErrFieldsNotAllowedToUpdate = errors.New("some fields are not allowed to be updated")
)
