package post

import "errors"

var (
	ErrNotFound      = errors.New("post: not found")
	ErrSlugTaken     = errors.New("post: slug already in use")
	ErrNotAuthor     = errors.New("post: account is not the author")
	ErrEmptyTitle    = errors.New("post: title is required")
	ErrEmptyContent  = errors.New("post: content is required")
	ErrTitleTooLong  = errors.New("post: title exceeds 255 characters")
	ErrInvalidStatus = errors.New("post: unknown status")
)
