package upload

import "errors"

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed, expected jpeg, png, gif or webp image")
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidName     = errors.New("invalid stored file name")
)
