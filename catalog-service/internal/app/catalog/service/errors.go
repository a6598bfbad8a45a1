package service

import "errors"

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrCategoryInUse         = errors.New("category is referenced by products")
	ErrUploadFailed          = errors.New("file upload failed")
)
