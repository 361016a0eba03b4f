package entity

import "errors"

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrPresentationNotFound = errors.New("presentation not found")
	ErrLegacyIDNotFound     = errors.New("legacy id not found")
)
