package service

import "errors"

// Validation errors returned before the store is touched.
var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidStatus   = errors.New("invalid child status")
	ErrInvalidAgeRange = errors.New("invalid age range")
	ErrNotParent       = errors.New("user is not a parent")
	ErrEmptyQuery      = errors.New("search term is empty")
	ErrEmptyEmail      = errors.New("email is empty")
)
