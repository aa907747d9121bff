package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidPassword = errors.New("password must be between 8 and 72 bytes")
	ErrInvalidFullName = errors.New("full name must be at most 200 characters")
)
