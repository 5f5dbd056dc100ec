package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedEvent = errors.New("unsupported clerk event")
)
