package client

import "errors"

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("remote record not found")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)
