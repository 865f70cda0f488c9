package client

import "errors"

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyExists    = errors.New("user already exists")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotAuthenticated = errors.New("not signed in")
)
