package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Token related errors
	ErrRefreshDigestChanged = errors.New("refresh digest changed")
)
