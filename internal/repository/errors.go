package repository

import "errors"

var (
	// ErrEmailTaken is returned when an email address is already registered
	ErrEmailTaken = errors.New("email already registered")

	// ErrNicknameTaken is returned when a nickname is already in use
	ErrNicknameTaken = errors.New("nickname already taken")
)
