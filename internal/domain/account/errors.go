package account

import "errors"

var (
	ErrAccountNotFound = errors.New("user not found, please register first")
	ErrEmailTaken      = errors.New("user already exists")
	ErrInvalidGender   = errors.New("invalid gender value")
)
