package service

import (
	"errors"
	"strings"
)

var (
	ErrForbidden          = errors.New("not authorized for this appointment")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFieldsRequired     = errors.New("all fields are required")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
