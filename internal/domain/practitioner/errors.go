package practitioner

import "errors"

var (
	ErrPractitionerNotFound    = errors.New("doctor not found")
	ErrEmailTaken              = errors.New("doctor with this email already exists")
	ErrPractitionerUnavailable = errors.New("doctor not available")
	ErrInvalidFee              = errors.New("fees must be a positive amount")
	ErrImageRequired           = errors.New("doctor image is required")
)
