package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatusTransition = errors.New("appointment is already completed or cancelled")
	ErrInvalidTargetStatus     = errors.New("status must be either completed or cancelled")
)
