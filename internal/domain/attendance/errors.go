package attendance

import "errors"

var (
	ErrUserRequired   = errors.New("user id is required")
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrInvalidDate    = errors.New("invalid date")
)
