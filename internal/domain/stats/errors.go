package stats

import "errors"

var (
	ErrInvalidPeriod   = errors.New("period must be week or month")
	ErrInvalidRange    = errors.New("start date is after end date")
	ErrStudentNotFound = errors.New("student not found")
)
