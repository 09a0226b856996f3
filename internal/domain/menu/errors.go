package menu

import "errors"

var (
	ErrMenuDayNotFound = errors.New("menu day not found")
	ErrMenuDayRequired = errors.New("menu day id is required")
)
