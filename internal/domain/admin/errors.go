package admin

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("only admins can perform this action")
	ErrUnknownAction    = errors.New("invalid action")
	ErrInvalidTarget    = errors.New("targetUserId must be a valid user id")
	ErrTargetNotFound   = errors.New("target user not found")
	ErrPasswordRequired = errors.New("newPassword is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrIsInRequired     = errors.New("isIn is required")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
)
