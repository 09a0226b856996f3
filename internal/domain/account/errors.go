package account

import "errors"

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrFullNameRequired   = errors.New("full name is required")
	ErrInvalidRegNumber   = errors.New("registration number must be 7 digits")
	ErrInvalidRole        = errors.New("invalid role")
	ErrAlreadyRegistered  = errors.New("this email is already registered")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountDeleted     = errors.New("account has been deleted")
	ErrIdentityNotFound   = errors.New("identity user not found")
)
