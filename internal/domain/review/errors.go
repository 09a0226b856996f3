package review

import "errors"

var (
	ErrUserRequired    = errors.New("user id is required")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrAlreadyReviewed = errors.New("you have already submitted a review")
)
