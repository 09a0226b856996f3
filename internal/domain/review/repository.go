package review

import "context"

type Repository interface {
	// Create reports ErrAlreadyReviewed when the account already has a review.
	Create(ctx context.Context, review *Review) error
	HasReviewed(ctx context.Context, userID string) (bool, error)
	ListWithNames(ctx context.Context) ([]WithName, error)
}
