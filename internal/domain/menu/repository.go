package menu

import "context"

type Repository interface {
	ListDays(ctx context.Context) ([]Day, error)
	// UpdateDay overwrites the three meal texts of one row and reports
	// ErrMenuDayNotFound when the id is unknown.
	UpdateDay(ctx context.Context, input UpdateInput) error
}
