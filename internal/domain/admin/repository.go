package admin

import (
	"context"
	"time"
)

// Store removes an account's rows. Deletes run inside Transaction so the
// cascade is all-or-nothing.
type Store interface {
	Transaction(ctx context.Context, fn func(Store) error) error
	ProfileExists(ctx context.Context, userID string) (bool, error)
	DeleteAttendance(ctx context.Context, userID string) (int64, error)
	DeleteReviews(ctx context.Context, userID string) (int64, error)
	DeleteRole(ctx context.Context, userID string) error
	DeleteProfile(ctx context.Context, userID string) error
	// MarkDeleted records the id so it is never provisioned again.
	MarkDeleted(ctx context.Context, userID string) error
}

type RoleChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type IdentityAdmin interface {
	DeleteUser(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, password string) error
}

type AttendanceWriter interface {
	SetStatusForDate(ctx context.Context, userID string, date time.Time, isIn bool) error
	Today() time.Time
}
