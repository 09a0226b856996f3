package stats

import (
	"context"
	"time"
)

type Repository interface {
	CountStudents(ctx context.Context) (int64, error)
	// PeriodCounts covers [from, to] inclusive.
	PeriodCounts(ctx context.Context, from, to time.Time) (PeriodCounts, error)
	// DailyInCounts returns only the days that have at least one IN record.
	DailyInCounts(ctx context.Context, from, to time.Time) ([]DayCount, error)
	ListStudents(ctx context.Context, today time.Time, search string) ([]StudentRow, error)
	// GetStudentByEmail reports ErrStudentNotFound when no student account
	// has the address.
	GetStudentByEmail(ctx context.Context, email string, today time.Time) (*StudentRow, error)
}
