package attendance

import (
	"context"
	"time"
)

type Repository interface {
	GetRecord(ctx context.Context, userID string, date time.Time) (*Record, error)
	// Upsert inserts the record or, when (user_id, date) exists, overwrites
	// is_in and marked_at.
	Upsert(ctx context.Context, record *Record) error
	CountIn(ctx context.Context, userID string) (int64, error)
}
