package account

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) error
	// EnsureRole inserts the role only when the user has none yet.
	EnsureRole(ctx context.Context, userID, role string) error
	SetRole(ctx context.Context, userID, role string) error
	GetRole(ctx context.Context, userID string) (string, error)
	IsDeleted(ctx context.Context, userID string) (bool, error)
}
