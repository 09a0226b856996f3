package account

import "context"

// Identity is the external credential store. Implementations live under
// internal/identity.
type Identity interface {
	SignUp(ctx context.Context, email, password, fullName string) (IdentityUser, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	VerifyToken(ctx context.Context, token string) (IdentityUser, error)
	DeleteUser(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, password string) error
}
