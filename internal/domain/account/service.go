package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	repo     Repository
	identity Identity
	rules    EmailRules
}

func NewService(repo Repository, identity Identity, rules EmailRules) *Service {
	return &Service{
		repo:     repo,
		identity: identity,
		rules:    rules,
	}
}

func (s *Service) Rules() EmailRules {
	return s.rules
}

func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*Account, error) {
	email = NormalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	if err := s.rules.ValidateSignUp(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if fullName == "" {
		return nil, ErrFullNameRequired
	}

	user, err := s.identity.SignUp(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}
	if user.Email == "" {
		user.Email = email
	}
	if user.FullName == "" {
		user.FullName = fullName
	}

	return s.provision(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)
	if err := s.rules.ValidateLogin(email); err != nil {
		return Session{}, err
	}
	if password == "" {
		return Session{}, ErrInvalidCredentials
	}
	return s.identity.SignIn(ctx, email, password)
}

func (s *Service) Authenticate(ctx context.Context, token string) (IdentityUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return IdentityUser{}, ErrInvalidToken
	}
	user, err := s.identity.VerifyToken(ctx, token)
	if err != nil {
		return IdentityUser{}, err
	}

	// A token verified locally outlives its account until it expires.
	deleted, err := s.repo.IsDeleted(ctx, user.ID)
	if err != nil {
		return IdentityUser{}, fmt.Errorf("check deleted account: %w", err)
	}
	if deleted {
		return IdentityUser{}, ErrInvalidToken
	}
	return user, nil
}

// EnsureProfile keeps the profile in step with the identity provider. The
// role is only ever inserted, so a caller can never change their own role.
// Deleted ids get ErrAccountDeleted and nothing is written.
func (s *Service) EnsureProfile(ctx context.Context, user IdentityUser) error {
	_, err := s.provision(ctx, user)
	return err
}

func (s *Service) provision(ctx context.Context, user IdentityUser) (*Account, error) {
	if strings.TrimSpace(user.ID) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	profile := Profile{
		ID:       user.ID,
		Email:    NormalizeEmail(user.Email),
		FullName: strings.TrimSpace(user.FullName),
	}

	var role string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		deleted, err := tx.IsDeleted(ctx, profile.ID)
		if err != nil {
			return fmt.Errorf("check deleted account: %w", err)
		}
		if deleted {
			return ErrAccountDeleted
		}

		if err := tx.UpsertProfile(ctx, &profile); err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}
		if err := tx.EnsureRole(ctx, profile.ID, s.rules.RoleFor(profile.Email)); err != nil {
			return fmt.Errorf("ensure role: %w", err)
		}
		current, err := tx.GetRole(ctx, profile.ID)
		if err != nil {
			return err
		}
		role = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Account{Profile: profile, Role: role}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*Account, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.repo.GetRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Account{Profile: *profile, Role: role}, nil
}

// IsAdmin reads the role store on every call; roles are never taken from
// token claims.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, nil
	}
	role, err := s.repo.GetRole(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	return role == RoleAdmin, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*Account, error) {
	profile, err := s.repo.GetProfileByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	role, err := s.repo.GetRole(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return &Account{Profile: *profile, Role: role}, nil
}

// GrantRole is an operator action (messctl); it is not reachable over HTTP.
func (s *Service) GrantRole(ctx context.Context, email, role string) (*Account, error) {
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}
	acc, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetRole(ctx, acc.ID, role); err != nil {
		return nil, err
	}
	acc.Role = role
	return acc, nil
}

// ResetPassword is the operator counterpart of the admin gateway's
// update_password action.
func (s *Service) ResetPassword(ctx context.Context, email, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	acc, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.identity.UpdatePassword(ctx, acc.ID, password)
}
