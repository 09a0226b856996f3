package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"mess-app-go/internal/domain/account"
	"mess-app-go/internal/domain/attendance"

	"github.com/google/uuid"
)

type Gateway struct {
	store      Store
	roles      RoleChecker
	identity   IdentityAdmin
	attendance AttendanceWriter
}

func NewGateway(store Store, roles RoleChecker, identity IdentityAdmin, attendance AttendanceWriter) *Gateway {
	return &Gateway{
		store:      store,
		roles:      roles,
		identity:   identity,
		attendance: attendance,
	}
}

// Execute runs one privileged action on behalf of callerID. The caller's role
// is read from the role store on every call before anything else is touched.
func (g *Gateway) Execute(ctx context.Context, callerID string, req Request) (Result, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Result{}, ErrUnauthorized
	}

	isAdmin, err := g.roles.IsAdmin(ctx, callerID)
	if err != nil {
		return Result{}, fmt.Errorf("check caller role: %w", err)
	}
	if !isAdmin {
		return Result{}, ErrForbidden
	}

	action := strings.TrimSpace(req.Action)
	if !IsKnownAction(action) {
		return Result{}, ErrUnknownAction
	}
	target := strings.TrimSpace(req.TargetUserID)
	if _, err := uuid.Parse(target); err != nil {
		return Result{}, ErrInvalidTarget
	}

	switch action {
	case ActionDeleteUser:
		err = g.deleteUser(ctx, target)
	case ActionUpdatePassword:
		err = g.updatePassword(ctx, target, req.NewPassword)
	case ActionUpdateAttendance:
		err = g.updateAttendance(ctx, target, req.IsIn, req.Date)
	default:
		return Result{}, ErrUnknownAction
	}
	if err != nil {
		return Result{}, err
	}

	return Result{Action: action, TargetUserID: target}, nil
}

// deleteUser removes the account's rows and then the identity record inside
// one transaction; a provider failure rolls the row deletes back.
func (g *Gateway) deleteUser(ctx context.Context, target string) error {
	return g.store.Transaction(ctx, func(tx Store) error {
		exists, err := tx.ProfileExists(ctx, target)
		if err != nil {
			return fmt.Errorf("load target: %w", err)
		}
		if !exists {
			return ErrTargetNotFound
		}

		if _, err := tx.DeleteAttendance(ctx, target); err != nil {
			return fmt.Errorf("delete attendance: %w", err)
		}
		if _, err := tx.DeleteReviews(ctx, target); err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := tx.DeleteRole(ctx, target); err != nil {
			return fmt.Errorf("delete role: %w", err)
		}
		if err := tx.DeleteProfile(ctx, target); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if err := tx.MarkDeleted(ctx, target); err != nil {
			return fmt.Errorf("mark deleted: %w", err)
		}
		if err := g.identity.DeleteUser(ctx, target); err != nil {
			return identityError("delete identity", err)
		}
		return nil
	})
}

func (g *Gateway) updatePassword(ctx context.Context, target string, password *string) error {
	if password == nil || *password == "" {
		return ErrPasswordRequired
	}
	if utf8.RuneCountInString(*password) < account.MinPasswordLength {
		return ErrPasswordTooShort
	}

	if err := g.identity.UpdatePassword(ctx, target, *password); err != nil {
		return identityError("update password", err)
	}
	return nil
}

// updateAttendance writes any date, ignoring the cutoff. An omitted date
// means today in the mess time zone.
func (g *Gateway) updateAttendance(ctx context.Context, target string, isIn *bool, date *string) error {
	if isIn == nil {
		return ErrIsInRequired
	}

	day := g.attendance.Today()
	if date != nil && strings.TrimSpace(*date) != "" {
		parsed, err := attendance.ParseDate(*date)
		if err != nil {
			return ErrInvalidDate
		}
		day = parsed
	}

	exists, err := g.store.ProfileExists(ctx, target)
	if err != nil {
		return fmt.Errorf("load target: %w", err)
	}
	if !exists {
		return ErrTargetNotFound
	}

	return g.attendance.SetStatusForDate(ctx, target, day, *isIn)
}

func identityError(op string, err error) error {
	if errors.Is(err, account.ErrIdentityNotFound) {
		return ErrTargetNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func IsKnownAction(action string) bool {
	switch action {
	case ActionDeleteUser, ActionUpdatePassword, ActionUpdateAttendance:
		return true
	default:
		return false
	}
}
