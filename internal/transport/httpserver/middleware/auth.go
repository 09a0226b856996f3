package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mess-app-go/internal/domain/account"
	"mess-app-go/pkg/logger"
)

// Accounts is the slice of the account service the middleware needs.
type Accounts interface {
	Authenticate(ctx context.Context, token string) (account.IdentityUser, error)
	EnsureProfile(ctx context.Context, user account.IdentityUser) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type Auth struct {
	accounts Accounts
	log      logger.Logger
}

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

type User struct {
	ID    string
	Email string
	Name  string
}

func NewAuth(accounts Accounts, log logger.Logger) *Auth {
	return &Auth{
		accounts: accounts,
		log:      log,
	}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		identity, err := a.accounts.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, account.ErrInvalidToken) {
				unauthorized(w)
				return
			}
			a.log.WithContext(r.Context()).InternalError("auth: verify token failed", err)
			writeError(w, http.StatusServiceUnavailable, "auth_unavailable", "authentication service unavailable")
			return
		}

		if err := a.accounts.EnsureProfile(r.Context(), identity); err != nil {
			if errors.Is(err, account.ErrAccountDeleted) {
				unauthorized(w)
				return
			}
			a.log.WithContext(r.Context()).InternalError("auth: ensure profile failed", err, "user_id", identity.ID)
		}

		ctx := WithUser(r.Context(), User{
			ID:    identity.ID,
			Email: identity.Email,
			Name:  identity.FullName,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin looks the caller's role up on every request.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}

		isAdmin, err := a.accounts.IsAdmin(r.Context(), userID)
		if err != nil {
			a.log.WithContext(r.Context()).InternalError("auth: role lookup failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		if !isAdmin {
			a.log.WithContext(r.Context()).BusinessError("auth: admin route denied", errors.New("not an admin"), "user_id", userID, "path", r.URL.Path)
			writeError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func BearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
