package common

import (
	"errors"
	"net/http"

	accountdomain "mess-app-go/internal/domain/account"
	"mess-app-go/internal/transport/httpserver/middleware"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required,max=120"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,institution_email"`
	Password string `json:"password" validate:"required"`
}

type accountResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"user_id"`
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	created, err := h.Accounts.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.writeAccountError(w, r, "auth.signup", err, "email", req.Email)
		return
	}

	h.log.Info("auth.signup: account created", "user_id", created.ID, "role", created.Role)
	writeJSON(w, http.StatusCreated, toAccountResponse(created))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	session, err := h.Accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAccountError(w, r, "auth.login", err, "email", req.Email)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		UserID:       session.UserID,
	})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w)
		return
	}

	me, err := h.Accounts.Me(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, accountdomain.ErrAccountNotFound) {
			h.log.BusinessError("auth.me: account not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "account_not_found", "account not found")
			return
		}
		h.log.InternalError("auth.me: load account failed", err, "user_id", user.ID)
		WriteInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(me))
}

func (h *Handlers) writeAccountError(w http.ResponseWriter, r *http.Request, op string, err error, args ...any) {
	log := h.log.WithContext(r.Context())
	switch {
	case errors.Is(err, accountdomain.ErrInvalidEmail):
		log.BusinessError(op+": invalid email", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_email", err.Error())
	case errors.Is(err, accountdomain.ErrPasswordTooShort):
		log.BusinessError(op+": password too short", err, args...)
		writeError(w, http.StatusBadRequest, "password_too_short", err.Error())
	case errors.Is(err, accountdomain.ErrFullNameRequired):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accountdomain.ErrAlreadyRegistered):
		log.BusinessError(op+": already registered", err, args...)
		writeError(w, http.StatusConflict, "already_registered", err.Error())
	case errors.Is(err, accountdomain.ErrInvalidCredentials):
		log.BusinessError(op+": invalid credentials", err, args...)
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	default:
		log.InternalError(op+": identity provider failed", err, args...)
		WriteInternal(w)
	}
}

func toAccountResponse(acc *accountdomain.Account) accountResponse {
	return accountResponse{
		ID:       acc.ID,
		Email:    acc.Email,
		FullName: acc.FullName,
		Role:     acc.Role,
		IsAdmin:  acc.IsAdmin(),
	}
}
