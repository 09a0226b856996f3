package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mess-app-go/internal/domain/account"
	admindomain "mess-app-go/internal/domain/admin"
	"mess-app-go/internal/transport/httpserver/middleware"
)

// operationRequest keeps the camelCase field names the web client sends.
type operationRequest struct {
	Action       string  `json:"action"`
	TargetUserID string  `json:"targetUserId"`
	NewPassword  *string `json:"newPassword,omitempty"`
	IsIn         *bool   `json:"isIn,omitempty"`
	Date         *string `json:"date,omitempty"`
}

type operationError struct {
	Error string `json:"error"`
}

// Operations is the privileged gateway endpoint. It authenticates the bearer
// token itself and answers with {"success":true} or {"error":"..."}.
func (h *Handlers) Operations(w http.ResponseWriter, r *http.Request) {
	log := h.log.WithContext(r.Context())

	header := r.Header.Get("Authorization")
	if header == "" {
		writeOperationError(w, http.StatusUnauthorized, "missing authorization header")
		return
	}
	token, ok := middleware.BearerToken(header)
	if !ok {
		writeOperationError(w, http.StatusUnauthorized, admindomain.ErrUnauthorized.Error())
		return
	}

	caller, err := h.accounts.Authenticate(r.Context(), token)
	if err != nil {
		if errors.Is(err, account.ErrInvalidToken) {
			writeOperationError(w, http.StatusUnauthorized, admindomain.ErrUnauthorized.Error())
			return
		}
		log.InternalError("admin.operations: verify token failed", err)
		writeOperationError(w, http.StatusServiceUnavailable, "authentication service unavailable")
		return
	}

	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOperationError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	_, err = h.Gateway.Execute(r.Context(), caller.ID, admindomain.Request{
		Action:       req.Action,
		TargetUserID: req.TargetUserID,
		NewPassword:  req.NewPassword,
		IsIn:         req.IsIn,
		Date:         req.Date,
	})
	label := actionLabel(req.Action)
	if err != nil {
		status, message := operationStatus(err)
		switch {
		case status >= http.StatusInternalServerError:
			log.InternalError("admin.operations: action failed", err, "user_id", caller.ID, "action", req.Action, "target_user_id", req.TargetUserID)
			h.metrics.AdminAction(label, "failed")
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			log.BusinessError("admin.operations: caller not allowed", err, "user_id", caller.ID, "action", req.Action)
			h.metrics.AdminAction(unknownActionLabel, "forbidden")
		default:
			log.BusinessError("admin.operations: action rejected", err, "user_id", caller.ID, "action", req.Action, "target_user_id", req.TargetUserID)
			h.metrics.AdminAction(label, "rejected")
		}
		writeOperationError(w, status, message)
		return
	}

	log.Info("admin.operations: action applied", "user_id", caller.ID, "email", caller.Email, "action", req.Action, "target_user_id", req.TargetUserID)
	h.metrics.AdminAction(label, "ok")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

const unknownActionLabel = "unknown"

// actionLabel keeps the metric's action label to the fixed set of gateway
// actions.
func actionLabel(action string) string {
	action = strings.TrimSpace(action)
	if admindomain.IsKnownAction(action) {
		return action
	}
	return unknownActionLabel
}

func operationStatus(err error) (int, string) {
	switch {
	case errors.Is(err, admindomain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, admindomain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, admindomain.ErrTargetNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, admindomain.ErrUnknownAction),
		errors.Is(err, admindomain.ErrInvalidTarget),
		errors.Is(err, admindomain.ErrPasswordRequired),
		errors.Is(err, admindomain.ErrPasswordTooShort),
		errors.Is(err, admindomain.ErrIsInRequired),
		errors.Is(err, admindomain.ErrInvalidDate):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeOperationError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, operationError{Error: message})
}
