package attendance

import (
	"errors"
	"fmt"
	"net/http"

	attendancedomain "mess-app-go/internal/domain/attendance"
	"mess-app-go/internal/transport/httpserver/middleware"
)

type setStatusRequest struct {
	IsIn *bool `json:"is_in" validate:"required"`
}

type totalsResponse struct {
	Days      int64 `json:"days"`
	Amount    int64 `json:"amount"`
	FeePerDay int64 `json:"fee_per_day"`
}

type todayResponse struct {
	Date   string `json:"date"`
	IsIn   bool   `json:"is_in"`
	Locked bool   `json:"locked"`
}

type tomorrowResponse struct {
	Date string `json:"date"`
	IsIn *bool  `json:"is_in"`
}

type dashboardResponse struct {
	BeforeCutoff bool             `json:"before_cutoff"`
	Cutoff       string           `json:"cutoff"`
	TargetDate   string           `json:"target_date"`
	Today        todayResponse    `json:"today"`
	Tomorrow     tomorrowResponse `json:"tomorrow"`
	Totals       totalsResponse   `json:"totals"`
}

type markResponse struct {
	Date         string         `json:"date"`
	IsIn         bool           `json:"is_in"`
	AppliesToday bool           `json:"applies_today"`
	Totals       totalsResponse `json:"totals"`
}

func (h *Handlers) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	dashboard, err := h.Attendance.Dashboard(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("attendance.get_me: load dashboard failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		BeforeCutoff: dashboard.BeforeCutoff,
		Cutoff:       formatCutoff(h.Attendance.Policy()),
		TargetDate:   formatDate(dashboard.TargetDate),
		Today: todayResponse{
			Date:   formatDate(dashboard.Today.Date),
			IsIn:   dashboard.Today.IsIn,
			Locked: dashboard.Today.Locked,
		},
		Tomorrow: tomorrowResponse{
			Date: formatDate(dashboard.Tomorrow.Date),
			IsIn: dashboard.Tomorrow.IsIn,
		},
		Totals: toTotalsResponse(dashboard.Totals),
	})
}

func (h *Handlers) SetMyAttendance(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	mark, err := h.Attendance.SetStatus(r.Context(), user.ID, *req.IsIn)
	if err != nil {
		if errors.Is(err, attendancedomain.ErrUserRequired) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
			return
		}
		// Store failures reach the caller verbatim.
		h.log.InternalError("attendance.set_me: upsert failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	h.metrics.AttendanceMarked(mark.IsIn, mark.AppliesToday)
	h.log.Info("attendance.set_me: marked", "user_id", user.ID, "date", formatDate(mark.Date), "is_in", mark.IsIn)

	writeJSON(w, http.StatusOK, markResponse{
		Date:         formatDate(mark.Date),
		IsIn:         mark.IsIn,
		AppliesToday: mark.AppliesToday,
		Totals:       toTotalsResponse(mark.Totals),
	})
}

func toTotalsResponse(totals attendancedomain.Totals) totalsResponse {
	return totalsResponse{
		Days:      totals.Days,
		Amount:    totals.Amount,
		FeePerDay: attendancedomain.FeePerDay,
	}
}

func formatCutoff(policy attendancedomain.Policy) string {
	hours := int(policy.Cutoff.Hours())
	minutes := int(policy.Cutoff.Minutes()) % 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
