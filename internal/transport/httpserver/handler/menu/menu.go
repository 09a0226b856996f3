package menu

import (
	"errors"
	"net/http"

	menudomain "mess-app-go/internal/domain/menu"
	"mess-app-go/internal/transport/httpserver/middleware"
)

type highlightResponse struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

type dayResponse struct {
	ID        string            `json:"id"`
	DayOfWeek string            `json:"day_of_week"`
	Breakfast string            `json:"breakfast"`
	Lunch     string            `json:"lunch"`
	Dinner    string            `json:"dinner"`
	Highlight highlightResponse `json:"highlight"`
}

type slotResponse struct {
	DayOfWeek string  `json:"day_of_week"`
	Meal      *string `json:"meal"`
}

type listMenuResponse struct {
	Current slotResponse  `json:"current"`
	IsIn    bool          `json:"is_in"`
	Days    []dayResponse `json:"days"`
}

type updateMenuRequest struct {
	Days []updateDayRequest `json:"days" validate:"required,min=1,max=7,dive"`
}

type updateDayRequest struct {
	ID        string `json:"id" validate:"required,uuid"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// ListMenu returns the week with the cell being served right now marked
// according to the caller's attendance today.
func (h *Handlers) ListMenu(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	days, err := h.Menu.List(r.Context())
	if err != nil {
		h.log.InternalError("menu.list: list menu failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	status, err := h.Attendance.GetStatus(r.Context(), user.ID, h.Attendance.Today())
	if err != nil {
		h.log.InternalError("menu.list: load attendance failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	isIn := status != nil && *status

	slot := menudomain.CurrentSlot(h.now(), h.location)
	current := slotResponse{DayOfWeek: slot.DayOfWeek}
	if slot.Active() {
		meal := string(slot.Meal)
		current.Meal = &meal
	}

	items := make([]dayResponse, 0, len(days))
	for _, day := range days {
		items = append(items, dayResponse{
			ID:        day.ID,
			DayOfWeek: day.DayOfWeek,
			Breakfast: day.Breakfast,
			Lunch:     day.Lunch,
			Dinner:    day.Dinner,
			Highlight: highlightResponse{
				Breakfast: menudomain.Highlight(day.DayOfWeek, menudomain.MealBreakfast, slot, isIn),
				Lunch:     menudomain.Highlight(day.DayOfWeek, menudomain.MealLunch, slot, isIn),
				Dinner:    menudomain.Highlight(day.DayOfWeek, menudomain.MealDinner, slot, isIn),
			},
		})
	}

	writeJSON(w, http.StatusOK, listMenuResponse{
		Current: current,
		IsIn:    isIn,
		Days:    items,
	})
}

func (h *Handlers) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	var req updateMenuRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, _ := middleware.UserFromContext(r.Context())

	rows := make([]menudomain.UpdateInput, 0, len(req.Days))
	for _, day := range req.Days {
		rows = append(rows, menudomain.UpdateInput{
			ID:        day.ID,
			Breakfast: day.Breakfast,
			Lunch:     day.Lunch,
			Dinner:    day.Dinner,
		})
	}

	if err := h.Menu.Update(r.Context(), rows); err != nil {
		switch {
		case errors.Is(err, menudomain.ErrMenuDayNotFound):
			h.log.BusinessError("menu.update: menu day not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "menu_day_not_found", err.Error())
		case errors.Is(err, menudomain.ErrMenuDayRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("menu.update: update failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	h.log.Info("menu.update: menu updated", "user_id", user.ID, "rows", len(rows))
	h.ListMenu(w, r)
}
