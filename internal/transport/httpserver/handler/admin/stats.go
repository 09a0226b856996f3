package admin

import (
	"errors"
	"net/http"
	"strings"

	accountdomain "mess-app-go/internal/domain/account"
	statsdomain "mess-app-go/internal/domain/stats"
)

type periodStatsResponse struct {
	Period        string `json:"period"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TotalStudents int64  `json:"total_students"`
	StudentsIn    int64  `json:"students_in"`
	StudentsOut   int64  `json:"students_out"`
	TotalRevenue  int64  `json:"total_revenue"`
}

type dailyPointResponse struct {
	Date     string `json:"date"`
	Day      string `json:"day"`
	InCount  int64  `json:"in_count"`
	OutCount int64  `json:"out_count"`
	Revenue  int64  `json:"revenue"`
}

type dailyResponse struct {
	Window string               `json:"window"`
	Points []dailyPointResponse `json:"points"`
}

type studentResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	IsInToday   bool   `json:"is_in_today"`
	TotalDays   int64  `json:"total_days"`
	TotalAmount int64  `json:"total_amount"`
}

type overviewResponse struct {
	Date             string `json:"date"`
	TotalStudents    int64  `json:"total_students"`
	StudentsInToday  int64  `json:"students_in_today"`
	StudentsOutToday int64  `json:"students_out_today"`
	RevenueToday     int64  `json:"revenue_today"`
}

func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Stats.Overview(r.Context())
	if err != nil {
		h.log.InternalError("admin.overview: load overview failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, overviewResponse{
		Date:             formatDate(overview.Date),
		TotalStudents:    overview.TotalStudents,
		StudentsInToday:  overview.StudentsInToday,
		StudentsOutToday: overview.StudentsOutToday,
		RevenueToday:     overview.RevenueToday,
	})
}

func (h *Handlers) PeriodStats(w http.ResponseWriter, r *http.Request) {
	period := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("period")))
	if period == "" {
		period = statsdomain.PeriodWeek
	}
	if err := h.validate.Var("period", period, "oneof=week month"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	stats, err := h.Stats.ForPeriod(r.Context(), period)
	if err != nil {
		h.log.InternalError("admin.stats: load period stats failed", err, "period", period)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, periodStatsResponse{
		Period:        period,
		StartDate:     formatDate(stats.From),
		EndDate:       formatDate(stats.To),
		TotalStudents: stats.TotalStudents,
		StudentsIn:    stats.StudentsIn,
		StudentsOut:   stats.StudentsOut,
		TotalRevenue:  stats.TotalRevenue,
	})
}

func (h *Handlers) DailyStats(w http.ResponseWriter, r *http.Request) {
	window := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("window")))
	if window == "" {
		window = statsdomain.PeriodWeek
	}
	if err := h.validate.Var("window", window, "oneof=week month"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	points, err := h.Stats.Daily(r.Context(), window)
	if err != nil {
		h.log.InternalError("admin.stats_daily: load daily stats failed", err, "window", window)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]dailyPointResponse, 0, len(points))
	for _, point := range points {
		items = append(items, dailyPointResponse{
			Date:     formatDate(point.Date),
			Day:      point.Day,
			InCount:  point.InCount,
			OutCount: point.OutCount,
			Revenue:  point.Revenue,
		})
	}

	writeJSON(w, http.StatusOK, dailyResponse{Window: window, Points: items})
}

func (h *Handlers) ListStudents(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("q"))

	students, err := h.Stats.Students(r.Context(), search)
	if err != nil {
		h.log.InternalError("admin.students: list students failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]studentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, toStudentResponse(student))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"students": items})
}

func (h *Handlers) LookupStudent(w http.ResponseWriter, r *http.Request) {
	reg := strings.TrimSpace(r.URL.Query().Get("reg"))
	if err := h.validate.Var("reg", reg, "required,regnumber"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_reg_number", err.Error())
		return
	}

	student, err := h.Stats.LookupByRegNumber(r.Context(), reg)
	if err != nil {
		switch {
		case errors.Is(err, accountdomain.ErrInvalidRegNumber):
			writeError(w, http.StatusBadRequest, "invalid_reg_number", err.Error())
		case errors.Is(err, statsdomain.ErrStudentNotFound):
			h.log.BusinessError("admin.lookup: student not found", err, "reg", reg)
			writeError(w, http.StatusNotFound, "student_not_found", "student not found")
		default:
			h.log.InternalError("admin.lookup: lookup failed", err, "reg", reg)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toStudentResponse(student))
}

func toStudentResponse(student statsdomain.StudentSummary) studentResponse {
	return studentResponse{
		UserID:      student.UserID,
		Email:       student.Email,
		FullName:    student.FullName,
		IsInToday:   student.IsInToday,
		TotalDays:   student.TotalDays,
		TotalAmount: student.TotalAmount,
	}
}
