package reviews

import (
	"errors"
	"net/http"

	reviewdomain "mess-app-go/internal/domain/review"
	commonhandler "mess-app-go/internal/transport/httpserver/handler/common"
	"mess-app-go/internal/transport/httpserver/middleware"
)

type submitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type reviewResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	FullName  string  `json:"full_name"`
	Rating    int     `json:"rating"`
	Comment   *string `json:"comment"`
	CreatedAt string  `json:"created_at"`
}

type listReviewsResponse struct {
	Reviews     []reviewResponse `json:"reviews"`
	Count       int              `json:"count"`
	Average     string           `json:"average"`
	HasReviewed bool             `json:"has_reviewed"`
}

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	summary, err := h.Reviews.Summary(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("reviews.list: list reviews failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]reviewResponse, 0, len(summary.Reviews))
	for _, item := range summary.Reviews {
		items = append(items, reviewResponse{
			ID:        item.ID,
			UserID:    item.UserID,
			FullName:  item.FullName,
			Rating:    item.Rating,
			Comment:   item.Comment,
			CreatedAt: commonhandler.FormatTimestamp(item.CreatedAt),
		})
	}

	writeJSON(w, http.StatusOK, listReviewsResponse{
		Reviews:     items,
		Count:       summary.Count,
		Average:     summary.Average,
		HasReviewed: summary.HasReviewed,
	})
}

func (h *Handlers) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		if req.Rating == 0 {
			writeError(w, http.StatusBadRequest, "invalid_rating", "please select a rating")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Reviews.Submit(r.Context(), user.ID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, reviewdomain.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, "invalid_rating", err.Error())
		case errors.Is(err, reviewdomain.ErrAlreadyReviewed):
			h.log.BusinessError("reviews.submit: already reviewed", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_reviewed", err.Error())
		default:
			h.log.InternalError("reviews.submit: create review failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	h.metrics.ReviewSubmitted()
	writeJSON(w, http.StatusCreated, reviewResponse{
		ID:        created.ID,
		UserID:    created.UserID,
		FullName:  user.Name,
		Rating:    created.Rating,
		Comment:   created.Comment,
		CreatedAt: commonhandler.FormatTimestamp(created.CreatedAt),
	})
}
