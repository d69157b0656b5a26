package httpx

import (
	"net/http"

	"github.com/hrnova/ui-api/internal/domain/model"
	"github.com/hrnova/ui-api/internal/service"
)

// ReviewHandlers provides HTTP handlers for performance reviews.
type ReviewHandlers struct {
	Svc *service.ReviewService
}

type reviewListResponse struct {
	Reviews    []*model.PerformanceReview `json:"reviews"`
	NextCursor string                     `json:"next_cursor,omitempty"`
}

// List handles GET /api/reviews.
// Supported filters: employee_id, status, cycle; paging: limit, cursor.
func (h *ReviewHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ReviewListOptions{
		Limit:      queryInt(r, "limit"),
		Cursor:     r.URL.Query().Get("cursor"),
		EmployeeID: queryString(r, "employee_id"),
		Cycle:      queryString(r, "cycle"),
	}
	if s := queryString(r, "status"); s != nil {
		status := model.ReviewStatus(*s)
		opts.Status = &status
	}

	page, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if page.Reviews == nil {
		page.Reviews = []*model.PerformanceReview{}
	}
	WriteJSON(w, http.StatusOK, reviewListResponse{
		Reviews:    page.Reviews,
		NextCursor: page.NextCursor,
	})
}

// Get handles GET /api/reviews/{id}.
func (h *ReviewHandlers) Get(w http.ResponseWriter, r *http.Request) {
	review, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, review)
}

// Open handles POST /api/reviews.
func (h *ReviewHandlers) Open(w http.ResponseWriter, r *http.Request) {
	var req model.CreateReviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	review, err := h.Svc.Open(r.Context(), UserFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, review)
}

// Update handles PATCH /api/reviews/{id}.
func (h *ReviewHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateReviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	review, err := h.Svc.Update(r.Context(), UserFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, review)
}

// Stats handles GET /api/reviews/stats.
func (h *ReviewHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
