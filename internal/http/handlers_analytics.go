package httpx

import (
	"net/http"

	"github.com/hrnova/ui-api/internal/service"
)

// AnalyticsHandlers provides HTTP handlers for dashboard analytics.
type AnalyticsHandlers struct {
	Svc *service.AnalyticsService
}

// Overview handles GET /api/analytics/overview.
func (h *AnalyticsHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Svc.GetOverview(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, overview)
}

// Headcount handles GET /api/analytics/headcount.
func (h *AnalyticsHandlers) Headcount(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Svc.HeadcountByDepartment(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, counts)
}

// LeaveByType handles GET /api/analytics/leave.
func (h *AnalyticsHandlers) LeaveByType(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Svc.LeaveByType(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, counts)
}

// Activity handles GET /api/analytics/activity.
func (h *AnalyticsHandlers) Activity(w http.ResponseWriter, r *http.Request) {
	activities, err := h.Svc.RecentActivity(r.Context(), queryInt(r, "limit"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, activities)
}
