package httpx

import (
	"errors"
	"net/http"

	"github.com/hrnova/ui-api/internal/domain/model"
	"github.com/hrnova/ui-api/internal/service"
)

// LeaveHandlers provides HTTP handlers for leave requests and balances.
type LeaveHandlers struct {
	Svc *service.LeaveService
}

type leaveListResponse struct {
	Requests   []*model.LeaveRequest `json:"requests"`
	NextCursor string                `json:"next_cursor,omitempty"`
}

// List handles GET /api/leave.
// Supported filters: employee_id, status, type; paging: limit, cursor.
// Non-privileged callers are scoped to their own requests by the service.
func (h *LeaveHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.LeaveListOptions{
		Limit:      queryInt(r, "limit"),
		Cursor:     r.URL.Query().Get("cursor"),
		EmployeeID: queryString(r, "employee_id"),
	}
	if s := queryString(r, "status"); s != nil {
		status := model.LeaveStatus(*s)
		opts.Status = &status
	}
	if t := queryString(r, "type"); t != nil {
		typ := model.LeaveType(*t)
		opts.Type = &typ
	}

	page, err := h.Svc.List(r.Context(), UserFromContext(r.Context()), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if page.Requests == nil {
		page.Requests = []*model.LeaveRequest{}
	}
	WriteJSON(w, http.StatusOK, leaveListResponse{
		Requests:   page.Requests,
		NextCursor: page.NextCursor,
	})
}

// Get handles GET /api/leave/{id}.
func (h *LeaveHandlers) Get(w http.ResponseWriter, r *http.Request) {
	lr, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, lr)
}

// Submit handles POST /api/leave.
func (h *LeaveHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLeaveRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	lr, err := h.Svc.Submit(r.Context(), UserFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, lr)
}

type decideRequest struct {
	Status model.LeaveStatus `json:"status"`
}

// Decide handles POST /api/leave/{id}/decision.
// The body carries the target status, "approved" or "rejected".
func (h *LeaveHandlers) Decide(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Status != model.LeaveStatusApproved && req.Status != model.LeaveStatusRejected {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     errors.New("status must be approved or rejected"),
		})
		return
	}
	lr, err := h.Svc.Decide(r.Context(), UserFromContext(r.Context()), r.PathValue("id"), req.Status)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, lr)
}

// Cancel handles POST /api/leave/{id}/cancel.
func (h *LeaveHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	lr, err := h.Svc.Cancel(r.Context(), UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, lr)
}

// Balance handles GET /api/leave/balances/{employee_id}.
func (h *LeaveHandlers) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.Svc.Balance(r.Context(), r.PathValue("employee_id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, balance)
}

// SetBalance handles PUT /api/leave/balances/{employee_id}.
func (h *LeaveHandlers) SetBalance(w http.ResponseWriter, r *http.Request) {
	var balance model.LeaveBalance
	if !DecodeJSON(w, r, &balance) {
		return
	}
	balance.EmployeeID = r.PathValue("employee_id")
	if err := h.Svc.SetBalance(r.Context(), UserFromContext(r.Context()), &balance); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, balance)
}
