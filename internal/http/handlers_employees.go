package httpx

import (
	"net/http"

	"github.com/hrnova/ui-api/internal/domain/model"
	"github.com/hrnova/ui-api/internal/service"
)

// EmployeeHandlers provides HTTP handlers for the employee directory.
type EmployeeHandlers struct {
	Svc *service.EmployeeService
}

type employeeListResponse struct {
	Employees  []*model.Employee `json:"employees"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// List handles GET /api/employees.
// Supported filters: q, department, status; paging: limit, cursor.
func (h *EmployeeHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.EmployeesListOptions{
		Limit:      queryInt(r, "limit"),
		Cursor:     r.URL.Query().Get("cursor"),
		Q:          queryString(r, "q"),
		Department: queryString(r, "department"),
	}
	if s := queryString(r, "status"); s != nil {
		status := model.EmployeeStatus(*s)
		opts.Status = &status
	}

	page, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if page.Employees == nil {
		page.Employees = []*model.Employee{}
	}
	WriteJSON(w, http.StatusOK, employeeListResponse{
		Employees:  page.Employees,
		NextCursor: page.NextCursor,
	})
}

// Get handles GET /api/employees/{id}.
func (h *EmployeeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, emp)
}

// Create handles POST /api/employees.
func (h *EmployeeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEmployeeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	emp, err := h.Svc.Create(r.Context(), UserFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, emp)
}

// Update handles PATCH /api/employees/{id}.
func (h *EmployeeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEmployeeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	emp, err := h.Svc.Update(r.Context(), UserFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, emp)
}

// Delete handles DELETE /api/employees/{id}.
func (h *EmployeeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), UserFromContext(r.Context()), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
