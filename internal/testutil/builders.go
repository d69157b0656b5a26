package testutil

import (
	"time"

	"github.com/hrnova/ui-api/internal/domain/model"
)

// EmployeeRequestBuilder provides a fluent interface for building
// CreateEmployeeRequest objects for testing.
type EmployeeRequestBuilder struct {
	req *model.CreateEmployeeRequest
}

// NewEmployeeRequest creates a new EmployeeRequestBuilder with sensible defaults.
func NewEmployeeRequest() *EmployeeRequestBuilder {
	return &EmployeeRequestBuilder{
		req: &model.CreateEmployeeRequest{
			FirstName:      "Ana",
			LastName:       "Lima",
			Email:          "ana.lima@hrnova.example",
			Title:          "Software Engineer",
			Department:     "Engineering",
			Status:         model.EmployeeStatusActive,
			EmploymentType: model.EmploymentTypeFullTime,
			JoinedAt:       TestTime(),
		},
	}
}

// WithName sets first and last name.
func (b *EmployeeRequestBuilder) WithName(first, last string) *EmployeeRequestBuilder {
	b.req.FirstName = first
	b.req.LastName = last
	return b
}

// WithEmail sets the email address.
func (b *EmployeeRequestBuilder) WithEmail(email string) *EmployeeRequestBuilder {
	b.req.Email = email
	return b
}

// WithDepartment sets the department.
func (b *EmployeeRequestBuilder) WithDepartment(department string) *EmployeeRequestBuilder {
	b.req.Department = department
	return b
}

// WithTitle sets the job title.
func (b *EmployeeRequestBuilder) WithTitle(title string) *EmployeeRequestBuilder {
	b.req.Title = title
	return b
}

// WithManager sets the manager reference.
func (b *EmployeeRequestBuilder) WithManager(managerID string) *EmployeeRequestBuilder {
	b.req.ManagerID = &managerID
	return b
}

// WithStatus sets the employee status.
func (b *EmployeeRequestBuilder) WithStatus(status model.EmployeeStatus) *EmployeeRequestBuilder {
	b.req.Status = status
	return b
}

// WithJoinedAt sets the join date.
func (b *EmployeeRequestBuilder) WithJoinedAt(t time.Time) *EmployeeRequestBuilder {
	b.req.JoinedAt = t
	return b
}

// Build returns the constructed request.
func (b *EmployeeRequestBuilder) Build() *model.CreateEmployeeRequest {
	req := *b.req
	return &req
}

// LeaveRequestBuilder provides a fluent interface for building
// CreateLeaveRequest objects for testing.
type LeaveRequestBuilder struct {
	req *model.CreateLeaveRequest
}

// NewLeaveRequest creates a new LeaveRequestBuilder with sensible defaults:
// a five-day annual leave starting at TestTime.
func NewLeaveRequest(employeeID string) *LeaveRequestBuilder {
	return &LeaveRequestBuilder{
		req: &model.CreateLeaveRequest{
			EmployeeID: employeeID,
			Type:       model.LeaveTypeAnnual,
			FromDate:   TestTime(),
			ToDate:     TestTime().AddDate(0, 0, 4),
			Reason:     "vacation",
		},
	}
}

// WithType sets the leave type.
func (b *LeaveRequestBuilder) WithType(t model.LeaveType) *LeaveRequestBuilder {
	b.req.Type = t
	return b
}

// WithDates sets the inclusive date range.
func (b *LeaveRequestBuilder) WithDates(from, to time.Time) *LeaveRequestBuilder {
	b.req.FromDate = from
	b.req.ToDate = to
	return b
}

// WithReason sets the reason text.
func (b *LeaveRequestBuilder) WithReason(reason string) *LeaveRequestBuilder {
	b.req.Reason = reason
	return b
}

// Build returns the constructed request.
func (b *LeaveRequestBuilder) Build() *model.CreateLeaveRequest {
	req := *b.req
	return &req
}
