// Package core defines the repository ports and page types the service
// layer is built against.
package core

import (
	"context"

	"github.com/hrnova/ui-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// EmployeePage is one cursor page of the employee directory.
type EmployeePage struct {
	Employees  []*model.Employee
	NextCursor string
}

// EmployeeRepository defines the interface for employee directory operations.
type EmployeeRepository interface {
	Create(ctx context.Context, req *model.CreateEmployeeRequest) (*model.Employee, error)
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	List(ctx context.Context, opts model.EmployeesListOptions) (*EmployeePage, error)
	Update(ctx context.Context, id string, req model.UpdateEmployeeRequest) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
	CountByDepartment(ctx context.Context) ([]model.DepartmentHeadcount, error)
}

// LeavePage is one cursor page of leave requests.
type LeavePage struct {
	Requests   []*model.LeaveRequest
	NextCursor string
}

// ReviewDecision groups the parameters of an approve/reject transition.
type ReviewDecision struct {
	RequestID  string
	ReviewerID string
	Status     model.LeaveStatus
}

// LeaveRepository defines the interface for leave workflow operations.
type LeaveRepository interface {
	Create(ctx context.Context, req *model.CreateLeaveRequest, days int) (*model.LeaveRequest, error)
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	List(ctx context.Context, opts model.LeaveListOptions) (*LeavePage, error)
	// Decide transitions a pending request to approved or rejected and, on
	// approval, debits the employee's balance in the same transaction.
	Decide(ctx context.Context, decision ReviewDecision) (*model.LeaveRequest, error)
	Cancel(ctx context.Context, id string) (*model.LeaveRequest, error)
	GetBalance(ctx context.Context, employeeID string) (*model.LeaveBalance, error)
	SetBalance(ctx context.Context, balance *model.LeaveBalance) error
	CountByType(ctx context.Context) ([]model.LeaveTypeCount, error)
}

// ReviewPage is one cursor page of performance reviews.
type ReviewPage struct {
	Reviews    []*model.PerformanceReview
	NextCursor string
}

// ReviewRepository defines the interface for performance review operations.
type ReviewRepository interface {
	Create(ctx context.Context, req *model.CreateReviewRequest) (*model.PerformanceReview, error)
	GetByID(ctx context.Context, id string) (*model.PerformanceReview, error)
	List(ctx context.Context, opts model.ReviewListOptions) (*ReviewPage, error)
	Update(ctx context.Context, id string, req model.UpdateReviewRequest) (*model.PerformanceReview, error)
	Stats(ctx context.Context) (*model.ReviewStats, error)
}

// AuditPage is one cursor page of audit entries.
type AuditPage struct {
	Entries    []*model.AuditEntry
	NextCursor string
}

// AuditRepository defines the interface for the append-only audit log.
type AuditRepository interface {
	Append(ctx context.Context, req *model.RecordAuditRequest) (*model.AuditEntry, error)
	GetByID(ctx context.Context, id string) (*model.AuditEntry, error)
	List(ctx context.Context, opts model.AuditListOptions) (*AuditPage, error)
	Recent(ctx context.Context, limit int) ([]*model.AuditEntry, error)
}

// ChangeEvent describes a record mutation published to subscribers.
type ChangeEvent struct {
	EntityType model.AuditEntityType `json:"entity_type"`
	EntityID   string                `json:"entity_id"`
	Action     string                `json:"action"`
}

// ChangePublisher broadcasts record mutations to interested consumers
// (the subscription analog of the managed API's change notifications).
type ChangePublisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}
