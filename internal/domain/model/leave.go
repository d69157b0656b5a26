//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

const maxLeaveReasonLen = 2000

// LeaveType categorizes a leave request.
type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypePersonal  LeaveType = "personal"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
	LeaveTypeUnpaid    LeaveType = "unpaid"
)

// Valid reports whether the leave type is supported.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypePersonal,
		LeaveTypeMaternity, LeaveTypePaternity, LeaveTypeUnpaid:
		return true
	default:
		return false
	}
}

// LeaveStatus tracks the approval workflow state of a request.
type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

// Valid reports whether the leave status is supported.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status permits no further transitions.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveStatusRejected || s == LeaveStatusCancelled
}

// LeaveRequest is a single leave application moving through the
// pending -> approved/rejected workflow.
type LeaveRequest struct {
	ID         string      `json:"id"                    db:"id"`
	EmployeeID string      `json:"employee_id"           db:"employee_id"`
	Type       LeaveType   `json:"type"                  db:"type"`
	FromDate   time.Time   `json:"from_date"             db:"from_date"`
	ToDate     time.Time   `json:"to_date"               db:"to_date"`
	Days       int         `json:"days"                  db:"days"`
	Status     LeaveStatus `json:"status"                db:"status"`
	Reason     string      `json:"reason,omitempty"      db:"reason"`
	ReviewerID *string     `json:"reviewer_id,omitempty" db:"reviewer_id"`
	ReviewedAt *time.Time  `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt  time.Time   `json:"created_at"            db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"            db:"updated_at"`
}

// LeaveBalance is an employee's remaining allowance per category.
type LeaveBalance struct {
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	Annual     int       `json:"annual"      db:"annual"`
	Sick       int       `json:"sick"        db:"sick"`
	Personal   int       `json:"personal"    db:"personal"`
	Used       int       `json:"used"        db:"used"`
	UpdatedAt  time.Time `json:"updated_at"  db:"updated_at"`
}

// CreateLeaveRequest represents parameters to submit a leave request.
type CreateLeaveRequest struct {
	EmployeeID string    `json:"employee_id"`
	Type       LeaveType `json:"type"`
	FromDate   time.Time `json:"from_date"`
	ToDate     time.Time `json:"to_date"`
	Reason     string    `json:"reason,omitempty"`
}

// LeaveListOptions controls paging and filtering for listing leave requests.
type LeaveListOptions struct {
	Limit      int
	Cursor     string
	EmployeeID *string      // exact match
	Status     *LeaveStatus // exact match
	Type       *LeaveType   // exact match
}

// Validate validates CreateLeaveRequest.
func (r *CreateLeaveRequest) Validate() error {
	if strings.TrimSpace(r.EmployeeID) == "" {
		return errors.New("employee_id is required")
	}
	if !r.Type.Valid() {
		return errors.New("invalid leave type")
	}
	if r.FromDate.IsZero() || r.ToDate.IsZero() {
		return errors.New("from_date and to_date are required")
	}
	if r.ToDate.Before(r.FromDate) {
		return errors.New("to_date cannot be before from_date")
	}
	if len(r.Reason) > maxLeaveReasonLen {
		return errors.New("reason cannot exceed 2000 characters")
	}
	return nil
}

// DayCount returns the inclusive number of calendar days covered by the
// request. Date-only values are expected; time-of-day is ignored.
func (r *CreateLeaveRequest) DayCount() int {
	from := truncateToDay(r.FromDate)
	to := truncateToDay(r.ToDate)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
