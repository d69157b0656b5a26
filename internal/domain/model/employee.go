//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const maxEmployeeNameLen = 120

// EmployeeStatus tracks whether an employee is active in the directory.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
	EmployeeStatusOnLeave  EmployeeStatus = "on_leave"
)

// Valid reports whether the employee status is supported.
func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusOnLeave:
		return true
	default:
		return false
	}
}

// ParseEmployeeStatus normalizes a status string and reports whether it is supported.
func ParseEmployeeStatus(value string) (EmployeeStatus, bool) {
	s := EmployeeStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// EmploymentType distinguishes contractual arrangements.
type EmploymentType string

const (
	EmploymentTypeFullTime EmploymentType = "full_time"
	EmploymentTypePartTime EmploymentType = "part_time"
	EmploymentTypeContract EmploymentType = "contract"
)

// Valid reports whether the employment type is supported.
func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentTypeFullTime, EmploymentTypePartTime, EmploymentTypeContract:
		return true
	default:
		return false
	}
}

// Employee is a directory record in the CoreHR module.
type Employee struct {
	ID             string         `json:"id"                   db:"id"`
	FirstName      string         `json:"first_name"           db:"first_name"`
	LastName       string         `json:"last_name"            db:"last_name"`
	Email          string         `json:"email"                db:"email"`
	Phone          string         `json:"phone,omitempty"      db:"phone"`
	Avatar         string         `json:"avatar,omitempty"     db:"avatar"`
	Title          string         `json:"title"                db:"title"`
	Department     string         `json:"department"           db:"department"`
	City           string         `json:"city,omitempty"       db:"city"`
	ManagerID      *string        `json:"manager_id,omitempty" db:"manager_id"`
	Status         EmployeeStatus `json:"status"               db:"status"`
	EmploymentType EmploymentType `json:"employment_type"      db:"employment_type"`
	JoinedAt       time.Time      `json:"joined_at"            db:"joined_at"`
	CreatedAt      time.Time      `json:"created_at"           db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"           db:"updated_at"`
}

// FullName joins first and last name, tolerating either being empty.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// CreateEmployeeRequest represents parameters to create an Employee.
type CreateEmployeeRequest struct {
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	Title          string         `json:"title"`
	Department     string         `json:"department"`
	City           string         `json:"city,omitempty"`
	ManagerID      *string        `json:"manager_id,omitempty"`
	Status         EmployeeStatus `json:"status,omitempty"`
	EmploymentType EmploymentType `json:"employment_type,omitempty"`
	JoinedAt       time.Time      `json:"joined_at"`
}

// UpdateEmployeeRequest represents parameters to update an Employee.
// Nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	FirstName      *string         `json:"first_name,omitempty"`
	LastName       *string         `json:"last_name,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Title          *string         `json:"title,omitempty"`
	Department     *string         `json:"department,omitempty"`
	City           *string         `json:"city,omitempty"`
	ManagerID      *string         `json:"manager_id,omitempty"`
	Status         *EmployeeStatus `json:"status,omitempty"`
	EmploymentType *EmploymentType `json:"employment_type,omitempty"`
}

// EmployeesListOptions controls paging and filtering for listing employees.
// Cursor is an opaque continuation token from a previous page.
type EmployeesListOptions struct {
	Limit      int
	Cursor     string
	Q          *string         // substring match on name or email (ILIKE)
	Department *string         // exact match
	Status     *EmployeeStatus // exact match
}

// Validate validates CreateEmployeeRequest.
func (r *CreateEmployeeRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return errors.New("first_name is required")
	}
	if utf8.RuneCountInString(r.FirstName) > maxEmployeeNameLen ||
		utf8.RuneCountInString(r.LastName) > maxEmployeeNameLen {
		return errors.New("name cannot exceed 120 characters")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if strings.TrimSpace(r.Department) == "" {
		return errors.New("department is required")
	}
	if r.JoinedAt.IsZero() {
		return errors.New("joined_at is required")
	}
	if r.Status == "" {
		r.Status = EmployeeStatusActive
	}
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	if r.EmploymentType == "" {
		r.EmploymentType = EmploymentTypeFullTime
	}
	if !r.EmploymentType.Valid() {
		return errors.New("invalid employment_type")
	}
	return nil
}

// Validate validates UpdateEmployeeRequest.
func (r *UpdateEmployeeRequest) Validate() error {
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("invalid status")
	}
	if r.EmploymentType != nil && !r.EmploymentType.Valid() {
		return errors.New("invalid employment_type")
	}
	if r.Department != nil && strings.TrimSpace(*r.Department) == "" {
		return errors.New("department cannot be empty")
	}
	return nil
}

func validateEmail(value string) error {
	addr := strings.TrimSpace(value)
	if addr == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return errors.New("email is not a valid address")
	}
	return nil
}
