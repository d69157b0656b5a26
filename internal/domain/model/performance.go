//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// ReviewStatus tracks completion of a performance review.
type ReviewStatus string

const (
	ReviewStatusNotStarted ReviewStatus = "not_started"
	ReviewStatusInProgress ReviewStatus = "in_progress"
	ReviewStatusCompleted  ReviewStatus = "completed"
)

// Valid reports whether the review status is supported.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusNotStarted, ReviewStatusInProgress, ReviewStatusCompleted:
		return true
	default:
		return false
	}
}

// PerformanceReview is one review cycle entry for an employee.
type PerformanceReview struct {
	ID            string       `json:"id"                       db:"id"`
	EmployeeID    string       `json:"employee_id"              db:"employee_id"`
	ReviewerID    *string      `json:"reviewer_id,omitempty"    db:"reviewer_id"`
	Cycle         string       `json:"cycle"                    db:"cycle"`
	Period        string       `json:"period,omitempty"         db:"period"`
	OverallRating float64      `json:"overall_rating"           db:"overall_rating"`
	Status        ReviewStatus `json:"status"                   db:"status"`
	Comments      string       `json:"comments,omitempty"       db:"comments"`
	CreatedAt     time.Time    `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"               db:"updated_at"`
}

// CreateReviewRequest represents parameters to open a review.
type CreateReviewRequest struct {
	EmployeeID string  `json:"employee_id"`
	ReviewerID *string `json:"reviewer_id,omitempty"`
	Cycle      string  `json:"cycle"`
	Period     string  `json:"period,omitempty"`
}

// UpdateReviewRequest represents parameters to update a review in progress.
type UpdateReviewRequest struct {
	ReviewerID    *string       `json:"reviewer_id,omitempty"`
	OverallRating *float64      `json:"overall_rating,omitempty"`
	Status        *ReviewStatus `json:"status,omitempty"`
	Comments      *string       `json:"comments,omitempty"`
}

// ReviewListOptions controls paging and filtering for listing reviews.
type ReviewListOptions struct {
	Limit      int
	Cursor     string
	EmployeeID *string       // exact match
	Status     *ReviewStatus // exact match
	Cycle      *string       // exact match
}

// ReviewStats summarizes review completion for the Performance dashboard.
type ReviewStats struct {
	Completed  int     `json:"completed"`
	InProgress int     `json:"in_progress"`
	NotStarted int     `json:"not_started"`
	AvgRating  float64 `json:"avg_rating"`
}

// Validate validates CreateReviewRequest.
func (r *CreateReviewRequest) Validate() error {
	if strings.TrimSpace(r.EmployeeID) == "" {
		return errors.New("employee_id is required")
	}
	if strings.TrimSpace(r.Cycle) == "" {
		return errors.New("cycle is required")
	}
	return nil
}

// Validate validates UpdateReviewRequest.
func (r *UpdateReviewRequest) Validate() error {
	if r.OverallRating != nil && (*r.OverallRating < 0 || *r.OverallRating > 5) {
		return errors.New("overall_rating must be between 0 and 5")
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("invalid review status")
	}
	return nil
}
