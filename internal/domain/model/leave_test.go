package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateLeave() CreateLeaveRequest {
	return CreateLeaveRequest{
		EmployeeID: "emp-1",
		Type:       LeaveTypeAnnual,
		FromDate:   time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC),
		ToDate:     time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		Reason:     "summer holiday",
	}
}

func TestCreateLeaveRequest_Validate(t *testing.T) {
	req := validCreateLeave()
	require.NoError(t, req.Validate())
}

func TestCreateLeaveRequest_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateLeaveRequest)
	}{
		{"missing employee", func(r *CreateLeaveRequest) { r.EmployeeID = "" }},
		{"bad type", func(r *CreateLeaveRequest) { r.Type = "sabbatical" }},
		{"missing dates", func(r *CreateLeaveRequest) { r.FromDate, r.ToDate = time.Time{}, time.Time{} }},
		{"inverted range", func(r *CreateLeaveRequest) { r.FromDate, r.ToDate = r.ToDate, r.FromDate }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateLeave()
			tt.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestCreateLeaveRequest_DayCount(t *testing.T) {
	req := validCreateLeave()
	assert.Equal(t, 5, req.DayCount())

	// Single day requests count as one day.
	req.ToDate = req.FromDate
	assert.Equal(t, 1, req.DayCount())

	// Time-of-day is ignored.
	req.FromDate = time.Date(2026, 7, 6, 23, 30, 0, 0, time.UTC)
	req.ToDate = time.Date(2026, 7, 7, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 2, req.DayCount())
}

func TestLeaveStatus_Terminal(t *testing.T) {
	assert.False(t, LeaveStatusPending.Terminal())
	assert.False(t, LeaveStatusApproved.Terminal())
	assert.True(t, LeaveStatusRejected.Terminal())
	assert.True(t, LeaveStatusCancelled.Terminal())
}
