package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrnova/ui-api/internal/core"
	"github.com/hrnova/ui-api/internal/domain/model"
	"github.com/hrnova/ui-api/internal/errors"
	"github.com/hrnova/ui-api/internal/testutil"
)

func seedBalance(t *testing.T, db *sql.DB, employeeID string, annual, sick, personal int) {
	t.Helper()
	repo := NewLeaveRepo(db)
	require.NoError(t, repo.SetBalance(context.Background(), &model.LeaveBalance{
		EmployeeID: employeeID,
		Annual:     annual,
		Sick:       sick,
		Personal:   personal,
	}))
}

func TestLeaveRepo_Create_Get(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)
		emp := createTestEmployee(t, db, "leave-create")

		req := testutil.NewLeaveRequest(emp.ID).Build()
		lr, err := repo.Create(ctx, req, req.DayCount())
		require.NoError(t, err)
		require.NotEmpty(t, lr.ID)
		assert.Equal(t, model.LeaveStatusPending, lr.Status)
		assert.Equal(t, 5, lr.Days)
		assert.Nil(t, lr.ReviewerID)
		assert.Nil(t, lr.ReviewedAt)

		got, err := repo.GetByID(ctx, lr.ID)
		require.NoError(t, err)
		assert.Equal(t, lr.ID, got.ID)
		assert.Equal(t, emp.ID, got.EmployeeID)

		_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestLeaveRepo_Create_ValidationErrors(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)

		_, err := repo.Create(ctx, nil, 1)
		require.Error(t, err)

		req := testutil.NewLeaveRequest("").Build()
		_, err = repo.Create(ctx, req, 1)
		require.Error(t, err)

		req = testutil.NewLeaveRequest("emp").WithType("sabbatical").Build()
		_, err = repo.Create(ctx, req, 1)
		require.Error(t, err)

		req = testutil.NewLeaveRequest("emp").Build()
		_, err = repo.Create(ctx, req, 0)
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestLeaveRepo_Decide_ApproveDebitsBalance(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)
		emp := createTestEmployee(t, db, "leave-approve")
		reviewer := createTestEmployee(t, db, "leave-reviewer")
		seedBalance(t, db, emp.ID, 20, 10, 5)

		req := testutil.NewLeaveRequest(emp.ID).Build()
		lr, err := repo.Create(ctx, req, req.DayCount())
		require.NoError(t, err)

		decided, err := repo.Decide(ctx, core.ReviewDecision{
			RequestID:  lr.ID,
			ReviewerID: reviewer.ID,
			Status:     model.LeaveStatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, model.LeaveStatusApproved, decided.Status)
		require.NotNil(t, decided.ReviewerID)
		assert.Equal(t, reviewer.ID, *decided.ReviewerID)
		assert.NotNil(t, decided.ReviewedAt)

		balance, err := repo.GetBalance(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, 15, balance.Annual)
		assert.Equal(t, 5, balance.Used)

		// a decided request cannot be decided again
		_, err = repo.Decide(ctx, core.ReviewDecision{
			RequestID:  lr.ID,
			ReviewerID: reviewer.ID,
			Status:     model.LeaveStatusRejected,
		})
		require.Error(t, err)
		assert.True(t, errors.IsConflict(err))
	})
}

func TestLeaveRepo_Decide_RejectLeavesBalanceUntouched(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)
		emp := createTestEmployee(t, db, "leave-reject")
		reviewer := createTestEmployee(t, db, "leave-reject-rev")
		seedBalance(t, db, emp.ID, 20, 10, 5)

		req := testutil.NewLeaveRequest(emp.ID).Build()
		lr, err := repo.Create(ctx, req, req.DayCount())
		require.NoError(t, err)

		decided, err := repo.Decide(ctx, core.ReviewDecision{
			RequestID:  lr.ID,
			ReviewerID: reviewer.ID,
			Status:     model.LeaveStatusRejected,
		})
		require.NoError(t, err)
		assert.Equal(t, model.LeaveStatusRejected, decided.Status)

		balance, err := repo.GetBalance(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, balance.Annual)
		assert.Equal(t, 0, balance.Used)
	})
}

func TestLeaveRepo_Decide_InsufficientBalanceRollsBack(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)
		emp := createTestEmployee(t, db, "leave-short")
		reviewer := createTestEmployee(t, db, "leave-short-rev")
		seedBalance(t, db, emp.ID, 2, 0, 0)

		req := testutil.NewLeaveRequest(emp.ID).Build() // five days against two
		lr, err := repo.Create(ctx, req, req.DayCount())
		require.NoError(t, err)

		_, err = repo.Decide(ctx, core.ReviewDecision{
			RequestID:  lr.ID,
			ReviewerID: reviewer.ID,
			Status:     model.LeaveStatusApproved,
		})
		require.Error(t, err)
		assert.True(t, errors.IsConflict(err))

		// the request stays pending and the balance is untouched
		got, err := repo.GetByID(ctx, lr.ID)
		require.NoError(t, err)
		assert.Equal(t, model.LeaveStatusPending, got.Status)

		balance, err := repo.GetBalance(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, balance.Annual)
		assert.Equal(t, 0, balance.Used)
	})
}

func TestLeaveRepo_Decide_UnpaidTracksUsageOnly(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)
		emp := createTestEmployee(t, db, "leave-unpaid")
		reviewer := createTestEmployee(t, db, "leave-unpaid-rev")
		seedBalance(t, db, emp.ID, 10, 5, 3)

		req := testutil.NewLeaveRequest(emp.ID).WithType(model.LeaveTypeUnpaid).Build()
		lr, err := repo.Create(ctx, req, req.DayCount())
		require.NoError(t, err)

		_, err = repo.Decide(ctx, core.ReviewDecision{
			RequestID:  lr.ID,
			ReviewerID: reviewer.ID,
			Status:     model.LeaveStatusApproved,
		})
		require.NoError(t, err)

		balance, err := repo.GetBalance(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, balance.Annual)
		assert.Equal(t, 5, balance.Used)
	})
}

func TestLeaveRepo_Decide_InvalidStatus(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewLeaveRepo(db)
		_, err := repo.Decide(context.Background(), core.ReviewDecision{
			RequestID: "any",
			Status:    model.LeaveStatusCancelled,
		})
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestLeaveRepo_Cancel(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)
		emp := createTestEmployee(t, db, "leave-cancel")
		reviewer := createTestEmployee(t, db, "leave-cancel-rev")
		seedBalance(t, db, emp.ID, 20, 10, 5)

		req := testutil.NewLeaveRequest(emp.ID).Build()
		lr, err := repo.Create(ctx, req, req.DayCount())
		require.NoError(t, err)

		cancelled, err := repo.Cancel(ctx, lr.ID)
		require.NoError(t, err)
		assert.Equal(t, model.LeaveStatusCancelled, cancelled.Status)

		// cancelling again conflicts
		_, err = repo.Cancel(ctx, lr.ID)
		require.Error(t, err)
		assert.True(t, errors.IsConflict(err))

		// approved requests cannot be cancelled
		req2 := testutil.NewLeaveRequest(emp.ID).Build()
		lr2, err := repo.Create(ctx, req2, req2.DayCount())
		require.NoError(t, err)
		_, err = repo.Decide(ctx, core.ReviewDecision{
			RequestID:  lr2.ID,
			ReviewerID: reviewer.ID,
			Status:     model.LeaveStatusApproved,
		})
		require.NoError(t, err)
		_, err = repo.Cancel(ctx, lr2.ID)
		require.Error(t, err)
		assert.True(t, errors.IsConflict(err))

		// missing request
		_, err = repo.Cancel(ctx, "00000000-0000-0000-0000-000000000000")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestLeaveRepo_List_Filters(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)
		empA := createTestEmployee(t, db, "leave-list-a")
		empB := createTestEmployee(t, db, "leave-list-b")

		for i := 0; i < 3; i++ {
			req := testutil.NewLeaveRequest(empA.ID).Build()
			_, err := repo.Create(ctx, req, req.DayCount())
			require.NoError(t, err)
		}
		sickReq := testutil.NewLeaveRequest(empB.ID).WithType(model.LeaveTypeSick).Build()
		_, err := repo.Create(ctx, sickReq, sickReq.DayCount())
		require.NoError(t, err)

		page, err := repo.List(ctx, model.LeaveListOptions{EmployeeID: &empA.ID})
		require.NoError(t, err)
		assert.Len(t, page.Requests, 3)

		sick := model.LeaveTypeSick
		page, err = repo.List(ctx, model.LeaveListOptions{Type: &sick})
		require.NoError(t, err)
		require.Len(t, page.Requests, 1)
		assert.Equal(t, empB.ID, page.Requests[0].EmployeeID)

		pending := model.LeaveStatusPending
		page, err = repo.List(ctx, model.LeaveListOptions{Status: &pending})
		require.NoError(t, err)
		assert.Len(t, page.Requests, 4)
	})
}

func TestLeaveRepo_GetBalance_SetBalance(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)
		emp := createTestEmployee(t, db, "leave-balance")

		_, err := repo.GetBalance(ctx, emp.ID)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))

		seedBalance(t, db, emp.ID, 25, 10, 3)
		balance, err := repo.GetBalance(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, 25, balance.Annual)

		// upsert overwrites
		seedBalance(t, db, emp.ID, 30, 10, 3)
		balance, err = repo.GetBalance(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, 30, balance.Annual)

		require.Error(t, repo.SetBalance(ctx, nil))
		require.Error(t, repo.SetBalance(ctx, &model.LeaveBalance{}))
	})
}

func TestLeaveRepo_CountByType(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewLeaveRepo(db)
		emp := createTestEmployee(t, db, "leave-count")

		for i := 0; i < 2; i++ {
			req := testutil.NewLeaveRequest(emp.ID).Build()
			_, err := repo.Create(ctx, req, req.DayCount())
			require.NoError(t, err)
		}
		sickReq := testutil.NewLeaveRequest(emp.ID).WithType(model.LeaveTypeSick).Build()
		_, err := repo.Create(ctx, sickReq, sickReq.DayCount())
		require.NoError(t, err)

		// cancelled requests are excluded
		cancelReq := testutil.NewLeaveRequest(emp.ID).WithType(model.LeaveTypePersonal).Build()
		lr, err := repo.Create(ctx, cancelReq, cancelReq.DayCount())
		require.NoError(t, err)
		_, err = repo.Cancel(ctx, lr.ID)
		require.NoError(t, err)

		counts, err := repo.CountByType(ctx)
		require.NoError(t, err)

		byType := map[model.LeaveType]int{}
		for _, c := range counts {
			byType[c.Type] = c.Count
		}
		assert.Equal(t, 2, byType[model.LeaveTypeAnnual])
		assert.Equal(t, 1, byType[model.LeaveTypeSick])
		assert.Zero(t, byType[model.LeaveTypePersonal])
	})
}
