package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hrnova/ui-api/internal/domain/model"
	apperrors "github.com/hrnova/ui-api/internal/errors"
	"github.com/hrnova/ui-api/internal/mocks"
)

func TestReviewService_Open_VerifiesEmployee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockRepo := mocks.NewMockReviewRepository(ctrl)
	mockEmployees := mocks.NewMockEmployeeRepository(ctrl)

	req := &model.CreateReviewRequest{EmployeeID: "emp-1", Cycle: "2026-H1"}

	mockEmployees.EXPECT().GetByID(ctx, "emp-1").Return(&model.Employee{ID: "emp-1"}, nil)
	mockRepo.EXPECT().Create(ctx, req).Return(&model.PerformanceReview{
		ID:         "rev-1",
		EmployeeID: "emp-1",
		Cycle:      "2026-H1",
		Status:     model.ReviewStatusNotStarted,
	}, nil)

	svc := MustNewReviewService(ReviewServiceOptions{Repo: mockRepo, Employees: mockEmployees})
	review, err := svc.Open(ctx, hrActor(), req)
	require.NoError(t, err)
	assert.Equal(t, "rev-1", review.ID)
}

func TestReviewService_Open_UnknownEmployee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockRepo := mocks.NewMockReviewRepository(ctrl)
	mockEmployees := mocks.NewMockEmployeeRepository(ctrl)
	mockEmployees.EXPECT().
		GetByID(ctx, "ghost").
		Return(nil, apperrors.NotFound("employee not found"))

	svc := MustNewReviewService(ReviewServiceOptions{Repo: mockRepo, Employees: mockEmployees})
	_, err := svc.Open(ctx, hrActor(), &model.CreateReviewRequest{EmployeeID: "ghost", Cycle: "2026-H1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReviewService_Update_CompletionIsAuditedAsComplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockRepo := mocks.NewMockReviewRepository(ctrl)
	mockEmployees := mocks.NewMockEmployeeRepository(ctrl)
	mockAudit := mocks.NewMockAuditRepository(ctrl)

	completed := model.ReviewStatusCompleted
	rating := 4.5
	req := model.UpdateReviewRequest{Status: &completed, OverallRating: &rating}

	mockRepo.EXPECT().Update(ctx, "rev-1", req).Return(&model.PerformanceReview{
		ID:         "rev-1",
		EmployeeID: "emp-1",
		Status:     completed,
	}, nil)
	mockAudit.EXPECT().
		Append(ctx, gomock.AssignableToTypeOf(&model.RecordAuditRequest{})).
		DoAndReturn(func(_ context.Context, a *model.RecordAuditRequest) (*model.AuditEntry, error) {
			assert.Equal(t, "review.complete", a.Action)
			assert.Equal(t, model.AuditEntityReview, a.EntityType)
			return &model.AuditEntry{ID: "a-1"}, nil
		})

	svc := MustNewReviewService(ReviewServiceOptions{
		Repo:      mockRepo,
		Employees: mockEmployees,
		Audit:     mockAudit,
	})
	review, err := svc.Update(ctx, hrActor(), "rev-1", req)
	require.NoError(t, err)
	assert.Equal(t, completed, review.Status)
}

func TestReviewService_Stats_PassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockRepo := mocks.NewMockReviewRepository(ctrl)
	mockEmployees := mocks.NewMockEmployeeRepository(ctrl)

	stats := &model.ReviewStats{Completed: 3, AvgRating: 4.1}
	mockRepo.EXPECT().Stats(ctx).Return(stats, nil)

	svc := MustNewReviewService(ReviewServiceOptions{Repo: mockRepo, Employees: mockEmployees})
	got, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}
