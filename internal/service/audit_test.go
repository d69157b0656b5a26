package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hrnova/ui-api/internal/core"
	"github.com/hrnova/ui-api/internal/domain/model"
	apperrors "github.com/hrnova/ui-api/internal/errors"
	"github.com/hrnova/ui-api/internal/mocks"
)

func auditEntry(id string, metadata map[string]any) *model.AuditEntry {
	return &model.AuditEntry{
		ID:         id,
		Actor:      "ana.lima@hrnova.example",
		Action:     "employee.update",
		EntityType: model.AuditEntityEmployee,
		Status:     model.AuditStatusSuccess,
		Metadata:   metadata,
	}
}

func TestAuditService_List_NoQueryPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	page := &core.AuditPage{Entries: []*model.AuditEntry{auditEntry("a-1", nil)}}
	mockRepo.EXPECT().List(ctx, model.AuditListOptions{}).Return(page, nil)

	svc := MustNewAuditService(AuditServiceOptions{Repo: mockRepo})
	got, err := svc.List(ctx, model.AuditListOptions{})
	require.NoError(t, err)
	assert.Equal(t, page, got)
}

func TestAuditService_List_MetadataQueryFiltersPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	opts := model.AuditListOptions{MetadataQuery: "department == 'Engineering'"}
	mockRepo.EXPECT().List(ctx, opts).Return(&core.AuditPage{
		Entries: []*model.AuditEntry{
			auditEntry("a-1", map[string]any{"department": "Engineering"}),
			auditEntry("a-2", map[string]any{"department": "Sales"}),
			auditEntry("a-3", nil),
		},
		NextCursor: "next",
	}, nil)

	svc := MustNewAuditService(AuditServiceOptions{Repo: mockRepo})
	page, err := svc.List(ctx, opts)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "a-1", page.Entries[0].ID)
	// the continuation token survives filtering
	assert.Equal(t, "next", page.NextCursor)
}

func TestAuditService_List_TruthinessSemantics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	opts := model.AuditListOptions{MetadataQuery: "tags"}
	mockRepo.EXPECT().List(ctx, opts).Return(&core.AuditPage{
		Entries: []*model.AuditEntry{
			auditEntry("keep-list", map[string]any{"tags": []any{"x"}}),
			auditEntry("drop-empty-list", map[string]any{"tags": []any{}}),
			auditEntry("drop-empty-string", map[string]any{"tags": ""}),
			auditEntry("keep-number", map[string]any{"tags": float64(0)}),
			auditEntry("drop-false", map[string]any{"tags": false}),
		},
	}, nil)

	svc := MustNewAuditService(AuditServiceOptions{Repo: mockRepo})
	page, err := svc.List(ctx, opts)
	require.NoError(t, err)

	var ids []string
	for _, e := range page.Entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"keep-list", "keep-number"}, ids)
}

func TestAuditService_List_InvalidQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := MustNewAuditService(AuditServiceOptions{Repo: mockRepo})

	_, err := svc.List(context.Background(), model.AuditListOptions{MetadataQuery: "[invalid"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "metadata_query", apperrors.GetField(err))
}

func TestAuditService_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	mockRepo := mocks.NewMockAuditRepository(ctrl)
	req := &model.RecordAuditRequest{
		Actor:      "system",
		Action:     "system.start",
		EntityType: model.AuditEntitySystem,
	}
	mockRepo.EXPECT().Append(ctx, req).Return(&model.AuditEntry{ID: "a-1"}, nil)

	svc := MustNewAuditService(AuditServiceOptions{Repo: mockRepo})
	entry, err := svc.Record(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "a-1", entry.ID)
}

func TestIsTruthy(t *testing.T) {
	assert.False(t, isTruthy(nil))
	assert.False(t, isTruthy(false))
	assert.False(t, isTruthy(""))
	assert.False(t, isTruthy([]any{}))
	assert.False(t, isTruthy(map[string]any{}))
	assert.True(t, isTruthy(true))
	assert.True(t, isTruthy("x"))
	assert.True(t, isTruthy([]any{nil}))
	assert.True(t, isTruthy(map[string]any{"k": nil}))
	assert.True(t, isTruthy(float64(0)))
}
