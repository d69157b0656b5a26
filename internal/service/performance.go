package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hrnova/ui-api/internal/core"
	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/domain/model"
	apperrors "github.com/hrnova/ui-api/internal/errors"
)

// ReviewServiceOptions groups dependencies for ReviewService.
type ReviewServiceOptions struct {
	Repo      core.ReviewRepository
	Employees core.EmployeeRepository
	Audit     core.AuditRepository // Optional: mutation audit trail
	Changes   core.ChangePublisher // Optional: change notifications
	Logger    *slog.Logger
}

// ReviewService provides business logic for performance reviews.
type ReviewService struct {
	repo      core.ReviewRepository
	employees core.EmployeeRepository
	audit     core.AuditRepository
	changes   core.ChangePublisher
	logger    *slog.Logger
}

// NewReviewService constructs a new ReviewService.
func NewReviewService(opts ReviewServiceOptions) (*ReviewService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ReviewRepository is required")
	}
	if opts.Employees == nil {
		return nil, errors.New("EmployeeRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{
		repo:      opts.Repo,
		employees: opts.Employees,
		audit:     opts.Audit,
		changes:   opts.Changes,
		logger:    logger.With("component", "review_service"),
	}, nil
}

// MustNewReviewService constructs a new ReviewService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewReviewService(opts ReviewServiceOptions) *ReviewService {
	svc, err := NewReviewService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// Open starts a review cycle entry for an employee.
func (s *ReviewService) Open(
	ctx context.Context,
	actor domainauth.User,
	req *model.CreateReviewRequest,
) (*model.PerformanceReview, error) {
	if req == nil {
		return nil, apperrors.Validation("create review request is required")
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, fmt.Errorf("resolve employee: %w", err)
	}

	review, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("open review: %w", err)
	}

	s.recordChange(ctx, actor, "review.open", review.ID, map[string]any{
		"employee_id": review.EmployeeID,
		"cycle":       review.Cycle,
	})
	return review, nil
}

// GetByID retrieves a review by ID.
func (s *ReviewService) GetByID(ctx context.Context, id string) (*model.PerformanceReview, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// List retrieves one page of reviews.
func (s *ReviewService) List(ctx context.Context, opts model.ReviewListOptions) (*core.ReviewPage, error) {
	page, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return page, nil
}

// Update applies a partial update to a review in progress.
func (s *ReviewService) Update(
	ctx context.Context,
	actor domainauth.User,
	id string,
	req model.UpdateReviewRequest,
) (*model.PerformanceReview, error) {
	review, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	action := "review.update"
	if req.Status != nil && *req.Status == model.ReviewStatusCompleted {
		action = "review.complete"
	}
	s.recordChange(ctx, actor, action, review.ID, map[string]any{
		"employee_id": review.EmployeeID,
	})
	return review, nil
}

// Stats summarizes review completion for the dashboard.
func (s *ReviewService) Stats(ctx context.Context) (*model.ReviewStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	return stats, nil
}

func (s *ReviewService) recordChange(
	ctx context.Context,
	actor domainauth.User,
	action, entityID string,
	metadata map[string]any,
) {
	if s.audit != nil {
		_, err := s.audit.Append(ctx, &model.RecordAuditRequest{
			Actor:      actor.Email,
			ActorID:    actor.ID,
			Action:     action,
			EntityType: model.AuditEntityReview,
			EntityID:   entityID,
			Metadata:   metadata,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "audit append failed", "action", action, "err", err)
		}
	}
	if s.changes != nil {
		err := s.changes.Publish(ctx, core.ChangeEvent{
			EntityType: model.AuditEntityReview,
			EntityID:   entityID,
			Action:     action,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "change publish failed", "action", action, "err", err)
		}
	}
}
