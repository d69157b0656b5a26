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

// LeaveServiceOptions groups dependencies for LeaveService.
type LeaveServiceOptions struct {
	Repo      core.LeaveRepository
	Employees core.EmployeeRepository
	Audit     core.AuditRepository // Optional: workflow audit trail
	Changes   core.ChangePublisher // Optional: change notifications
	Logger    *slog.Logger
}

// LeaveService provides business logic for the leave workflow.
type LeaveService struct {
	repo      core.LeaveRepository
	employees core.EmployeeRepository
	audit     core.AuditRepository
	changes   core.ChangePublisher
	logger    *slog.Logger
}

// NewLeaveService constructs a new LeaveService.
func NewLeaveService(opts LeaveServiceOptions) (*LeaveService, error) {
	if opts.Repo == nil {
		return nil, errors.New("LeaveRepository is required")
	}
	if opts.Employees == nil {
		return nil, errors.New("EmployeeRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaveService{
		repo:      opts.Repo,
		employees: opts.Employees,
		audit:     opts.Audit,
		changes:   opts.Changes,
		logger:    logger.With("component", "leave_service"),
	}, nil
}

// MustNewLeaveService constructs a new LeaveService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewLeaveService(opts LeaveServiceOptions) *LeaveService {
	svc, err := NewLeaveService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// Submit files a new leave request. Non-privileged actors may only file for
// their own employee record.
func (s *LeaveService) Submit(
	ctx context.Context,
	actor domainauth.User,
	req *model.CreateLeaveRequest,
) (*model.LeaveRequest, error) {
	if req == nil {
		return nil, apperrors.Validation("create leave request is required")
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("resolve employee: %w", err)
	}
	if !s.actorIsPrivileged(actor) && !sameIdentity(actor, emp) {
		return nil, apperrors.Unauthorized("leave requests can only be filed for your own record")
	}

	days := req.DayCount()
	if days <= 0 {
		return nil, apperrors.ValidationField("to_date", "date range covers no days")
	}

	lr, err := s.repo.Create(ctx, req, days)
	if err != nil {
		return nil, fmt.Errorf("submit leave request: %w", err)
	}

	s.recordChange(ctx, actor, "leave.submit", lr.ID, map[string]any{
		"employee_id": lr.EmployeeID,
		"type":        string(lr.Type),
		"days":        lr.Days,
	})
	return lr, nil
}

// GetByID retrieves a leave request by ID.
func (s *LeaveService) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	lr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get leave request: %w", err)
	}
	return lr, nil
}

// List retrieves one page of leave requests. Non-privileged actors only see
// their own requests.
func (s *LeaveService) List(
	ctx context.Context,
	actor domainauth.User,
	opts model.LeaveListOptions,
) (*core.LeavePage, error) {
	if !s.actorIsPrivileged(actor) {
		emp, err := s.employees.GetByEmail(ctx, actor.Email)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return &core.LeavePage{Requests: []*model.LeaveRequest{}}, nil
			}
			return nil, fmt.Errorf("resolve employee: %w", err)
		}
		opts.EmployeeID = &emp.ID
	}

	page, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return page, nil
}

// Decide approves or rejects a pending request. The actor must have an
// employee record to be referenced as the reviewer.
func (s *LeaveService) Decide(
	ctx context.Context,
	actor domainauth.User,
	requestID string,
	status model.LeaveStatus,
) (*model.LeaveRequest, error) {
	reviewer, err := s.employees.GetByEmail(ctx, actor.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("reviewer has no employee record")
		}
		return nil, fmt.Errorf("resolve reviewer: %w", err)
	}

	lr, err := s.repo.Decide(ctx, core.ReviewDecision{
		RequestID:  requestID,
		ReviewerID: reviewer.ID,
		Status:     status,
	})
	if err != nil {
		return nil, fmt.Errorf("decide leave request: %w", err)
	}

	s.recordChange(ctx, actor, "leave."+string(status), lr.ID, map[string]any{
		"employee_id": lr.EmployeeID,
		"days":        lr.Days,
	})
	return lr, nil
}

// Cancel withdraws a pending request. Non-privileged actors may only cancel
// their own requests.
func (s *LeaveService) Cancel(
	ctx context.Context,
	actor domainauth.User,
	requestID string,
) (*model.LeaveRequest, error) {
	lr, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get leave request: %w", err)
	}
	if !s.actorIsPrivileged(actor) {
		emp, empErr := s.employees.GetByID(ctx, lr.EmployeeID)
		if empErr != nil {
			return nil, fmt.Errorf("resolve employee: %w", empErr)
		}
		if !sameIdentity(actor, emp) {
			return nil, apperrors.Unauthorized("only your own requests can be cancelled")
		}
	}

	cancelled, err := s.repo.Cancel(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("cancel leave request: %w", err)
	}

	s.recordChange(ctx, actor, "leave.cancel", cancelled.ID, nil)
	return cancelled, nil
}

// Balance retrieves the leave balance for an employee.
func (s *LeaveService) Balance(ctx context.Context, employeeID string) (*model.LeaveBalance, error) {
	balance, err := s.repo.GetBalance(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("get leave balance: %w", err)
	}
	return balance, nil
}

// SetBalance overwrites an employee's allowance.
func (s *LeaveService) SetBalance(
	ctx context.Context,
	actor domainauth.User,
	balance *model.LeaveBalance,
) error {
	if err := s.repo.SetBalance(ctx, balance); err != nil {
		return fmt.Errorf("set leave balance: %w", err)
	}
	s.recordChange(ctx, actor, "leave.balance_set", balance.EmployeeID, map[string]any{
		"annual":   balance.Annual,
		"sick":     balance.Sick,
		"personal": balance.Personal,
	})
	return nil
}

// actorIsPrivileged reports whether the actor may act on other employees'
// requests.
func (s *LeaveService) actorIsPrivileged(actor domainauth.User) bool {
	switch actor.Role {
	case domainauth.RoleSystemAdmin, domainauth.RoleHrAdmin, domainauth.RoleManager:
		return true
	default:
		return false
	}
}

// sameIdentity matches the authenticated actor to a directory record by
// email. The identity provider subject and the directory ID are separate
// namespaces.
func sameIdentity(actor domainauth.User, emp *model.Employee) bool {
	return actor.Email != "" && actor.Email == emp.Email
}

func (s *LeaveService) recordChange(
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
			EntityType: model.AuditEntityLeave,
			EntityID:   entityID,
			Metadata:   metadata,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "audit append failed", "action", action, "err", err)
		}
	}
	if s.changes != nil {
		err := s.changes.Publish(ctx, core.ChangeEvent{
			EntityType: model.AuditEntityLeave,
			EntityID:   entityID,
			Action:     action,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "change publish failed", "action", action, "err", err)
		}
	}
}
