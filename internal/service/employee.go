package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/hrnova/ui-api/config"
	"github.com/hrnova/ui-api/internal/core"
	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/domain/model"
	apperrors "github.com/hrnova/ui-api/internal/errors"
)

// EmployeeServiceOptions groups dependencies for EmployeeService.
type EmployeeServiceOptions struct {
	Repo      core.EmployeeRepository
	Leave     core.LeaveRepository  // Optional: seeds a balance for new employees
	Audit     core.AuditRepository  // Optional: mutation audit trail
	Changes   core.ChangePublisher  // Optional: change notifications
	Directory config.DirectoryConfig
	Logger    *slog.Logger
}

// EmployeeService provides business logic for the employee directory.
type EmployeeService struct {
	repo      core.EmployeeRepository
	leave     core.LeaveRepository
	audit     core.AuditRepository
	changes   core.ChangePublisher
	directory config.DirectoryConfig
	logger    *slog.Logger
}

// NewEmployeeService constructs a new EmployeeService.
func NewEmployeeService(opts EmployeeServiceOptions) (*EmployeeService, error) {
	if opts.Repo == nil {
		return nil, errors.New("EmployeeRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeService{
		repo:      opts.Repo,
		leave:     opts.Leave,
		audit:     opts.Audit,
		changes:   opts.Changes,
		directory: opts.Directory,
		logger:    logger.With("component", "employee_service"),
	}, nil
}

// MustNewEmployeeService constructs a new EmployeeService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewEmployeeService(opts EmployeeServiceOptions) *EmployeeService {
	svc, err := NewEmployeeService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// Create adds an employee to the directory and seeds their leave balance from
// the directory defaults.
func (s *EmployeeService) Create(
	ctx context.Context,
	actor domainauth.User,
	req *model.CreateEmployeeRequest,
) (*model.Employee, error) {
	if req == nil {
		return nil, apperrors.Validation("create employee request is required")
	}
	if err := s.checkEmailDomain(req.Email); err != nil {
		return nil, err
	}

	emp, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	if s.leave != nil {
		balErr := s.leave.SetBalance(ctx, &model.LeaveBalance{
			EmployeeID: emp.ID,
			Annual:     s.directory.DefaultAnnualLeave,
			Sick:       s.directory.DefaultSickLeave,
			Personal:   s.directory.DefaultPersonalLeave,
		})
		if balErr != nil {
			s.logger.WarnContext(ctx, "seed leave balance failed", "employee_id", emp.ID, "err", balErr)
		}
	}

	s.recordChange(ctx, actor, "employee.create", emp.ID, map[string]any{
		"email":      emp.Email,
		"department": emp.Department,
	})
	return emp, nil
}

// GetByID retrieves an employee by ID.
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}

// List retrieves one directory page.
func (s *EmployeeService) List(ctx context.Context, opts model.EmployeesListOptions) (*core.EmployeePage, error) {
	page, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return page, nil
}

// Update applies a partial update to an employee record.
func (s *EmployeeService) Update(
	ctx context.Context,
	actor domainauth.User,
	id string,
	req model.UpdateEmployeeRequest,
) (*model.Employee, error) {
	if req.Email != nil {
		if err := s.checkEmailDomain(*req.Email); err != nil {
			return nil, err
		}
	}

	emp, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}

	s.recordChange(ctx, actor, "employee.update", emp.ID, nil)
	return emp, nil
}

// Delete removes an employee from the directory.
func (s *EmployeeService) Delete(ctx context.Context, actor domainauth.User, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	s.recordChange(ctx, actor, "employee.delete", id, nil)
	return nil
}

// Headcount aggregates active headcount per department.
func (s *EmployeeService) Headcount(ctx context.Context) ([]model.DepartmentHeadcount, error) {
	counts, err := s.repo.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("headcount: %w", err)
	}
	return counts, nil
}

// checkEmailDomain enforces the allowed registrable domain, when configured.
// Comparison runs on eTLD+1 so subdomain mailboxes still pass.
func (s *EmployeeService) checkEmailDomain(email string) error {
	allowed := strings.ToLower(strings.TrimSpace(s.directory.AllowedEmailDomain))
	if allowed == "" {
		return nil
	}

	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return apperrors.ValidationField("email", "email is not a valid address")
	}
	host := strings.ToLower(strings.TrimSpace(email[at+1:]))

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}
	allowedRegistrable, err := publicsuffix.EffectiveTLDPlusOne(allowed)
	if err != nil {
		allowedRegistrable = allowed
	}
	if registrable != allowedRegistrable {
		return apperrors.ValidationField("email",
			fmt.Sprintf("email domain must belong to %s", allowed))
	}
	return nil
}

func (s *EmployeeService) recordChange(
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
			EntityType: model.AuditEntityEmployee,
			EntityID:   entityID,
			Metadata:   metadata,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "audit append failed", "action", action, "err", err)
		}
	}
	if s.changes != nil {
		err := s.changes.Publish(ctx, core.ChangeEvent{
			EntityType: model.AuditEntityEmployee,
			EntityID:   entityID,
			Action:     action,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "change publish failed", "action", action, "err", err)
		}
	}
}
