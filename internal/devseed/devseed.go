// Package devseed populates a development database with a small, coherent
// HR data set: a directory with a manager chain, leave activity in every
// workflow state, and an open review cycle.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrnova/ui-api/config"
	"github.com/hrnova/ui-api/internal/data"
	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/domain/model"
	"github.com/hrnova/ui-api/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	employees *service.EmployeeService
	leave     *service.LeaveService
	reviews   *service.ReviewService
}

// NewServices constructs the services required for seeding using the provided DB.
// Audit and change publishing are deliberately left unwired; seed activity
// should not pollute the audit trail.
func NewServices(db *sql.DB, directory config.DirectoryConfig) Services {
	employeeRepo := data.NewEmployeeRepo(db)
	leaveRepo := data.NewLeaveRepo(db)
	reviewRepo := data.NewReviewRepo(db)

	return Services{
		employees: service.MustNewEmployeeService(service.EmployeeServiceOptions{
			Repo:      employeeRepo,
			Leave:     leaveRepo,
			Directory: directory,
		}),
		leave: service.MustNewLeaveService(service.LeaveServiceOptions{
			Repo:      leaveRepo,
			Employees: employeeRepo,
		}),
		reviews: service.MustNewReviewService(service.ReviewServiceOptions{
			Repo:      reviewRepo,
			Employees: employeeRepo,
		}),
	}
}

type seedEmployee struct {
	first      string
	last       string
	email      string
	title      string
	department string
	manager    string // email of the manager, resolved after the first pass
}

func seedDirectory() []seedEmployee {
	return []seedEmployee{
		{"Helena", "Ramos", "helena.ramos@hrnova.example", "Head of People", "People", ""},
		{"Marcus", "Webb", "marcus.webb@hrnova.example", "Engineering Manager", "Engineering", "helena.ramos@hrnova.example"},
		{"Ana", "Lima", "ana.lima@hrnova.example", "Senior Engineer", "Engineering", "marcus.webb@hrnova.example"},
		{"Bram", "de Vries", "bram.devries@hrnova.example", "Engineer", "Engineering", "marcus.webb@hrnova.example"},
		{"Carla", "Souza", "carla.souza@hrnova.example", "Sales Lead", "Sales", "helena.ramos@hrnova.example"},
		{"Dana", "Kovac", "dana.kovac@hrnova.example", "Account Executive", "Sales", "carla.souza@hrnova.example"},
	}
}

// seedActor is the identity recorded as the author of seeded workflow
// activity. It matches the first seeded employee so ownership checks pass.
func seedActor() domainauth.User {
	return domainauth.User{
		ID:    "seed-hr-admin",
		Email: "helena.ramos@hrnova.example",
		Role:  domainauth.RoleHrAdmin,
	}
}

// Run seeds the database. Seeding is skipped when the directory already has
// employees, so it is safe to call on every startup of a dev environment.
func Run(ctx context.Context, db *sql.DB, directory config.DirectoryConfig, logger *slog.Logger) error {
	svcs := NewServices(db, directory)

	page, err := svcs.employees.List(ctx, model.EmployeesListOptions{Limit: 1})
	if err != nil {
		return fmt.Errorf("check existing employees: %w", err)
	}
	if len(page.Employees) > 0 {
		if logger != nil {
			logger.InfoContext(ctx, "seed skipped; directory is not empty")
		}
		return nil
	}

	byEmail, err := seedEmployees(ctx, svcs)
	if err != nil {
		return err
	}
	if err := seedLeave(ctx, svcs, byEmail); err != nil {
		return err
	}
	if err := seedReviews(ctx, svcs, byEmail); err != nil {
		return err
	}

	if logger != nil {
		logger.InfoContext(ctx, "development data seeded", "employees", len(byEmail))
	}
	return nil
}

func seedEmployees(ctx context.Context, svcs Services) (map[string]*model.Employee, error) {
	actor := seedActor()
	byEmail := make(map[string]*model.Employee)

	// Two passes: managers must exist before reports can reference them,
	// and seedDirectory lists managers first.
	for _, s := range seedDirectory() {
		req := &model.CreateEmployeeRequest{
			FirstName:      s.first,
			LastName:       s.last,
			Email:          s.email,
			Title:          s.title,
			Department:     s.department,
			Status:         model.EmployeeStatusActive,
			EmploymentType: model.EmploymentTypeFullTime,
			JoinedAt:       time.Now().AddDate(-1, 0, 0),
		}
		if s.manager != "" {
			mgr, ok := byEmail[s.manager]
			if !ok {
				return nil, fmt.Errorf("seed employee %s: manager %s not seeded yet", s.email, s.manager)
			}
			req.ManagerID = &mgr.ID
		}

		emp, err := svcs.employees.Create(ctx, actor, req)
		if err != nil {
			return nil, fmt.Errorf("seed employee %s: %w", s.email, err)
		}
		byEmail[s.email] = emp
	}
	return byEmail, nil
}

func seedLeave(ctx context.Context, svcs Services, byEmail map[string]*model.Employee) error {
	actor := seedActor()
	monday := nextMonday(time.Now())

	pending := &model.CreateLeaveRequest{
		EmployeeID: byEmail["ana.lima@hrnova.example"].ID,
		Type:       model.LeaveTypeAnnual,
		FromDate:   monday,
		ToDate:     monday.AddDate(0, 0, 4),
		Reason:     "family visit",
	}
	if _, err := svcs.leave.Submit(ctx, actor, pending); err != nil {
		return fmt.Errorf("seed pending leave: %w", err)
	}

	toApprove := &model.CreateLeaveRequest{
		EmployeeID: byEmail["dana.kovac@hrnova.example"].ID,
		Type:       model.LeaveTypeSick,
		FromDate:   monday.AddDate(0, 0, 7),
		ToDate:     monday.AddDate(0, 0, 8),
	}
	lr, err := svcs.leave.Submit(ctx, actor, toApprove)
	if err != nil {
		return fmt.Errorf("seed approvable leave: %w", err)
	}
	if _, err := svcs.leave.Decide(ctx, actor, lr.ID, model.LeaveStatusApproved); err != nil {
		return fmt.Errorf("seed leave approval: %w", err)
	}
	return nil
}

func seedReviews(ctx context.Context, svcs Services, byEmail map[string]*model.Employee) error {
	actor := seedActor()
	cycle := fmt.Sprintf("%d-H1", time.Now().Year())
	reviewer := byEmail["marcus.webb@hrnova.example"].ID

	open := &model.CreateReviewRequest{
		EmployeeID: byEmail["bram.devries@hrnova.example"].ID,
		ReviewerID: &reviewer,
		Cycle:      cycle,
	}
	if _, err := svcs.reviews.Open(ctx, actor, open); err != nil {
		return fmt.Errorf("seed open review: %w", err)
	}

	toComplete := &model.CreateReviewRequest{
		EmployeeID: byEmail["ana.lima@hrnova.example"].ID,
		ReviewerID: &reviewer,
		Cycle:      cycle,
	}
	review, err := svcs.reviews.Open(ctx, actor, toComplete)
	if err != nil {
		return fmt.Errorf("seed completable review: %w", err)
	}

	rating := 4.2
	status := model.ReviewStatusCompleted
	comments := "Consistently strong delivery across the cycle."
	if _, err := svcs.reviews.Update(ctx, actor, review.ID, model.UpdateReviewRequest{
		OverallRating: &rating,
		Status:        &status,
		Comments:      &comments,
	}); err != nil {
		return fmt.Errorf("seed completed review: %w", err)
	}
	return nil
}

func nextMonday(from time.Time) time.Time {
	t := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
