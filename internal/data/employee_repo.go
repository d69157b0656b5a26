package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hrnova/ui-api/internal/core"
	"github.com/hrnova/ui-api/internal/data/pgxutil"
	"github.com/hrnova/ui-api/internal/domain/model"
	apperrors "github.com/hrnova/ui-api/internal/errors"
)

// EmployeeRepo provides database operations for the employee directory.
type EmployeeRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEmployeeRepo creates a new EmployeeRepo instance with the given database connection.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewEmployeeRepoWithTimeProvider creates an EmployeeRepo with a custom TimeProvider (useful for testing).
func NewEmployeeRepoWithTimeProvider(db *sql.DB, timeProvider TimeProvider) *EmployeeRepo {
	return &EmployeeRepo{
		DB:           db,
		timeProvider: timeProvider,
	}
}

const employeeColumns = `
	id, first_name, last_name, email, phone, avatar, title, department,
	city, manager_id, status, employment_type, joined_at, created_at, updated_at`

// Create inserts a new employee record.
func (r *EmployeeRepo) Create(ctx context.Context, req *model.CreateEmployeeRequest) (*model.Employee, error) {
	if req == nil {
		return nil, apperrors.Validation("create employee request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now()

	var out model.Employee
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO employees (
				first_name, last_name, email, phone, title, department,
				city, manager_id, status, employment_type, joined_at,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
			RETURNING `+employeeColumns,
			req.FirstName, req.LastName, strings.ToLower(strings.TrimSpace(req.Email)),
			req.Phone, req.Title, req.Department, req.City, req.ManagerID,
			req.Status, req.EmploymentType, req.JoinedAt, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Employee])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", apperrors.MapDBError(err))
	}

	return &out, nil
}

// getEmployeeByQuery executes a query expected to return a single employee.
func (r *EmployeeRepo) getEmployeeByQuery(ctx context.Context, q string, args ...any) (*model.Employee, error) {
	var employee model.Employee
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		employee, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Employee])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("employee not found")
		}
		return nil, fmt.Errorf("get employee: %w", apperrors.MapDBError(err))
	}
	return &employee, nil
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	return r.getEmployeeByQuery(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
}

// GetByEmail retrieves an employee by email (case-insensitive).
func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	return r.getEmployeeByQuery(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE lower(email) = lower($1)`, email)
}

// List returns one page of the directory ordered by created_at DESC, id DESC.
func (r *EmployeeRepo) List(ctx context.Context, opts model.EmployeesListOptions) (*core.EmployeePage, error) {
	limit := clampLimit(opts.Limit)

	where := make([]string, 0, 4)
	args := make([]any, 0, 6)
	argIdx := 1

	if opts.Q != nil && *opts.Q != "" {
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*opts.Q+"%")
		argIdx++
	}
	if opts.Department != nil {
		where = append(where, fmt.Sprintf("department = $%d", argIdx))
		args = append(args, *opts.Department)
		argIdx++
	}
	if opts.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *opts.Status)
		argIdx++
	}
	if opts.Cursor != "" {
		cur, err := decodeCursor(opts.Cursor)
		if err != nil {
			return nil, apperrors.ValidationField("cursor", "invalid cursor")
		}
		where = append(where, fmt.Sprintf("(created_at, id) < ($%d, $%d)", argIdx, argIdx+1))
		args = append(args, cur.CreatedAt, cur.ID)
		argIdx += 2
	}

	q := `SELECT ` + employeeColumns + ` FROM employees`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	// Fetch one extra row to decide whether another page exists.
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIdx)
	args = append(args, limit+1)

	var employees []model.Employee
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		employees, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Employee])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", apperrors.MapDBError(err))
	}

	page := &core.EmployeePage{}
	if len(employees) > limit {
		employees = employees[:limit]
		last := employees[len(employees)-1]
		token, encErr := encodeCursor(last.CreatedAt, last.ID)
		if encErr != nil {
			return nil, fmt.Errorf("list employees: %w", encErr)
		}
		page.NextCursor = token
	}
	page.Employees = make([]*model.Employee, len(employees))
	for i := range employees {
		page.Employees[i] = &employees[i]
	}
	return page, nil
}

// Update applies the non-nil fields and returns the updated record.
func (r *EmployeeRepo) Update(ctx context.Context, id string, req model.UpdateEmployeeRequest) (*model.Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 11)
	args := make([]any, 0, 12)
	argIdx := 1

	appendSet := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.FirstName != nil {
		appendSet("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		appendSet("last_name", *req.LastName)
	}
	if req.Email != nil {
		appendSet("email", strings.ToLower(strings.TrimSpace(*req.Email)))
	}
	if req.Phone != nil {
		appendSet("phone", *req.Phone)
	}
	if req.Title != nil {
		appendSet("title", *req.Title)
	}
	if req.Department != nil {
		appendSet("department", *req.Department)
	}
	if req.City != nil {
		appendSet("city", *req.City)
	}
	if req.ManagerID != nil {
		appendSet("manager_id", *req.ManagerID)
	}
	if req.Status != nil {
		appendSet("status", *req.Status)
	}
	if req.EmploymentType != nil {
		appendSet("employment_type", *req.EmploymentType)
	}
	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}
	appendSet("updated_at", r.timeProvider.Now())

	args = append(args, id)
	q := "UPDATE employees SET " + strings.Join(setParts, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", argIdx) + employeeColumns

	var out model.Employee
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Employee])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("employee not found")
		}
		return nil, fmt.Errorf("update employee: %w", apperrors.MapDBError(err))
	}

	return &out, nil
}

// Delete removes an employee by ID.
func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", apperrors.MapDBError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete employee: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("employee not found")
	}
	return nil
}

// CountByDepartment aggregates active headcount per department.
func (r *EmployeeRepo) CountByDepartment(ctx context.Context) ([]model.DepartmentHeadcount, error) {
	var counts []model.DepartmentHeadcount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT department, COUNT(*)::int AS count
			FROM employees
			WHERE status <> 'inactive'
			GROUP BY department
			ORDER BY count DESC, department ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		counts, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.DepartmentHeadcount])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("count employees by department: %w", apperrors.MapDBError(err))
	}
	return counts, nil
}
