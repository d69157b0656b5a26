package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hrnova/ui-api/internal/core"
	"github.com/hrnova/ui-api/internal/data/pgxutil"
	"github.com/hrnova/ui-api/internal/domain/model"
	apperrors "github.com/hrnova/ui-api/internal/errors"
)

// LeaveRepo provides database operations for the leave workflow.
type LeaveRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewLeaveRepo creates a new LeaveRepo instance with the given database connection.
func NewLeaveRepo(db *sql.DB) *LeaveRepo {
	return &LeaveRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewLeaveRepoWithTimeProvider creates a LeaveRepo with a custom TimeProvider (useful for testing).
func NewLeaveRepoWithTimeProvider(db *sql.DB, timeProvider TimeProvider) *LeaveRepo {
	return &LeaveRepo{
		DB:           db,
		timeProvider: timeProvider,
	}
}

const leaveColumns = `
	id, employee_id, type, from_date, to_date, days, status, reason,
	reviewer_id, reviewed_at, created_at, updated_at`

// Create inserts a new pending leave request.
func (r *LeaveRepo) Create(ctx context.Context, req *model.CreateLeaveRequest, days int) (*model.LeaveRequest, error) {
	if req == nil {
		return nil, apperrors.Validation("create leave request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if days <= 0 {
		return nil, apperrors.ValidationField("days", "day count must be positive")
	}

	now := r.timeProvider.Now()

	var out model.LeaveRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO leave_requests (
				employee_id, type, from_date, to_date, days, status, reason,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, 'pending', $6, $7, $7)
			RETURNING `+leaveColumns,
			req.EmployeeID, req.Type, req.FromDate, req.ToDate, days, req.Reason, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.LeaveRequest])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create leave request: %w", apperrors.MapDBError(err))
	}

	return &out, nil
}

// GetByID retrieves a leave request by ID.
func (r *LeaveRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var request model.LeaveRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+leaveColumns+` FROM leave_requests WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		request, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.LeaveRequest])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("leave request not found")
		}
		return nil, fmt.Errorf("get leave request: %w", apperrors.MapDBError(err))
	}
	return &request, nil
}

// List returns one page of leave requests ordered by created_at DESC, id DESC.
func (r *LeaveRepo) List(ctx context.Context, opts model.LeaveListOptions) (*core.LeavePage, error) {
	limit := clampLimit(opts.Limit)

	where := make([]string, 0, 4)
	args := make([]any, 0, 6)
	argIdx := 1

	if opts.EmployeeID != nil {
		where = append(where, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, *opts.EmployeeID)
		argIdx++
	}
	if opts.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *opts.Status)
		argIdx++
	}
	if opts.Type != nil {
		where = append(where, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *opts.Type)
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

	q := `SELECT ` + leaveColumns + ` FROM leave_requests`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIdx)
	args = append(args, limit+1)

	var requests []model.LeaveRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		requests, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.LeaveRequest])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", apperrors.MapDBError(err))
	}

	page := &core.LeavePage{}
	if len(requests) > limit {
		requests = requests[:limit]
		last := requests[len(requests)-1]
		token, encErr := encodeCursor(last.CreatedAt, last.ID)
		if encErr != nil {
			return nil, fmt.Errorf("list leave requests: %w", encErr)
		}
		page.NextCursor = token
	}
	page.Requests = make([]*model.LeaveRequest, len(requests))
	for i := range requests {
		page.Requests[i] = &requests[i]
	}
	return page, nil
}

// Decide transitions a pending request to approved or rejected. Approval
// debits the employee's balance in the same transaction; the whole decision
// rolls back when the balance cannot cover the request.
func (r *LeaveRepo) Decide(ctx context.Context, decision core.ReviewDecision) (*model.LeaveRequest, error) {
	if decision.Status != model.LeaveStatusApproved && decision.Status != model.LeaveStatusRejected {
		return nil, apperrors.ValidationField("status", "decision must be approved or rejected")
	}

	now := r.timeProvider.Now()

	var out model.LeaveRequest
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+leaveColumns+` FROM leave_requests WHERE id = $1 FOR UPDATE`,
			decision.RequestID)
		if err != nil {
			return err
		}
		current, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.LeaveRequest])
		rows.Close()
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("leave request not found")
			}
			return err
		}
		if current.Status != model.LeaveStatusPending {
			return apperrors.Conflict(
				fmt.Sprintf("leave request already %s", current.Status))
		}

		if decision.Status == model.LeaveStatusApproved {
			if debitErr := debitBalanceTx(ctx, tx, &current, now); debitErr != nil {
				return debitErr
			}
		}

		updated, err := tx.Query(ctx, `
			UPDATE leave_requests
			SET status = $1, reviewer_id = $2, reviewed_at = $3, updated_at = $3
			WHERE id = $4
			RETURNING `+leaveColumns,
			decision.Status, decision.ReviewerID, now, decision.RequestID)
		if err != nil {
			return err
		}
		defer updated.Close()
		out, err = pgx.CollectOneRow(updated, pgx.RowToStructByName[model.LeaveRequest])
		return err
	}})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, fmt.Errorf("decide leave request: %w", apperrors.MapDBError(err))
	}

	return &out, nil
}

// debitBalanceTx debits the category column for annual/sick/personal leave
// and bumps the used counter for every approved request.
func debitBalanceTx(ctx context.Context, tx pgx.Tx, req *model.LeaveRequest, now time.Time) error {
	var column string
	switch req.Type {
	case model.LeaveTypeAnnual:
		column = "annual"
	case model.LeaveTypeSick:
		column = "sick"
	case model.LeaveTypePersonal:
		column = "personal"
	default:
		// Maternity, paternity, and unpaid leave track usage only.
		ct, err := tx.Exec(ctx, `
			UPDATE leave_balances
			SET used = used + $1, updated_at = $2
			WHERE employee_id = $3`,
			req.Days, now, req.EmployeeID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return apperrors.NotFound("leave balance not found")
		}
		return nil
	}

	ct, err := tx.Exec(ctx, fmt.Sprintf(`
		UPDATE leave_balances
		SET %s = %s - $1, used = used + $1, updated_at = $2
		WHERE employee_id = $3 AND %s >= $1`, column, column, column),
		req.Days, now, req.EmployeeID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperrors.Conflict("insufficient leave balance")
	}
	return nil
}

// Cancel transitions a pending request to cancelled.
func (r *LeaveRepo) Cancel(ctx context.Context, id string) (*model.LeaveRequest, error) {
	now := r.timeProvider.Now()

	var out model.LeaveRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE leave_requests
			SET status = 'cancelled', updated_at = $1
			WHERE id = $2 AND status = 'pending'
			RETURNING `+leaveColumns, now, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.LeaveRequest])
		return err
	})
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cancel leave request: %w", apperrors.MapDBError(err))
	}

	// Distinguish a missing request from one past the pending state.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.Conflict("only pending leave requests can be cancelled")
}

// GetBalance retrieves the leave balance for an employee.
func (r *LeaveRepo) GetBalance(ctx context.Context, employeeID string) (*model.LeaveBalance, error) {
	var balance model.LeaveBalance
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT employee_id, annual, sick, personal, used, updated_at
			FROM leave_balances
			WHERE employee_id = $1`, employeeID)
		if err != nil {
			return err
		}
		defer rows.Close()
		balance, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.LeaveBalance])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("leave balance not found")
		}
		return nil, fmt.Errorf("get leave balance: %w", apperrors.MapDBError(err))
	}
	return &balance, nil
}

// SetBalance upserts the leave balance for an employee.
func (r *LeaveRepo) SetBalance(ctx context.Context, balance *model.LeaveBalance) error {
	if balance == nil || balance.EmployeeID == "" {
		return apperrors.Validation("balance with employee_id is required")
	}

	now := r.timeProvider.Now()
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO leave_balances (employee_id, annual, sick, personal, used, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (employee_id) DO UPDATE
			SET annual = EXCLUDED.annual, sick = EXCLUDED.sick,
			    personal = EXCLUDED.personal, used = EXCLUDED.used,
			    updated_at = EXCLUDED.updated_at`,
			balance.EmployeeID, balance.Annual, balance.Sick,
			balance.Personal, balance.Used, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("set leave balance: %w", apperrors.MapDBError(err))
	}
	return nil
}

// CountByType aggregates leave requests per type.
func (r *LeaveRepo) CountByType(ctx context.Context) ([]model.LeaveTypeCount, error) {
	var counts []model.LeaveTypeCount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT type, COUNT(*)::int AS count
			FROM leave_requests
			WHERE status <> 'cancelled'
			GROUP BY type
			ORDER BY count DESC, type ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		counts, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.LeaveTypeCount])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("count leave by type: %w", apperrors.MapDBError(err))
	}
	return counts, nil
}
