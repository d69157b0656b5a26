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

// ReviewRepo provides database operations for performance reviews.
type ReviewRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewReviewRepo creates a new ReviewRepo instance with the given database connection.
func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewReviewRepoWithTimeProvider creates a ReviewRepo with a custom TimeProvider (useful for testing).
func NewReviewRepoWithTimeProvider(db *sql.DB, timeProvider TimeProvider) *ReviewRepo {
	return &ReviewRepo{
		DB:           db,
		timeProvider: timeProvider,
	}
}

const reviewColumns = `
	id, employee_id, reviewer_id, cycle, period, overall_rating, status,
	comments, created_at, updated_at`

// Create opens a new review in the not_started state.
func (r *ReviewRepo) Create(ctx context.Context, req *model.CreateReviewRequest) (*model.PerformanceReview, error) {
	if req == nil {
		return nil, apperrors.Validation("create review request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now()

	var out model.PerformanceReview
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO performance_reviews (
				employee_id, reviewer_id, cycle, period, overall_rating,
				status, comments, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, 0, 'not_started', '', $5, $5)
			RETURNING `+reviewColumns,
			req.EmployeeID, req.ReviewerID, req.Cycle, req.Period, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PerformanceReview])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", apperrors.MapDBError(err))
	}

	return &out, nil
}

// GetByID retrieves a review by ID.
func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*model.PerformanceReview, error) {
	var review model.PerformanceReview
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+reviewColumns+` FROM performance_reviews WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		review, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PerformanceReview])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, fmt.Errorf("get review: %w", apperrors.MapDBError(err))
	}
	return &review, nil
}

// List returns one page of reviews ordered by created_at DESC, id DESC.
func (r *ReviewRepo) List(ctx context.Context, opts model.ReviewListOptions) (*core.ReviewPage, error) {
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
	if opts.Cycle != nil {
		where = append(where, fmt.Sprintf("cycle = $%d", argIdx))
		args = append(args, *opts.Cycle)
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

	q := `SELECT ` + reviewColumns + ` FROM performance_reviews`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIdx)
	args = append(args, limit+1)

	var reviews []model.PerformanceReview
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		reviews, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.PerformanceReview])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", apperrors.MapDBError(err))
	}

	page := &core.ReviewPage{}
	if len(reviews) > limit {
		reviews = reviews[:limit]
		last := reviews[len(reviews)-1]
		token, encErr := encodeCursor(last.CreatedAt, last.ID)
		if encErr != nil {
			return nil, fmt.Errorf("list reviews: %w", encErr)
		}
		page.NextCursor = token
	}
	page.Reviews = make([]*model.PerformanceReview, len(reviews))
	for i := range reviews {
		page.Reviews[i] = &reviews[i]
	}
	return page, nil
}

// Update applies the non-nil fields and returns the updated record.
func (r *ReviewRepo) Update(ctx context.Context, id string, req model.UpdateReviewRequest) (*model.PerformanceReview, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	argIdx := 1

	appendSet := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.ReviewerID != nil {
		appendSet("reviewer_id", *req.ReviewerID)
	}
	if req.OverallRating != nil {
		appendSet("overall_rating", *req.OverallRating)
	}
	if req.Status != nil {
		appendSet("status", *req.Status)
	}
	if req.Comments != nil {
		appendSet("comments", *req.Comments)
	}
	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}
	appendSet("updated_at", r.timeProvider.Now())

	args = append(args, id)
	q := "UPDATE performance_reviews SET " + strings.Join(setParts, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", argIdx) + reviewColumns

	var out model.PerformanceReview
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PerformanceReview])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, fmt.Errorf("update review: %w", apperrors.MapDBError(err))
	}

	return &out, nil
}

// Stats summarizes review completion. The average rating covers completed
// reviews only.
func (r *ReviewRepo) Stats(ctx context.Context) (*model.ReviewStats, error) {
	var stats model.ReviewStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE status = 'completed')::int,
				COUNT(*) FILTER (WHERE status = 'in_progress')::int,
				COUNT(*) FILTER (WHERE status = 'not_started')::int,
				COALESCE(AVG(overall_rating) FILTER (WHERE status = 'completed'), 0)
			FROM performance_reviews`)
		return row.Scan(&stats.Completed, &stats.InProgress, &stats.NotStarted, &stats.AvgRating)
	})
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", apperrors.MapDBError(err))
	}
	return &stats, nil
}
