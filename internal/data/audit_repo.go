package data

import (
	"context"
	"database/sql"
	"encoding/json"
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

// AuditRepo provides database operations for the append-only audit log.
// Rows are only ever inserted; there is no update or delete path.
type AuditRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAuditRepo creates a new AuditRepo instance with the given database connection.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewAuditRepoWithTimeProvider creates an AuditRepo with a custom TimeProvider (useful for testing).
func NewAuditRepoWithTimeProvider(db *sql.DB, timeProvider TimeProvider) *AuditRepo {
	return &AuditRepo{
		DB:           db,
		timeProvider: timeProvider,
	}
}

const auditColumns = `
	id, actor, actor_id, action, entity_type, entity_id, status, metadata, created_at`

// auditRow mirrors AuditEntry with metadata as raw JSONB bytes.
type auditRow struct {
	ID         string                `db:"id"`
	Actor      string                `db:"actor"`
	ActorID    string                `db:"actor_id"`
	Action     string                `db:"action"`
	EntityType model.AuditEntityType `db:"entity_type"`
	EntityID   string                `db:"entity_id"`
	Status     model.AuditStatus     `db:"status"`
	Metadata   []byte                `db:"metadata"`
	CreatedAt  time.Time             `db:"created_at"`
}

func (row *auditRow) toEntry() (*model.AuditEntry, error) {
	entry := &model.AuditEntry{
		ID:         row.ID,
		Actor:      row.Actor,
		ActorID:    row.ActorID,
		Action:     row.Action,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
	}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("decode audit metadata: %w", err)
		}
	}
	return entry, nil
}

// Append records a new audit entry.
func (r *AuditRepo) Append(ctx context.Context, req *model.RecordAuditRequest) (*model.AuditEntry, error) {
	if req == nil {
		return nil, apperrors.Validation("record audit request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	metadata := []byte("{}")
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, apperrors.ValidationField("metadata", "metadata is not serializable")
		}
		metadata = raw
	}

	now := r.timeProvider.Now()

	var row auditRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO audit_entries (
				actor, actor_id, action, entity_type, entity_id, status,
				metadata, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+auditColumns,
			req.Actor, req.ActorID, req.Action, req.EntityType, req.EntityID,
			req.Status, metadata, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[auditRow])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("append audit entry: %w", apperrors.MapDBError(err))
	}

	return row.toEntry()
}

// GetByID retrieves an audit entry by ID.
func (r *AuditRepo) GetByID(ctx context.Context, id string) (*model.AuditEntry, error) {
	var row auditRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+auditColumns+` FROM audit_entries WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[auditRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("audit entry not found")
		}
		return nil, fmt.Errorf("get audit entry: %w", apperrors.MapDBError(err))
	}
	return row.toEntry()
}

// List returns one page of entries ordered by created_at DESC, id DESC.
// MetadataQuery is not a SQL-expressible filter; the service layer applies it
// on top of the returned page.
func (r *AuditRepo) List(ctx context.Context, opts model.AuditListOptions) (*core.AuditPage, error) {
	limit := clampLimit(opts.Limit)

	where := make([]string, 0, 6)
	args := make([]any, 0, 8)
	argIdx := 1

	if opts.EntityType != nil {
		where = append(where, fmt.Sprintf("entity_type = $%d", argIdx))
		args = append(args, *opts.EntityType)
		argIdx++
	}
	if opts.ActorID != nil {
		where = append(where, fmt.Sprintf("actor_id = $%d", argIdx))
		args = append(args, *opts.ActorID)
		argIdx++
	}
	if opts.Action != nil {
		where = append(where, fmt.Sprintf("action = $%d", argIdx))
		args = append(args, *opts.Action)
		argIdx++
	}
	if opts.Since != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *opts.Since)
		argIdx++
	}
	if opts.Until != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *opts.Until)
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

	q := `SELECT ` + auditColumns + ` FROM audit_entries`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIdx)
	args = append(args, limit+1)

	var dbRows []auditRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		dbRows, err = pgx.CollectRows(rows, pgx.RowToStructByName[auditRow])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", apperrors.MapDBError(err))
	}

	page := &core.AuditPage{}
	if len(dbRows) > limit {
		dbRows = dbRows[:limit]
		last := dbRows[len(dbRows)-1]
		token, encErr := encodeCursor(last.CreatedAt, last.ID)
		if encErr != nil {
			return nil, fmt.Errorf("list audit entries: %w", encErr)
		}
		page.NextCursor = token
	}
	page.Entries = make([]*model.AuditEntry, 0, len(dbRows))
	for i := range dbRows {
		entry, convErr := dbRows[i].toEntry()
		if convErr != nil {
			return nil, fmt.Errorf("list audit entries: %w", convErr)
		}
		page.Entries = append(page.Entries, entry)
	}
	return page, nil
}

// Recent returns the newest entries for the activity feed.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	page, err := r.List(ctx, model.AuditListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Entries, nil
}
