package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/hrnova/ui-api/internal/core"
	"github.com/hrnova/ui-api/internal/domain/model"
	apperrors "github.com/hrnova/ui-api/internal/errors"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// AuditServiceOptions groups dependencies for AuditService.
type AuditServiceOptions struct {
	Repo      core.AuditRepository
	Evaluator JMESPathEvaluator // Optional: defaults to the go-jmespath library
	Logger    *slog.Logger
}

// AuditService provides read access to the append-only audit log and applies
// the metadata query filter that SQL cannot express.
type AuditService struct {
	repo   core.AuditRepository
	jems   JMESPathEvaluator
	logger *slog.Logger
}

// NewAuditService constructs a new AuditService.
func NewAuditService(opts AuditServiceOptions) (*AuditService, error) {
	if opts.Repo == nil {
		return nil, errors.New("AuditRepository is required")
	}
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{
		repo:   opts.Repo,
		jems:   jems,
		logger: logger.With("component", "audit_service"),
	}, nil
}

// MustNewAuditService constructs a new AuditService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewAuditService(opts AuditServiceOptions) *AuditService {
	svc, err := NewAuditService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// Record appends an entry to the audit log.
func (s *AuditService) Record(ctx context.Context, req *model.RecordAuditRequest) (*model.AuditEntry, error) {
	entry, err := s.repo.Append(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("record audit entry: %w", err)
	}
	return entry, nil
}

// GetByID retrieves an audit entry by ID.
func (s *AuditService) GetByID(ctx context.Context, id string) (*model.AuditEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get audit entry: %w", err)
	}
	return entry, nil
}

// List retrieves one page of audit entries. When a metadata query is present
// it is validated up front and applied to each page after the SQL filters;
// entries whose metadata yields a falsy result are dropped from the page.
func (s *AuditService) List(ctx context.Context, opts model.AuditListOptions) (*core.AuditPage, error) {
	expr := strings.TrimSpace(opts.MetadataQuery)
	if expr != "" {
		if err := s.jems.Validate(expr); err != nil {
			return nil, apperrors.ValidationField("metadata_query",
				fmt.Sprintf("invalid metadata query: %v", err))
		}
	}

	page, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	if expr == "" {
		return page, nil
	}

	filtered := make([]*model.AuditEntry, 0, len(page.Entries))
	for _, entry := range page.Entries {
		keep, evalErr := s.matchesMetadata(expr, entry)
		if evalErr != nil {
			s.logger.WarnContext(ctx, "metadata query evaluation failed",
				"entry_id", entry.ID, "err", evalErr)
			continue
		}
		if keep {
			filtered = append(filtered, entry)
		}
	}
	page.Entries = filtered
	return page, nil
}

// Recent returns the newest entries for the activity feed.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent audit entries: %w", err)
	}
	return entries, nil
}

func (s *AuditService) matchesMetadata(expr string, entry *model.AuditEntry) (bool, error) {
	var data any = map[string]any{}
	if entry.Metadata != nil {
		data = entry.Metadata
	}
	res, err := s.jems.Evaluate(expr, data)
	if err != nil {
		return false, err
	}
	return isTruthy(res), nil
}

// isTruthy follows JMESPath semantics: null, false, empty strings, empty
// collections, and empty objects are falsy.
func isTruthy(v any) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		return tv != ""
	case []any:
		return len(tv) > 0
	case map[string]any:
		return len(tv) > 0
	default:
		return true
	}
}
