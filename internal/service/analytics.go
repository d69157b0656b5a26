package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hrnova/ui-api/internal/core"
	"github.com/hrnova/ui-api/internal/domain/model"
)

const (
	recentActivityLimit = 10

	overviewCacheKey        = "analytics:overview"
	defaultOverviewCacheTTL = time.Minute
)

// AnalyticsServiceOptions groups dependencies for AnalyticsService.
// Cache is optional; when set, assembled overviews are kept in it for
// OverviewTTL (one minute when zero).
type AnalyticsServiceOptions struct {
	Employees   core.EmployeeRepository
	Leave       core.LeaveRepository
	Reviews     core.ReviewRepository
	Audit       core.AuditRepository
	Cache       core.CacheRepository
	OverviewTTL time.Duration
	Logger      *slog.Logger
}

// AnalyticsService aggregates figures for the dashboard and analytics pages.
type AnalyticsService struct {
	employees   core.EmployeeRepository
	leave       core.LeaveRepository
	reviews     core.ReviewRepository
	audit       core.AuditRepository
	cache       core.CacheRepository
	overviewTTL time.Duration
	logger      *slog.Logger
}

// Overview is the aggregate payload behind the dashboard.
type Overview struct {
	Kpis           []model.KpiMetric           `json:"kpis"`
	Headcount      []model.DepartmentHeadcount `json:"headcount"`
	LeaveByType    []model.LeaveTypeCount      `json:"leave_by_type"`
	ReviewStats    *model.ReviewStats          `json:"review_stats"`
	RecentActivity []model.Activity            `json:"recent_activity"`
}

// NewAnalyticsService constructs a new AnalyticsService.
func NewAnalyticsService(opts AnalyticsServiceOptions) (*AnalyticsService, error) {
	if opts.Employees == nil {
		return nil, errors.New("EmployeeRepository is required")
	}
	if opts.Leave == nil {
		return nil, errors.New("LeaveRepository is required")
	}
	if opts.Reviews == nil {
		return nil, errors.New("ReviewRepository is required")
	}
	if opts.Audit == nil {
		return nil, errors.New("AuditRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.OverviewTTL
	if ttl <= 0 {
		ttl = defaultOverviewCacheTTL
	}
	return &AnalyticsService{
		employees:   opts.Employees,
		leave:       opts.Leave,
		reviews:     opts.Reviews,
		audit:       opts.Audit,
		cache:       opts.Cache,
		overviewTTL: ttl,
		logger:      logger.With("component", "analytics_service"),
	}, nil
}

// MustNewAnalyticsService constructs a new AnalyticsService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewAnalyticsService(opts AnalyticsServiceOptions) *AnalyticsService {
	svc, err := NewAnalyticsService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// GetOverview returns the dashboard payload, serving a cached copy when one
// is fresh. The underlying aggregates are independent, so on a miss they are
// fetched concurrently; the first failure cancels the rest.
func (s *AnalyticsService) GetOverview(ctx context.Context) (*Overview, error) {
	if cached := s.cachedOverview(ctx); cached != nil {
		return cached, nil
	}

	var (
		headcount   []model.DepartmentHeadcount
		leaveCounts []model.LeaveTypeCount
		reviewStats *model.ReviewStats
		recent      []*model.AuditEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		headcount, err = s.employees.CountByDepartment(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		leaveCounts, err = s.leave.CountByType(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reviewStats, err = s.reviews.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.audit.Recent(gctx, recentActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble overview: %w", err)
	}

	overview := &Overview{
		Kpis:           buildKpis(headcount, leaveCounts, reviewStats),
		Headcount:      headcount,
		LeaveByType:    leaveCounts,
		ReviewStats:    reviewStats,
		RecentActivity: toActivities(recent),
	}
	s.storeOverview(ctx, overview)
	return overview, nil
}

// cachedOverview returns a fresh cached overview, or nil on any cache miss
// or failure. Cache trouble never fails a dashboard request.
func (s *AnalyticsService) cachedOverview(ctx context.Context) *Overview {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, overviewCacheKey)
	if err != nil {
		s.logger.WarnContext(ctx, "overview cache read failed", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var overview Overview
	if err := json.Unmarshal(raw, &overview); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt overview cache entry", "error", err)
		if _, delErr := s.cache.Delete(ctx, overviewCacheKey); delErr != nil {
			s.logger.WarnContext(ctx, "overview cache delete failed", "error", delErr)
		}
		return nil
	}
	return &overview
}

func (s *AnalyticsService) storeOverview(ctx context.Context, overview *Overview) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(overview)
	if err != nil {
		s.logger.WarnContext(ctx, "overview cache encode failed", "error", err)
		return
	}
	if err := s.cache.Set(ctx, overviewCacheKey, raw, s.overviewTTL); err != nil {
		s.logger.WarnContext(ctx, "overview cache write failed", "error", err)
	}
}

// HeadcountByDepartment returns the active headcount chart data.
func (s *AnalyticsService) HeadcountByDepartment(ctx context.Context) ([]model.DepartmentHeadcount, error) {
	counts, err := s.employees.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("headcount by department: %w", err)
	}
	return counts, nil
}

// LeaveByType returns the leave distribution chart data.
func (s *AnalyticsService) LeaveByType(ctx context.Context) ([]model.LeaveTypeCount, error) {
	counts, err := s.leave.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("leave by type: %w", err)
	}
	return counts, nil
}

// RecentActivity maps the newest audit entries into feed items.
func (s *AnalyticsService) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = recentActivityLimit
	}
	entries, err := s.audit.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return toActivities(entries), nil
}

func buildKpis(
	headcount []model.DepartmentHeadcount,
	leaveCounts []model.LeaveTypeCount,
	reviewStats *model.ReviewStats,
) []model.KpiMetric {
	total := 0
	for _, c := range headcount {
		total += c.Count
	}
	leaveTotal := 0
	for _, c := range leaveCounts {
		leaveTotal += c.Count
	}

	kpis := []model.KpiMetric{
		{Name: "headcount", Value: float64(total), Unit: "employees"},
		{Name: "leave_requests", Value: float64(leaveTotal), Unit: "requests"},
	}
	if reviewStats != nil {
		kpis = append(kpis,
			model.KpiMetric{Name: "reviews_completed", Value: float64(reviewStats.Completed), Unit: "reviews"},
			model.KpiMetric{Name: "avg_rating", Value: reviewStats.AvgRating, Unit: "stars"},
		)
	}
	return kpis
}

func toActivities(entries []*model.AuditEntry) []model.Activity {
	out := make([]model.Activity, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.Activity{
			ID:         e.ID,
			EntityType: e.EntityType,
			Message:    activityMessage(e),
			ActorID:    e.ActorID,
			ActorName:  e.Actor,
			OccurredAt: e.CreatedAt,
		})
	}
	return out
}

func activityMessage(e *model.AuditEntry) string {
	if e.Status == model.AuditStatusFailed {
		return fmt.Sprintf("%s failed %s", e.Actor, e.Action)
	}
	return fmt.Sprintf("%s performed %s", e.Actor, e.Action)
}
