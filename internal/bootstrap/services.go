package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hrnova/ui-api/config"
	redisadapter "github.com/hrnova/ui-api/internal/adapters/redis"
	"github.com/hrnova/ui-api/internal/data"
	"github.com/hrnova/ui-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Employees *service.EmployeeService
	Leave     *service.LeaveService
	Reviews   *service.ReviewService
	Audit     *service.AuditService
	Analytics *service.AnalyticsService
}

// ServicesConfig contains dependencies for building the service container.
type ServicesConfig struct {
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Config      config.AppConfig
	Logger      *slog.Logger
}

// BuildServices wires repositories, adapters, and services together.
// Every mutating service shares the audit repository and the Redis change
// publisher so the audit trail and cache invalidation stay consistent.
func BuildServices(cfg ServicesConfig) (ServiceContainer, error) {
	employeeRepo := data.NewEmployeeRepo(cfg.DB)
	leaveRepo := data.NewLeaveRepo(cfg.DB)
	reviewRepo := data.NewReviewRepo(cfg.DB)
	auditRepo := data.NewAuditRepo(cfg.DB)
	changes := redisadapter.NewChangePublisher(cfg.RedisClient)

	auth, err := BuildAuthService(AuthConfig{
		Config:      cfg.Config.Auth,
		RedisClient: cfg.RedisClient,
		Audit:       auditRepo,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	employees, err := service.NewEmployeeService(service.EmployeeServiceOptions{
		Repo:      employeeRepo,
		Leave:     leaveRepo,
		Audit:     auditRepo,
		Changes:   changes,
		Directory: cfg.Config.Directory,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build employee service: %w", err)
	}

	leave, err := service.NewLeaveService(service.LeaveServiceOptions{
		Repo:      leaveRepo,
		Employees: employeeRepo,
		Audit:     auditRepo,
		Changes:   changes,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build leave service: %w", err)
	}

	reviews, err := service.NewReviewService(service.ReviewServiceOptions{
		Repo:      reviewRepo,
		Employees: employeeRepo,
		Audit:     auditRepo,
		Changes:   changes,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build review service: %w", err)
	}

	audit, err := service.NewAuditService(service.AuditServiceOptions{
		Repo:   auditRepo,
		Logger: cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build audit service: %w", err)
	}

	analytics, err := service.NewAnalyticsService(service.AnalyticsServiceOptions{
		Employees: employeeRepo,
		Leave:     leaveRepo,
		Reviews:   reviewRepo,
		Audit:     auditRepo,
		Cache:     data.NewRedisCacheRepo(cfg.RedisClient),
		Logger:    cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build analytics service: %w", err)
	}

	return ServiceContainer{
		Auth:      auth,
		Employees: employees,
		Leave:     leave,
		Reviews:   reviews,
		Audit:     audit,
		Analytics: analytics,
	}, nil
}
