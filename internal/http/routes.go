package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface
	Employees *service.EmployeeService
	Leave     *service.LeaveService
	Reviews   *service.ReviewService
	Audit     *service.AuditService
	Analytics *service.AnalyticsService

	// Policy gates every module route; nil falls back to the built-in table.
	Policy       *domainauth.Policy
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
// Every module route goes through the same gate: authentication first, then
// the role/module policy table. Role checks inside the services refine, never
// replace, that gate.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := services.Policy
	if policy == nil {
		policy = domainauth.DefaultPolicy()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Policy:       policy,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	mux.HandleFunc("POST /auth/login", authHandlers.Login)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /auth/status", authHandlers.Status)

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	protect := func(module domainauth.Module, h http.HandlerFunc) http.Handler {
		return guard(services.Auth, policy, module, h)
	}

	emp := &EmployeeHandlers{Svc: services.Employees}
	mux.Handle("GET /api/employees", protect(domainauth.ModuleCoreHR, emp.List))
	mux.Handle("POST /api/employees", protect(domainauth.ModuleCoreHR, emp.Create))
	mux.Handle("GET /api/employees/{id}", protect(domainauth.ModuleCoreHR, emp.Get))
	mux.Handle("PATCH /api/employees/{id}", protect(domainauth.ModuleCoreHR, emp.Update))
	mux.Handle("DELETE /api/employees/{id}", protect(domainauth.ModuleCoreHR, emp.Delete))

	leave := &LeaveHandlers{Svc: services.Leave}
	mux.Handle("GET /api/leave", protect(domainauth.ModuleLeave, leave.List))
	mux.Handle("POST /api/leave", protect(domainauth.ModuleLeave, leave.Submit))
	mux.Handle("GET /api/leave/{id}", protect(domainauth.ModuleLeave, leave.Get))
	mux.Handle("POST /api/leave/{id}/decision", protect(domainauth.ModuleLeave, leave.Decide))
	mux.Handle("POST /api/leave/{id}/cancel", protect(domainauth.ModuleLeave, leave.Cancel))
	mux.Handle("GET /api/leave/balances/{employee_id}", protect(domainauth.ModuleLeave, leave.Balance))
	mux.Handle("PUT /api/leave/balances/{employee_id}",
		Chain(http.HandlerFunc(leave.SetBalance),
			RequireAuth(services.Auth),
			RequireModule(policy, domainauth.ModuleLeave),
			RequireRole(domainauth.RoleSystemAdmin, domainauth.RoleHrAdmin),
		))

	rev := &ReviewHandlers{Svc: services.Reviews}
	mux.Handle("GET /api/reviews", protect(domainauth.ModulePerformance, rev.List))
	mux.Handle("POST /api/reviews", protect(domainauth.ModulePerformance, rev.Open))
	mux.Handle("GET /api/reviews/stats", protect(domainauth.ModulePerformance, rev.Stats))
	mux.Handle("GET /api/reviews/{id}", protect(domainauth.ModulePerformance, rev.Get))
	mux.Handle("PATCH /api/reviews/{id}", protect(domainauth.ModulePerformance, rev.Update))

	audit := &AuditHandlers{Svc: services.Audit}
	mux.Handle("GET /api/audit", protect(domainauth.ModuleAudit, audit.List))
	mux.Handle("GET /api/audit/{id}", protect(domainauth.ModuleAudit, audit.Get))

	analytics := &AnalyticsHandlers{Svc: services.Analytics}
	mux.Handle("GET /api/dashboard", protect(domainauth.ModuleDashboard, analytics.Overview))
	mux.Handle("GET /api/analytics/overview", protect(domainauth.ModuleAnalytics, analytics.Overview))
	mux.Handle("GET /api/analytics/headcount", protect(domainauth.ModuleAnalytics, analytics.Headcount))
	mux.Handle("GET /api/analytics/leave", protect(domainauth.ModuleAnalytics, analytics.LeaveByType))
	mux.Handle("GET /api/analytics/activity", protect(domainauth.ModuleAnalytics, analytics.Activity))

	admin := &AdminHandlers{Policy: policy}
	mux.Handle("GET /api/admin/policy", protect(domainauth.ModuleAdmin, admin.PolicyTable))

	return Chain(mux, Recover(logger), Logging(logger))
}
