// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// our repository interfaces. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockEmployeeRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(employee, nil)
package mocks

// Generate mock for EmployeeRepository interface from internal/core package.
// This creates MockEmployeeRepository with methods for all EmployeeRepository interface methods:
// Create, GetByID, GetByEmail, List, Update, Delete, CountByDepartment
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=employee_repository_mock.go github.com/hrnova/ui-api/internal/core EmployeeRepository

// Generate mock for LeaveRepository interface from internal/core package.
// This creates MockLeaveRepository with methods for all LeaveRepository interface methods:
// Create, GetByID, List, Decide, Cancel, GetBalance, SetBalance, CountByType
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=leave_repository_mock.go github.com/hrnova/ui-api/internal/core LeaveRepository

// Generate mock for ReviewRepository interface from internal/core package.
// This creates MockReviewRepository with methods for all ReviewRepository interface methods:
// Create, GetByID, List, Update, Stats
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=review_repository_mock.go github.com/hrnova/ui-api/internal/core ReviewRepository

// Generate mock for AuditRepository interface from internal/core package.
// This creates MockAuditRepository with methods for all AuditRepository interface methods:
// Append, GetByID, List, Recent
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=audit_repository_mock.go github.com/hrnova/ui-api/internal/core AuditRepository

// Generate mock for ChangePublisher interface from internal/core package.
// This creates MockChangePublisher with methods for all ChangePublisher interface methods:
// Publish
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=change_publisher_mock.go github.com/hrnova/ui-api/internal/core ChangePublisher
