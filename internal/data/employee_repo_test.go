package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrnova/ui-api/internal/domain/model"
	"github.com/hrnova/ui-api/internal/errors"
	"github.com/hrnova/ui-api/internal/testutil"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@hrnova.example", prefix, time.Now().UnixNano())
}

func createTestEmployee(t *testing.T, db *sql.DB, emailPrefix string) *model.Employee {
	t.Helper()
	repo := NewEmployeeRepo(db)
	emp, err := repo.Create(context.Background(),
		testutil.NewEmployeeRequest().WithEmail(uniqueEmail(emailPrefix)).Build())
	require.NoError(t, err)
	return emp
}

func TestEmployeeRepo_Create_Get_Update_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewEmployeeRepo(db)

		email := uniqueEmail("ana.lima")
		req := testutil.NewEmployeeRequest().WithEmail(email).Build()
		emp, err := repo.Create(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, emp.ID)
		assert.Equal(t, "Ana", emp.FirstName)
		assert.Equal(t, email, emp.Email)
		assert.Equal(t, model.EmployeeStatusActive, emp.Status)
		assert.NotZero(t, emp.CreatedAt)

		// get by id
		got, err := repo.GetByID(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, emp.Email, got.Email)

		// get by email is case-insensitive
		byEmail, err := repo.GetByEmail(ctx, "ANA.LIMA"+email[len("ana.lima"):])
		require.NoError(t, err)
		assert.Equal(t, emp.ID, byEmail.ID)

		// update
		newTitle := "Staff Engineer"
		onLeave := model.EmployeeStatusOnLeave
		updated, err := repo.Update(ctx, emp.ID, model.UpdateEmployeeRequest{
			Title:  &newTitle,
			Status: &onLeave,
		})
		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, onLeave, updated.Status)
		assert.Equal(t, emp.Email, updated.Email)

		// empty update returns the current record
		same, err := repo.Update(ctx, emp.ID, model.UpdateEmployeeRequest{})
		require.NoError(t, err)
		assert.Equal(t, newTitle, same.Title)

		// delete
		require.NoError(t, repo.Delete(ctx, emp.ID))

		_, err = repo.GetByID(ctx, emp.ID)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))

		err = repo.Delete(ctx, emp.ID)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestEmployeeRepo_Create_NormalizesEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEmployeeRepo(db)
		email := uniqueEmail("Bob.Reis")

		emp, err := repo.Create(context.Background(),
			testutil.NewEmployeeRequest().WithEmail("  "+email+"  ").Build())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("bob.reis%s", email[len("Bob.Reis"):]), emp.Email)
	})
}

func TestEmployeeRepo_Create_DuplicateEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEmployeeRepo(db)
		ctx := context.Background()
		email := uniqueEmail("dup")

		_, err := repo.Create(ctx, testutil.NewEmployeeRequest().WithEmail(email).Build())
		require.NoError(t, err)

		_, err = repo.Create(ctx, testutil.NewEmployeeRequest().WithEmail(email).Build())
		require.Error(t, err)
		assert.True(t, errors.IsConflict(err))
	})
}

func TestEmployeeRepo_Create_ValidationErrors(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEmployeeRepo(db)
		ctx := context.Background()

		_, err := repo.Create(ctx, nil)
		require.Error(t, err)

		_, err = repo.Create(ctx, testutil.NewEmployeeRequest().WithName(" ", "Lima").Build())
		require.Error(t, err)

		_, err = repo.Create(ctx, testutil.NewEmployeeRequest().WithEmail("not-an-email").Build())
		require.Error(t, err)

		_, err = repo.Create(ctx, testutil.NewEmployeeRequest().WithDepartment(" ").Build())
		require.Error(t, err)
	})
}

func TestEmployeeRepo_List_FiltersAndCursor(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		tp := NewFixedTimeProvider(testutil.TestTime())
		repo := NewEmployeeRepoWithTimeProvider(db, tp)

		for i := 0; i < 5; i++ {
			_, err := repo.Create(ctx, testutil.NewEmployeeRequest().
				WithName(fmt.Sprintf("Person%d", i), "Engineering").
				WithEmail(uniqueEmail(fmt.Sprintf("eng%d", i))).
				WithDepartment("Engineering").Build())
			require.NoError(t, err)
			tp.AddTime(time.Second)
		}
		_, err := repo.Create(ctx, testutil.NewEmployeeRequest().
			WithName("Carla", "Souza").
			WithEmail(uniqueEmail("sales")).
			WithDepartment("Sales").Build())
		require.NoError(t, err)

		// department filter
		dept := "Engineering"
		page, err := repo.List(ctx, model.EmployeesListOptions{Department: &dept})
		require.NoError(t, err)
		assert.Len(t, page.Employees, 5)
		assert.Empty(t, page.NextCursor)

		// substring search on name
		q := "carla"
		page, err = repo.List(ctx, model.EmployeesListOptions{Q: &q})
		require.NoError(t, err)
		require.Len(t, page.Employees, 1)
		assert.Equal(t, "Carla", page.Employees[0].FirstName)

		// cursor pagination walks the whole set without duplicates
		seen := map[string]bool{}
		cursor := ""
		for {
			page, err = repo.List(ctx, model.EmployeesListOptions{Limit: 2, Cursor: cursor})
			require.NoError(t, err)
			for _, e := range page.Employees {
				assert.False(t, seen[e.ID], "employee %s returned twice", e.ID)
				seen[e.ID] = true
			}
			if page.NextCursor == "" {
				break
			}
			cursor = page.NextCursor
		}
		assert.Len(t, seen, 6)

		// invalid cursor
		_, err = repo.List(ctx, model.EmployeesListOptions{Cursor: "bogus"})
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestEmployeeRepo_CountByDepartment(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewEmployeeRepo(db)

		for i := 0; i < 3; i++ {
			_, err := repo.Create(ctx, testutil.NewEmployeeRequest().
				WithEmail(uniqueEmail(fmt.Sprintf("hc-eng%d", i))).
				WithDepartment("Engineering").Build())
			require.NoError(t, err)
		}
		_, err := repo.Create(ctx, testutil.NewEmployeeRequest().
			WithEmail(uniqueEmail("hc-sales")).
			WithDepartment("Sales").Build())
		require.NoError(t, err)

		// inactive employees do not count
		_, err = repo.Create(ctx, testutil.NewEmployeeRequest().
			WithEmail(uniqueEmail("hc-gone")).
			WithDepartment("Engineering").
			WithStatus(model.EmployeeStatusInactive).Build())
		require.NoError(t, err)

		counts, err := repo.CountByDepartment(ctx)
		require.NoError(t, err)

		byDept := map[string]int{}
		for _, c := range counts {
			byDept[c.Department] = c.Count
		}
		assert.Equal(t, 3, byDept["Engineering"])
		assert.Equal(t, 1, byDept["Sales"])
	})
}
