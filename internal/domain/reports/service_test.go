package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/evaluations"
	"appraisal/internal/domain/goals"
	"appraisal/internal/domain/reports"
	"appraisal/internal/domain/users"
	"appraisal/internal/testutil/memstore"
)

func TestServiceScopesAndPolicy(t *testing.T) {
	store := memstore.New()
	userSvc := users.NewService(store, auth.NewTokens("t", time.Hour))
	goalSvc := goals.NewService(store, userSvc, nil)
	evalSvc := evaluations.NewService(store, userSvc, nil)
	svc := reports.NewService(userSvc, goalSvc, evalSvc)
	ctx := context.Background()

	bob := store.PutUser(users.User{Name: "Bob", Email: "bob@example.com", Role: auth.RoleManager, Department: "Eng"}).Actor()
	alice := store.PutUser(users.User{Name: "Alice", Email: "alice@example.com", Role: auth.RoleEmployee, Department: "Eng", ManagerID: bob.ID}).Actor()
	hr := store.PutUser(users.User{Name: "Hana", Email: "hr@example.com", Role: auth.RoleHR, Department: "People"}).Actor()

	due := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	_, err := goalSvc.Create(ctx, alice, goals.CreateInput{Title: "Ship", DueDate: due, Status: goals.StatusUnderReview})
	require.NoError(t, err)
	_, err = goalSvc.Create(ctx, bob, goals.CreateInput{Title: "Lead", DueDate: due})
	require.NoError(t, err)
	_, err = evalSvc.ManagerReview(ctx, bob, evaluations.ManagerInput{UserID: alice.ID, ReviewPeriod: "Q1", OverallScore: 4.0})
	require.NoError(t, err)

	employee, err := svc.EmployeeDashboard(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, employee.Stats.TotalGoals)
	assert.Equal(t, 4.0, employee.Stats.AverageScore)

	manager, err := svc.ManagerDashboard(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, manager.TeamSize)
	assert.Equal(t, 1, manager.TotalGoals)
	assert.Equal(t, 1, manager.PendingReviews)

	_, err = svc.ManagerDashboard(ctx, alice)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	_, err = svc.AdminDashboard(ctx, bob)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	admin, err := svc.AdminDashboard(ctx, hr)
	require.NoError(t, err)
	assert.Equal(t, 3, admin.TotalUsers)
	assert.Equal(t, 2, admin.DepartmentStats["Eng"].Goals)

	stats, err := svc.Stats(ctx, hr)
	require.NoError(t, err)
	assert.Equal(t, reports.Stats{Users: 3, Goals: 2, Evaluations: 1}, stats)

	report, err := svc.UserReport(ctx, alice, alice.ID)
	require.NoError(t, err)
	assert.Len(t, report.Goals, 1)
	assert.Len(t, report.Evaluations, 1)

	_, err = svc.UserReport(ctx, bob, alice.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	_, err = svc.UserReport(ctx, hr, "ghost")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	rows, err := svc.Export(ctx, hr)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	_, err = svc.Export(ctx, bob)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}
