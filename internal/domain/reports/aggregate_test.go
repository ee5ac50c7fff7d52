package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appraisal/internal/domain/evaluations"
	"appraisal/internal/domain/goals"
	"appraisal/internal/domain/users"
)

var base = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func at(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

func score(v float64) *float64 { return &v }

func rating(v int) *int { return &v }

func fixtureUsers() []users.User {
	return []users.User{
		{ID: "bob", Name: "Bob", Department: "Eng"},
		{ID: "alice", Name: "Alice", Department: "Eng", ManagerID: "bob"},
		{ID: "dave", Name: "Dave", Department: "Ops", ManagerID: "bob"},
		{ID: "erin", Name: "Erin", Department: "Sales"},
	}
}

func fixtureGoals() []goals.Goal {
	return []goals.Goal{
		{ID: "g1", UserID: "alice", Department: "Eng", Title: "One", Status: goals.StatusCompleted, AchievementRating: rating(4), CreatedAt: at(1)},
		{ID: "g2", UserID: "alice", Department: "Eng", Title: "Two", Status: goals.StatusInProgress, CreatedAt: at(2)},
		{ID: "g3", UserID: "alice", Department: "Research", Title: "Three", Status: goals.StatusUnderReview, CreatedAt: at(3)},
		{ID: "g4", UserID: "dave", Department: "Ops", Title: "Four", Status: goals.StatusUnderReview, CreatedAt: at(4)},
		{ID: "g5", UserID: "ghost", Department: "Legacy", Title: "Orphan", Status: goals.StatusDraft, CreatedAt: at(5)},
	}
}

func fixtureEvaluations() []evaluations.Evaluation {
	return []evaluations.Evaluation{
		{ID: "e1", UserID: "alice", OverallScore: score(4), CreatedAt: at(1)},
		{ID: "e2", UserID: "alice", OverallScore: nil, CreatedAt: at(2)},
		{ID: "e3", UserID: "alice", OverallScore: score(3.5), CreatedAt: at(3)},
		{ID: "e4", UserID: "dave", OverallScore: score(5), CreatedAt: at(4)},
		{ID: "e5", UserID: "ghost", OverallScore: score(1), CreatedAt: at(5)},
	}
}

func TestBuildEmployeeDashboard(t *testing.T) {
	var aliceGoals []goals.Goal
	for _, g := range fixtureGoals() {
		if g.UserID == "alice" {
			aliceGoals = append(aliceGoals, g)
		}
	}
	var aliceEvals []evaluations.Evaluation
	for _, e := range fixtureEvaluations() {
		if e.UserID == "alice" {
			aliceEvals = append(aliceEvals, e)
		}
	}

	dash := BuildEmployeeDashboard(fixtureUsers()[1], aliceGoals, aliceEvals)

	assert.Equal(t, 3, dash.Stats.TotalGoals)
	assert.Equal(t, 1, dash.Stats.GoalsCompleted)
	assert.Equal(t, 1, dash.Stats.GoalsInProgress)
	assert.Equal(t, 2.5, dash.Stats.AverageScore)
	require.Len(t, dash.RecentGoals, 3)
	assert.Equal(t, "g3", dash.RecentGoals[0].ID)
	require.Len(t, dash.RecentEvaluations, 3)
	assert.Equal(t, "e3", dash.RecentEvaluations[0].ID)
}

func TestBuildEmployeeDashboardEmpty(t *testing.T) {
	dash := BuildEmployeeDashboard(users.User{ID: "new"}, nil, nil)
	assert.Zero(t, dash.Stats.AverageScore)
	assert.NotNil(t, dash.RecentGoals)
	assert.NotNil(t, dash.RecentEvaluations)
}

func TestRecentListsAreCapped(t *testing.T) {
	var many []goals.Goal
	for i := 0; i < 12; i++ {
		many = append(many, goals.Goal{ID: string(rune('a' + i)), CreatedAt: at(i)})
	}
	latest := latestGoals(many, 5)
	require.Len(t, latest, 5)
	assert.Equal(t, "l", latest[0].ID)
	assert.Equal(t, "h", latest[4].ID)
}

func TestBuildManagerDashboard(t *testing.T) {
	all := fixtureUsers()
	team := []users.User{all[1], all[2]}
	var teamGoals []goals.Goal
	for _, g := range fixtureGoals() {
		if g.UserID == "alice" || g.UserID == "dave" {
			teamGoals = append(teamGoals, g)
		}
	}
	var teamEvals []evaluations.Evaluation
	for _, e := range fixtureEvaluations() {
		if e.UserID == "alice" || e.UserID == "dave" {
			teamEvals = append(teamEvals, e)
		}
	}

	dash := BuildManagerDashboard(team, teamGoals, teamEvals)

	assert.Equal(t, 2, dash.TeamSize)
	assert.Equal(t, 4, dash.TotalGoals)
	assert.Equal(t, 2, dash.PendingReviews)
	require.Len(t, dash.TeamPerformance, 2)
	assert.Equal(t, MemberPerformance{ID: "alice", Name: "Alice", Department: "Eng", TotalGoals: 3, CompletedGoals: 1, AverageScore: 2.5}, dash.TeamPerformance[0])
	assert.Equal(t, 5.0, dash.TeamPerformance[1].AverageScore)
}

func TestBuildAdminDashboard(t *testing.T) {
	dash := BuildAdminDashboard(fixtureUsers(), fixtureGoals(), fixtureEvaluations())

	assert.Equal(t, 4, dash.TotalUsers)
	assert.Equal(t, 5, dash.TotalGoals)
	assert.Equal(t, 5, dash.TotalEvaluations)
	assert.Equal(t, DepartmentStats{Employees: 2, Goals: 2, Evaluations: 3}, dash.DepartmentStats["Eng"])
	assert.Equal(t, DepartmentStats{Employees: 1, Goals: 1, Evaluations: 1}, dash.DepartmentStats["Ops"])
	assert.Equal(t, DepartmentStats{Employees: 1}, dash.DepartmentStats["Sales"])
	assert.Equal(t, DepartmentStats{Goals: 1}, dash.DepartmentStats["Research"])
	assert.Equal(t, DepartmentStats{Goals: 1}, dash.DepartmentStats["Legacy"])
	assert.Len(t, dash.RecentActivity.RecentGoals, 5)
	assert.Equal(t, "g5", dash.RecentActivity.RecentGoals[0].ID)
}

func TestBuildExportRows(t *testing.T) {
	rows := BuildExportRows(fixtureUsers(), fixtureGoals(), fixtureEvaluations())

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Alice", "Eng", "One", "Completed", "4", "2.50"}, rows[0])
	assert.Equal(t, []string{"Alice", "Eng", "Two", "In Progress", "N/A", "2.50"}, rows[1])
	assert.Equal(t, []string{"Dave", "Ops", "Four", "Under Review", "N/A", "5.00"}, rows[3])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, [][]string{{"Alice, Jr.", "Eng", "Say \"hi\"", "Draft", "N/A", "N/A"}}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ExportHeader, records[0])
	assert.Equal(t, "Alice, Jr.", records[1][0])
	assert.Equal(t, "Say \"hi\"", records[1][2])
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPDF(&buf, UserReport{
		User:        users.User{Name: "Alice", Department: "Eng"},
		Goals:       fixtureGoals()[:2],
		Evaluations: fixtureEvaluations()[:1],
		GeneratedAt: base,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
