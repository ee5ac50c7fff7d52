package reports

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"appraisal/internal/domain/evaluations"
	"appraisal/internal/domain/goals"
	"appraisal/internal/domain/users"
)

const (
	recentGoalsEmployee       = 5
	recentEvaluationsEmployee = 3
	recentActivity            = 10
	notAvailable              = "N/A"
)

var ExportHeader = []string{"Employee", "Department", "Goal Title", "Status", "Achievement Rating", "Overall Evaluation Score"}

func BuildEmployeeDashboard(user users.User, ownGoals []goals.Goal, ownEvaluations []evaluations.Evaluation) EmployeeDashboard {
	stats := EmployeeStats{TotalGoals: len(ownGoals), AverageScore: meanScore(ownEvaluations)}
	for _, g := range ownGoals {
		switch g.Status {
		case goals.StatusCompleted:
			stats.GoalsCompleted++
		case goals.StatusInProgress:
			stats.GoalsInProgress++
		}
	}
	return EmployeeDashboard{
		User:              user,
		Stats:             stats,
		RecentGoals:       latestGoals(ownGoals, recentGoalsEmployee),
		RecentEvaluations: latestEvaluations(ownEvaluations, recentEvaluationsEmployee),
	}
}

func BuildManagerDashboard(team []users.User, teamGoals []goals.Goal, teamEvaluations []evaluations.Evaluation) ManagerDashboard {
	goalsByUser := map[string][]goals.Goal{}
	for _, g := range teamGoals {
		goalsByUser[g.UserID] = append(goalsByUser[g.UserID], g)
	}
	evaluationsByUser := map[string][]evaluations.Evaluation{}
	for _, e := range teamEvaluations {
		evaluationsByUser[e.UserID] = append(evaluationsByUser[e.UserID], e)
	}

	out := ManagerDashboard{
		TeamSize:        len(team),
		TotalGoals:      len(teamGoals),
		TeamPerformance: make([]MemberPerformance, 0, len(team)),
	}
	for _, g := range teamGoals {
		if g.Status == goals.StatusUnderReview {
			out.PendingReviews++
		}
	}
	for _, member := range team {
		memberGoals := goalsByUser[member.ID]
		completed := 0
		for _, g := range memberGoals {
			if g.Status == goals.StatusCompleted {
				completed++
			}
		}
		out.TeamPerformance = append(out.TeamPerformance, MemberPerformance{
			ID:             member.ID,
			Name:           member.Name,
			Department:     member.Department,
			TotalGoals:     len(memberGoals),
			CompletedGoals: completed,
			AverageScore:   meanScore(evaluationsByUser[member.ID]),
		})
	}
	return out
}

// BuildAdminDashboard counts goals by the department captured on the goal
// and evaluations by the subject's current department. Evaluations whose
// subject no longer exists are not attributed to any department.
func BuildAdminDashboard(all []users.User, allGoals []goals.Goal, allEvaluations []evaluations.Evaluation) AdminDashboard {
	departments := map[string]DepartmentStats{}
	departmentOf := make(map[string]string, len(all))
	for _, u := range all {
		stats := departments[u.Department]
		stats.Employees++
		departments[u.Department] = stats
		departmentOf[u.ID] = u.Department
	}
	for _, g := range allGoals {
		stats := departments[g.Department]
		stats.Goals++
		departments[g.Department] = stats
	}
	for _, e := range allEvaluations {
		department, ok := departmentOf[e.UserID]
		if !ok {
			continue
		}
		stats := departments[department]
		stats.Evaluations++
		departments[department] = stats
	}

	return AdminDashboard{
		TotalUsers:       len(all),
		TotalGoals:       len(allGoals),
		TotalEvaluations: len(allEvaluations),
		DepartmentStats:  departments,
		RecentActivity: RecentActivity{
			RecentGoals:       latestGoals(allGoals, recentActivity),
			RecentEvaluations: latestEvaluations(allEvaluations, recentActivity),
		},
	}
}

// BuildExportRows flattens every user and their goals into CSV rows, one per
// goal. Users without goals produce no rows.
func BuildExportRows(all []users.User, allGoals []goals.Goal, allEvaluations []evaluations.Evaluation) [][]string {
	goalsByUser := map[string][]goals.Goal{}
	for _, g := range sortedGoals(allGoals) {
		goalsByUser[g.UserID] = append(goalsByUser[g.UserID], g)
	}
	evaluationsByUser := map[string][]evaluations.Evaluation{}
	for _, e := range allEvaluations {
		evaluationsByUser[e.UserID] = append(evaluationsByUser[e.UserID], e)
	}

	rows := [][]string{}
	for _, u := range all {
		score := notAvailable
		if evals := evaluationsByUser[u.ID]; len(evals) > 0 {
			score = fmt.Sprintf("%.2f", meanScore(evals))
		}
		for _, g := range goalsByUser[u.ID] {
			rating := notAvailable
			if g.AchievementRating != nil {
				rating = strconv.Itoa(*g.AchievementRating)
			}
			rows = append(rows, []string{u.Name, u.Department, g.Title, g.Status, rating, score})
		}
	}
	return rows
}

// meanScore averages overall scores, counting an unset score as 0.
func meanScore(list []evaluations.Evaluation) float64 {
	if len(list) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range list {
		total += e.Score()
	}
	return round2(total / float64(len(list)))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func sortedGoals(list []goals.Goal) []goals.Goal {
	out := append([]goals.Goal(nil), list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// latestGoals returns the n most recently created goals, newest first.
func latestGoals(list []goals.Goal, n int) []goals.Goal {
	sorted := sortedGoals(list)
	out := make([]goals.Goal, 0, n)
	for i := len(sorted) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, sorted[i])
	}
	return out
}

func latestEvaluations(list []evaluations.Evaluation, n int) []evaluations.Evaluation {
	sorted := append([]evaluations.Evaluation(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
	out := make([]evaluations.Evaluation, 0, n)
	for i := len(sorted) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, sorted[i])
	}
	return out
}
