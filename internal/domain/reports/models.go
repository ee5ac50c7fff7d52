package reports

import (
	"time"

	"appraisal/internal/domain/evaluations"
	"appraisal/internal/domain/goals"
	"appraisal/internal/domain/users"
)

type EmployeeStats struct {
	TotalGoals      int     `json:"totalGoals"`
	GoalsCompleted  int     `json:"goalsCompleted"`
	GoalsInProgress int     `json:"goalsInProgress"`
	AverageScore    float64 `json:"averageScore"`
}

type EmployeeDashboard struct {
	User              users.User               `json:"user"`
	Stats             EmployeeStats            `json:"stats"`
	RecentGoals       []goals.Goal             `json:"recentGoals"`
	RecentEvaluations []evaluations.Evaluation `json:"recentEvaluations"`
}

type MemberPerformance struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Department     string  `json:"department"`
	TotalGoals     int     `json:"totalGoals"`
	CompletedGoals int     `json:"completedGoals"`
	AverageScore   float64 `json:"averageScore"`
}

type ManagerDashboard struct {
	TeamSize        int                 `json:"teamSize"`
	TotalGoals      int                 `json:"totalGoals"`
	PendingReviews  int                 `json:"pendingReviews"`
	TeamPerformance []MemberPerformance `json:"teamPerformance"`
}

type DepartmentStats struct {
	Employees   int `json:"employees"`
	Goals       int `json:"goals"`
	Evaluations int `json:"evaluations"`
}

type RecentActivity struct {
	RecentGoals       []goals.Goal             `json:"recentGoals"`
	RecentEvaluations []evaluations.Evaluation `json:"recentEvaluations"`
}

type AdminDashboard struct {
	TotalUsers       int                        `json:"totalUsers"`
	TotalGoals       int                        `json:"totalGoals"`
	TotalEvaluations int                        `json:"totalEvaluations"`
	DepartmentStats  map[string]DepartmentStats `json:"departmentStats"`
	RecentActivity   RecentActivity             `json:"recentActivity"`
}

type Stats struct {
	Users       int `json:"users"`
	Goals       int `json:"goals"`
	Evaluations int `json:"evaluations"`
}

// UserReport is the content of a per-user PDF report.
type UserReport struct {
	User        users.User
	Goals       []goals.Goal
	Evaluations []evaluations.Evaluation
	GeneratedAt time.Time
}
