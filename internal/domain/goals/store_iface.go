package goals

import (
	"context"

	"appraisal/internal/domain/auth"
)

type StoreAPI interface {
	CreateGoal(ctx context.Context, goal Goal) (Goal, error)
	GoalByID(ctx context.Context, id string) (Goal, error)
	ListGoals(ctx context.Context, vis auth.Visibility) ([]Goal, error)
	UpdateGoal(ctx context.Context, id string, changes Changes) (Goal, error)
	ReviewGoal(ctx context.Context, id string, review Review) (Goal, error)
	DeleteGoal(ctx context.Context, id string) error
	CountGoals(ctx context.Context) (int, error)
}
