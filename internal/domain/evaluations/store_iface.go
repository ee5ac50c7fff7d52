package evaluations

import (
	"context"

	"appraisal/internal/domain/auth"
)

type StoreAPI interface {
	CreateEvaluation(ctx context.Context, evaluation Evaluation) (Evaluation, error)
	ListEvaluations(ctx context.Context, vis auth.Visibility) ([]Evaluation, error)
	CountEvaluations(ctx context.Context) (int, error)
}
