package evaluations

import (
	"context"

	"github.com/jackc/pgx/v5"

	"appraisal/internal/domain/auth"
)

const evaluationColumns = `
    e.id, e.user_id::text, COALESCE(u.name, ''), COALESCE(u.department, ''), COALESCE(e.evaluator_id::text, ''),
    e.evaluation_type, e.review_period, e.competencies, COALESCE(e.self_feedback, ''),
    COALESCE(e.manager_feedback, ''), e.overall_score, e.status, e.created_at
  `

func scanEvaluation(row pgx.Row) (Evaluation, error) {
	var e Evaluation
	err := row.Scan(&e.ID, &e.UserID, &e.SubjectName, &e.SubjectDepartment, &e.EvaluatorID, &e.EvaluationType,
		&e.ReviewPeriod, &e.Competencies, &e.SelfFeedback, &e.ManagerFeedback, &e.OverallScore, &e.Status, &e.CreatedAt)
	if e.Competencies == nil {
		e.Competencies = []Competency{}
	}
	return e, err
}

func (s *Store) CreateEvaluation(ctx context.Context, evaluation Evaluation) (Evaluation, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO evaluations (user_id, evaluator_id, evaluation_type, review_period, competencies, self_feedback, manager_feedback, overall_score, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, evaluation.UserID, nullIfEmpty(evaluation.EvaluatorID), evaluation.EvaluationType, evaluation.ReviewPeriod,
		evaluation.Competencies, nullIfEmpty(evaluation.SelfFeedback), nullIfEmpty(evaluation.ManagerFeedback),
		evaluation.OverallScore, evaluation.Status).Scan(&id)
	if err != nil {
		return Evaluation{}, translate(err, "create evaluation")
	}
	return s.evaluationByID(ctx, id)
}

func (s *Store) evaluationByID(ctx context.Context, id string) (Evaluation, error) {
	e, err := scanEvaluation(s.DB.QueryRow(ctx, `
    SELECT `+evaluationColumns+`
    FROM evaluations e
    LEFT JOIN users u ON u.id = e.user_id
    WHERE e.id::text = $1
  `, id))
	if err != nil {
		return Evaluation{}, translate(err, "load evaluation")
	}
	return e, nil
}

// ListEvaluations returns evaluations matching vis in creation order.
func (s *Store) ListEvaluations(ctx context.Context, vis auth.Visibility) ([]Evaluation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+evaluationColumns+`
    FROM evaluations e
    LEFT JOIN users u ON u.id = e.user_id
    WHERE $1
       OR ($2 <> '' AND e.user_id::text = $2)
       OR ($3 <> '' AND u.manager_id::text = $3)
    ORDER BY e.created_at
  `, vis.All, vis.UserID, vis.ManagerID)
	if err != nil {
		return nil, translate(err, "list evaluations")
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, translate(err, "scan evaluation")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list evaluations")
	}
	return out, nil
}

func (s *Store) CountEvaluations(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM evaluations").Scan(&total); err != nil {
		return 0, translate(err, "count evaluations")
	}
	return total, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
