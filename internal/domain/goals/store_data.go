package goals

import (
	"context"

	"github.com/jackc/pgx/v5"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
)

const goalColumns = `
    g.id, g.user_id::text, g.employee_name, g.department, g.title, g.description, g.success_criteria,
    g.due_date, g.status, g.achievement_rating, COALESCE(g.manager_feedback, ''),
    COALESCE(g.reviewed_by::text, ''), g.created_at, g.updated_at
  `

func scanGoal(row pgx.Row) (Goal, error) {
	var goal Goal
	err := row.Scan(&goal.ID, &goal.UserID, &goal.EmployeeName, &goal.Department, &goal.Title, &goal.Description,
		&goal.SuccessCriteria, &goal.DueDate, &goal.Status, &goal.AchievementRating, &goal.ManagerFeedback,
		&goal.ReviewedBy, &goal.CreatedAt, &goal.UpdatedAt)
	return goal, err
}

func (s *Store) CreateGoal(ctx context.Context, goal Goal) (Goal, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO goals (user_id, employee_name, department, title, description, success_criteria, due_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, goal.UserID, goal.EmployeeName, goal.Department, goal.Title, goal.Description, goal.SuccessCriteria, goal.DueDate, goal.Status).Scan(&id)
	if err != nil {
		return Goal{}, translate(err, "create goal")
	}
	return s.GoalByID(ctx, id)
}

func (s *Store) GoalByID(ctx context.Context, id string) (Goal, error) {
	goal, err := scanGoal(s.DB.QueryRow(ctx, `
    SELECT `+goalColumns+`
    FROM goals g
    WHERE g.id::text = $1
  `, id))
	if err != nil {
		return Goal{}, translate(err, "load goal")
	}
	return goal, nil
}

// ListGoals returns goals matching vis, newest first. Report membership is
// resolved through the owner's current manager_id.
func (s *Store) ListGoals(ctx context.Context, vis auth.Visibility) ([]Goal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+goalColumns+`
    FROM goals g
    LEFT JOIN users u ON u.id = g.user_id
    WHERE $1
       OR ($2 <> '' AND g.user_id::text = $2)
       OR ($3 <> '' AND u.manager_id::text = $3)
    ORDER BY g.created_at DESC
  `, vis.All, vis.UserID, vis.ManagerID)
	if err != nil {
		return nil, translate(err, "list goals")
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, translate(err, "scan goal")
		}
		out = append(out, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list goals")
	}
	return out, nil
}

func (s *Store) UpdateGoal(ctx context.Context, id string, changes Changes) (Goal, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE goals
    SET title = COALESCE($2, title),
        description = COALESCE($3, description),
        success_criteria = COALESCE($4, success_criteria),
        due_date = COALESCE($5, due_date),
        status = COALESCE($6, status),
        updated_at = now()
    WHERE id::text = $1
  `, id, changes.Title, changes.Description, changes.SuccessCriteria, changes.DueDate, changes.Status)
	if err != nil {
		return Goal{}, translate(err, "update goal")
	}
	if tag.RowsAffected() == 0 {
		return Goal{}, apperror.NotFound("goal")
	}
	return s.GoalByID(ctx, id)
}

func (s *Store) ReviewGoal(ctx context.Context, id string, review Review) (Goal, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE goals
    SET status = $2,
        achievement_rating = $3,
        manager_feedback = $4,
        reviewed_by = $5,
        updated_at = now()
    WHERE id::text = $1
  `, id, review.Status, review.AchievementRating, review.ManagerFeedback, review.ReviewedBy)
	if err != nil {
		return Goal{}, translate(err, "review goal")
	}
	if tag.RowsAffected() == 0 {
		return Goal{}, apperror.NotFound("goal")
	}
	return s.GoalByID(ctx, id)
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM goals WHERE id::text = $1", id)
	if err != nil {
		return translate(err, "delete goal")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("goal")
	}
	return nil
}

func (s *Store) CountGoals(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM goals").Scan(&total); err != nil {
		return 0, translate(err, "count goals")
	}
	return total, nil
}
