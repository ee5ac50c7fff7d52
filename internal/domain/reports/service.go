package reports

import (
	"context"
	"time"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/evaluations"
	"appraisal/internal/domain/goals"
	"appraisal/internal/domain/users"
)

type UserSource interface {
	Get(ctx context.Context, id string) (users.User, error)
	All(ctx context.Context) ([]users.User, error)
	ReportsOf(ctx context.Context, managerID string) ([]users.User, error)
	Count(ctx context.Context) (int, error)
}

type GoalSource interface {
	Visible(ctx context.Context, vis auth.Visibility) ([]goals.Goal, error)
	Count(ctx context.Context) (int, error)
}

type EvaluationSource interface {
	Visible(ctx context.Context, vis auth.Visibility) ([]evaluations.Evaluation, error)
	Count(ctx context.Context) (int, error)
}

// Service loads authorized slices and hands them to the Build* functions.
type Service struct {
	users       UserSource
	goals       GoalSource
	evaluations EvaluationSource
	now         func() time.Time
}

func NewService(users UserSource, goals GoalSource, evaluations EvaluationSource) *Service {
	return &Service{users: users, goals: goals, evaluations: evaluations, now: time.Now}
}

func (s *Service) EmployeeDashboard(ctx context.Context, actor auth.Actor) (EmployeeDashboard, error) {
	if err := auth.Can(actor, auth.ActionDashboardEmployee, auth.Resource{OwnerID: actor.ID}); err != nil {
		return EmployeeDashboard{}, err
	}
	user, err := s.users.Get(ctx, actor.ID)
	if err != nil {
		return EmployeeDashboard{}, err
	}
	own := auth.OwnedBy(actor.ID)
	ownGoals, err := s.goals.Visible(ctx, own)
	if err != nil {
		return EmployeeDashboard{}, err
	}
	ownEvaluations, err := s.evaluations.Visible(ctx, own)
	if err != nil {
		return EmployeeDashboard{}, err
	}
	return BuildEmployeeDashboard(user, ownGoals, ownEvaluations), nil
}

func (s *Service) ManagerDashboard(ctx context.Context, actor auth.Actor) (ManagerDashboard, error) {
	if err := auth.Can(actor, auth.ActionDashboardManager, auth.Resource{}); err != nil {
		return ManagerDashboard{}, err
	}
	team, err := s.users.ReportsOf(ctx, actor.ID)
	if err != nil {
		return ManagerDashboard{}, err
	}
	reports := auth.ReportsOf(actor.ID)
	teamGoals, err := s.goals.Visible(ctx, reports)
	if err != nil {
		return ManagerDashboard{}, err
	}
	teamEvaluations, err := s.evaluations.Visible(ctx, reports)
	if err != nil {
		return ManagerDashboard{}, err
	}
	return BuildManagerDashboard(team, teamGoals, teamEvaluations), nil
}

func (s *Service) AdminDashboard(ctx context.Context, actor auth.Actor) (AdminDashboard, error) {
	if err := auth.Can(actor, auth.ActionDashboardAdmin, auth.Resource{}); err != nil {
		return AdminDashboard{}, err
	}
	all, allGoals, allEvaluations, err := s.everything(ctx)
	if err != nil {
		return AdminDashboard{}, err
	}
	return BuildAdminDashboard(all, allGoals, allEvaluations), nil
}

func (s *Service) Stats(ctx context.Context, actor auth.Actor) (Stats, error) {
	if err := auth.Can(actor, auth.ActionUsersManage, auth.Resource{}); err != nil {
		return Stats{}, err
	}
	var out Stats
	var err error
	if out.Users, err = s.users.Count(ctx); err != nil {
		return Stats{}, err
	}
	if out.Goals, err = s.goals.Count(ctx); err != nil {
		return Stats{}, err
	}
	if out.Evaluations, err = s.evaluations.Count(ctx); err != nil {
		return Stats{}, err
	}
	return out, nil
}

// UserReport gathers one user's goals and evaluations for the PDF report.
func (s *Service) UserReport(ctx context.Context, actor auth.Actor, userID string) (UserReport, error) {
	if err := auth.Can(actor, auth.ActionReportPDF, auth.Resource{OwnerID: userID}); err != nil {
		return UserReport{}, err
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return UserReport{}, err
	}
	own := auth.OwnedBy(userID)
	userGoals, err := s.goals.Visible(ctx, own)
	if err != nil {
		return UserReport{}, err
	}
	userEvaluations, err := s.evaluations.Visible(ctx, own)
	if err != nil {
		return UserReport{}, err
	}
	return UserReport{User: user, Goals: userGoals, Evaluations: userEvaluations, GeneratedAt: s.now()}, nil
}

func (s *Service) Export(ctx context.Context, actor auth.Actor) ([][]string, error) {
	if err := auth.Can(actor, auth.ActionReportCSV, auth.Resource{}); err != nil {
		return nil, err
	}
	all, allGoals, allEvaluations, err := s.everything(ctx)
	if err != nil {
		return nil, err
	}
	return BuildExportRows(all, allGoals, allEvaluations), nil
}

func (s *Service) everything(ctx context.Context) ([]users.User, []goals.Goal, []evaluations.Evaluation, error) {
	all, err := s.users.All(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	everyone := auth.Visibility{All: true}
	allGoals, err := s.goals.Visible(ctx, everyone)
	if err != nil {
		return nil, nil, nil, err
	}
	allEvaluations, err := s.evaluations.Visible(ctx, everyone)
	if err != nil {
		return nil, nil, nil, err
	}
	return all, allGoals, allEvaluations, nil
}
