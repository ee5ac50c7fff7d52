package evaluations

import (
	"context"
	"fmt"
	"strings"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/notifications"
)

type Directory interface {
	ManagerIDOf(ctx context.Context, userID string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipientID, ntype, message, relatedID string)
}

type Service struct {
	store     StoreAPI
	directory Directory
	notifier  Notifier
}

func NewService(store StoreAPI, directory Directory, notifier Notifier) *Service {
	return &Service{store: store, directory: directory, notifier: notifier}
}

func (s *Service) SelfAssessment(ctx context.Context, actor auth.Actor, in SelfInput) (Evaluation, error) {
	if err := auth.Can(actor, auth.ActionEvaluationSelf, auth.Resource{OwnerID: actor.ID}); err != nil {
		return Evaluation{}, err
	}
	var issues []apperror.FieldIssue
	period := strings.TrimSpace(in.ReviewPeriod)
	if period == "" {
		issues = append(issues, apperror.Field("reviewPeriod", "is required"))
	}
	competencies := in.Competencies
	if len(competencies) == 0 {
		competencies = defaultCompetencies()
	} else {
		issues = append(issues, validateSelfCompetencies(competencies)...)
	}
	if len(issues) > 0 {
		return Evaluation{}, apperror.Validation(issues...)
	}

	return s.store.CreateEvaluation(ctx, Evaluation{
		UserID:         actor.ID,
		EvaluationType: TypeSelf,
		ReviewPeriod:   period,
		Competencies:   competencies,
		SelfFeedback:   in.SelfFeedback,
		Status:         StatusCompleted,
	})
}

// ManagerReview records a Manager-type evaluation of in.UserID. Managers may
// only evaluate their direct reports; HR Admins may evaluate any user. The
// target is checked before the body so a denial does not depend on payload
// shape.
func (s *Service) ManagerReview(ctx context.Context, actor auth.Actor, in ManagerInput) (Evaluation, error) {
	if !actor.Role.Allows(auth.ActionEvaluationManager) {
		return Evaluation{}, auth.Can(actor, auth.ActionEvaluationManager, auth.Resource{})
	}
	subjectID := strings.TrimSpace(in.UserID)
	if subjectID == "" {
		return Evaluation{}, apperror.Validation(apperror.Field("userId", "is required"))
	}
	managerID, err := s.directory.ManagerIDOf(ctx, subjectID)
	if err != nil {
		return Evaluation{}, err
	}
	if err := auth.Can(actor, auth.ActionEvaluationManager, auth.Resource{OwnerID: subjectID, OwnerManagerID: managerID}); err != nil {
		return Evaluation{}, err
	}

	var issues []apperror.FieldIssue
	period := strings.TrimSpace(in.ReviewPeriod)
	switch {
	case period == "":
		issues = append(issues, apperror.Field("reviewPeriod", "is required"))
	case len(period) > MaxPeriodLength:
		issues = append(issues, apperror.Field("reviewPeriod", fmt.Sprintf("must be at most %d characters", MaxPeriodLength)))
	}
	if len(in.ManagerFeedback) > MaxFeedbackLength {
		issues = append(issues, apperror.Field("managerFeedback", fmt.Sprintf("must be at most %d characters", MaxFeedbackLength)))
	}
	competencies, compIssues := sanitizeManagerCompetencies(in.Competencies)
	issues = append(issues, compIssues...)
	if len(issues) > 0 {
		return Evaluation{}, apperror.Validation(issues...)
	}

	score := coerceNumber(in.OverallScore)
	evaluation, err := s.store.CreateEvaluation(ctx, Evaluation{
		UserID:          subjectID,
		EvaluatorID:     actor.ID,
		EvaluationType:  TypeManager,
		ReviewPeriod:    period,
		Competencies:    competencies,
		ManagerFeedback: in.ManagerFeedback,
		OverallScore:    &score,
		Status:          StatusCompleted,
	})
	if err != nil {
		return Evaluation{}, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, subjectID, notifications.TypeEvaluationCompleted,
			fmt.Sprintf("Your performance evaluation for %s has been completed", period), evaluation.ID)
	}
	return evaluation, nil
}

// List returns the evaluations visible to actor: own for Employees, own and
// direct reports' for Managers, all for HR Admins.
func (s *Service) List(ctx context.Context, actor auth.Actor) ([]Evaluation, error) {
	if err := auth.Can(actor, auth.ActionEvaluationRead, auth.Resource{OwnerID: actor.ID}); err != nil {
		return nil, err
	}
	return s.store.ListEvaluations(ctx, auth.VisibilityFor(actor))
}

// Team returns the evaluations of the actor's direct reports.
func (s *Service) Team(ctx context.Context, actor auth.Actor) ([]Evaluation, error) {
	if err := auth.Can(actor, auth.ActionTeamRead, auth.Resource{}); err != nil {
		return nil, err
	}
	return s.store.ListEvaluations(ctx, auth.ReportsOf(actor.ID))
}

func (s *Service) Visible(ctx context.Context, vis auth.Visibility) ([]Evaluation, error) {
	return s.store.ListEvaluations(ctx, vis)
}

func (s *Service) Competencies() []string {
	return append([]string(nil), PredefinedCompetencies...)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.CountEvaluations(ctx)
}
