package goals

import (
	"context"
	"fmt"
	"strings"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/notifications"
)

// Directory resolves the current manager of a user.
type Directory interface {
	ManagerIDOf(ctx context.Context, userID string) (string, error)
}

// Notifier delivers best-effort notifications; it never reports failure.
type Notifier interface {
	Notify(ctx context.Context, recipientID, ntype, message, relatedID string)
}

type ReviewInput struct {
	Status            string
	AchievementRating *int
	ManagerFeedback   string
}

type Service struct {
	store     StoreAPI
	directory Directory
	notifier  Notifier
}

func NewService(store StoreAPI, directory Directory, notifier Notifier) *Service {
	return &Service{store: store, directory: directory, notifier: notifier}
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (Goal, error) {
	if err := auth.Can(actor, auth.ActionGoalCreate, auth.Resource{OwnerID: actor.ID}); err != nil {
		return Goal{}, err
	}
	var issues []apperror.FieldIssue
	title := strings.TrimSpace(in.Title)
	if title == "" {
		issues = append(issues, apperror.Field("title", "is required"))
	}
	if in.DueDate.IsZero() {
		issues = append(issues, apperror.Field("dueDate", "is required"))
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = StatusDraft
	} else if !ValidStatus(status) {
		issues = append(issues, statusIssue())
	}
	if len(issues) > 0 {
		return Goal{}, apperror.Validation(issues...)
	}

	goal, err := s.store.CreateGoal(ctx, Goal{
		UserID:          actor.ID,
		EmployeeName:    actor.Name,
		Department:      actor.Department,
		Title:           title,
		Description:     in.Description,
		SuccessCriteria: in.SuccessCriteria,
		DueDate:         in.DueDate,
		Status:          status,
	})
	if err != nil {
		return Goal{}, err
	}
	s.notify(ctx, goal.UserID, notifications.TypeGoalCreated, fmt.Sprintf("New goal created: %s", goal.Title), goal.ID)
	return goal, nil
}

func (s *Service) List(ctx context.Context, actor auth.Actor) ([]Goal, error) {
	if err := auth.Can(actor, auth.ActionGoalRead, auth.Resource{OwnerID: actor.ID}); err != nil {
		return nil, err
	}
	return s.store.ListGoals(ctx, auth.VisibilityFor(actor))
}

// Visible lists goals for an already-authorized aggregation.
func (s *Service) Visible(ctx context.Context, vis auth.Visibility) ([]Goal, error) {
	return s.store.ListGoals(ctx, vis)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (Goal, error) {
	goal, res, err := s.load(ctx, id)
	if err != nil {
		return Goal{}, err
	}
	if err := auth.Can(actor, auth.ActionGoalRead, res); err != nil {
		return Goal{}, err
	}
	return goal, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, changes Changes) (Goal, error) {
	_, res, err := s.load(ctx, id)
	if err != nil {
		return Goal{}, err
	}
	if err := auth.Can(actor, auth.ActionGoalEdit, res); err != nil {
		return Goal{}, err
	}

	var issues []apperror.FieldIssue
	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			issues = append(issues, apperror.Field("title", "must not be empty"))
		}
		changes.Title = &title
	}
	if changes.DueDate != nil && changes.DueDate.IsZero() {
		issues = append(issues, apperror.Field("dueDate", "must be a valid date"))
	}
	if changes.Status != nil && !ValidStatus(*changes.Status) {
		issues = append(issues, statusIssue())
	}
	if len(issues) > 0 {
		return Goal{}, apperror.Validation(issues...)
	}
	if changes.Empty() {
		return Goal{}, apperror.Validation(apperror.Field("body", "no editable fields supplied"))
	}
	return s.store.UpdateGoal(ctx, id, changes)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	_, res, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Can(actor, auth.ActionGoalDelete, res); err != nil {
		return err
	}
	return s.store.DeleteGoal(ctx, id)
}

// Review writes status, rating, feedback and reviewer in one update, then
// notifies the owner.
func (s *Service) Review(ctx context.Context, actor auth.Actor, id string, in ReviewInput) (Goal, error) {
	if err := auth.Can(actor, auth.ActionGoalReview, auth.Resource{}); err != nil {
		return Goal{}, err
	}
	var issues []apperror.FieldIssue
	status := strings.TrimSpace(in.Status)
	if !ValidStatus(status) {
		issues = append(issues, statusIssue())
	}
	if in.AchievementRating != nil && (*in.AchievementRating < MinAchievementRating || *in.AchievementRating > MaxAchievementRating) {
		issues = append(issues, apperror.Field("achievementRating", fmt.Sprintf("must be between %d and %d", MinAchievementRating, MaxAchievementRating)))
	}
	if len(issues) > 0 {
		return Goal{}, apperror.Validation(issues...)
	}

	goal, err := s.store.ReviewGoal(ctx, id, Review{
		Status:            status,
		AchievementRating: in.AchievementRating,
		ManagerFeedback:   in.ManagerFeedback,
		ReviewedBy:        actor.ID,
	})
	if err != nil {
		return Goal{}, err
	}
	s.notify(ctx, goal.UserID, notifications.TypeGoalReviewed, fmt.Sprintf("Your goal %q has been reviewed", goal.Title), goal.ID)
	return goal, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.CountGoals(ctx)
}

func (s *Service) load(ctx context.Context, id string) (Goal, auth.Resource, error) {
	goal, err := s.store.GoalByID(ctx, id)
	if err != nil {
		return Goal{}, auth.Resource{}, err
	}
	managerID, err := s.directory.ManagerIDOf(ctx, goal.UserID)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return Goal{}, auth.Resource{}, err
	}
	return goal, auth.Resource{OwnerID: goal.UserID, OwnerManagerID: managerID, Locked: goal.Locked()}, nil
}

func (s *Service) notify(ctx context.Context, recipientID, ntype, message, relatedID string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, recipientID, ntype, message, relatedID)
}

func statusIssue() apperror.FieldIssue {
	return apperror.Field("status", "must be one of "+strings.Join(Statuses, ", "))
}
