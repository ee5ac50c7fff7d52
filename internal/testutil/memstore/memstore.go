// Package memstore is an in-memory implementation of every domain StoreAPI,
// used by service and handler tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/evaluations"
	"appraisal/internal/domain/goals"
	"appraisal/internal/domain/notifications"
	"appraisal/internal/domain/users"
)

var ErrOutage = errors.New("store unavailable")

type Store struct {
	mu            sync.Mutex
	users         map[string]users.User
	goals         map[string]goals.Goal
	evaluations   map[string]evaluations.Evaluation
	notifications map[string]notifications.Notification
	seq           int
	clock         time.Time

	// FailNotifications makes every notification write fail.
	FailNotifications bool
}

func New() *Store {
	return &Store{
		users:         map[string]users.User{},
		goals:         map[string]goals.Goal{},
		evaluations:   map[string]evaluations.Evaluation{},
		notifications: map[string]notifications.Notification{},
		clock:         time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so creation order is stable.
func (s *Store) tick() time.Time {
	s.seq++
	return s.clock.Add(time.Duration(s.seq) * time.Second)
}

func (s *Store) managerOf(userID string) string {
	return s.users[userID].ManagerID
}

func (s *Store) visible(vis auth.Visibility, ownerID string) bool {
	return vis.Allows(ownerID, s.managerOf(ownerID))
}

func (s *Store) CreateUser(_ context.Context, in users.NewUser) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) {
			return users.User{}, apperror.Conflict("user already exists")
		}
	}
	now := s.tick()
	user := users.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Department:   in.Department,
		ManagerID:    in.ManagerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[user.ID] = user
	return s.withManagerName(user), nil
}

func (s *Store) withManagerName(user users.User) users.User {
	if manager, ok := s.users[user.ManagerID]; ok {
		user.ManagerName = manager.Name
	}
	return user
}

func (s *Store) UserByID(_ context.Context, id string) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return users.User{}, apperror.NotFound("user")
	}
	return s.withManagerName(user), nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return s.withManagerName(u), nil
		}
	}
	return users.User{}, apperror.NotFound("user")
}

func (s *Store) ListUsers(_ context.Context) ([]users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedUsers(func(users.User) bool { return true }), nil
}

func (s *Store) ListDirectReports(_ context.Context, managerID string) ([]users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedUsers(func(u users.User) bool { return managerID != "" && u.ManagerID == managerID }), nil
}

func (s *Store) sortedUsers(keep func(users.User) bool) []users.User {
	var out []users.User
	for _, u := range s.users {
		if keep(u) {
			out = append(out, s.withManagerName(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) UpdateProfile(_ context.Context, id string, changes users.ProfileChanges) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return users.User{}, apperror.NotFound("user")
	}
	if changes.Name != "" {
		user.Name = changes.Name
	}
	if changes.Department != "" {
		user.Department = changes.Department
	}
	if changes.ProfilePicture != "" {
		user.ProfilePicture = changes.ProfilePicture
	}
	if changes.PasswordHash != "" {
		user.PasswordHash = changes.PasswordHash
	}
	user.UpdatedAt = s.tick()
	s.users[id] = user
	return s.withManagerName(user), nil
}

func (s *Store) UpdateAssignment(_ context.Context, id string, assignment users.Assignment) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return users.User{}, apperror.NotFound("user")
	}
	if assignment.Role != "" {
		user.Role = assignment.Role
	}
	if assignment.ManagerID != nil {
		user.ManagerID = *assignment.ManagerID
	}
	user.UpdatedAt = s.tick()
	s.users[id] = user
	return s.withManagerName(user), nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperror.NotFound("user")
	}
	delete(s.users, id)
	return nil
}

func (s *Store) CountUsers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *Store) CreateGoal(_ context.Context, goal goals.Goal) (goals.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	goal.ID = uuid.NewString()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	s.goals[goal.ID] = goal
	return goal, nil
}

func (s *Store) GoalByID(_ context.Context, id string) (goals.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return goals.Goal{}, apperror.NotFound("goal")
	}
	return goal, nil
}

func (s *Store) ListGoals(_ context.Context, vis auth.Visibility) ([]goals.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []goals.Goal
	for _, g := range s.goals {
		if s.visible(vis, g.UserID) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateGoal(_ context.Context, id string, changes goals.Changes) (goals.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return goals.Goal{}, apperror.NotFound("goal")
	}
	if changes.Title != nil {
		goal.Title = *changes.Title
	}
	if changes.Description != nil {
		goal.Description = *changes.Description
	}
	if changes.SuccessCriteria != nil {
		goal.SuccessCriteria = *changes.SuccessCriteria
	}
	if changes.DueDate != nil {
		goal.DueDate = *changes.DueDate
	}
	if changes.Status != nil {
		goal.Status = *changes.Status
	}
	goal.UpdatedAt = s.tick()
	s.goals[id] = goal
	return goal, nil
}

func (s *Store) ReviewGoal(_ context.Context, id string, review goals.Review) (goals.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return goals.Goal{}, apperror.NotFound("goal")
	}
	goal.Status = review.Status
	goal.AchievementRating = review.AchievementRating
	goal.ManagerFeedback = review.ManagerFeedback
	goal.ReviewedBy = review.ReviewedBy
	goal.UpdatedAt = s.tick()
	s.goals[id] = goal
	return goal, nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return apperror.NotFound("goal")
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) CountGoals(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.goals), nil
}

func (s *Store) CreateEvaluation(_ context.Context, evaluation evaluations.Evaluation) (evaluations.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evaluation.ID = uuid.NewString()
	evaluation.CreatedAt = s.tick()
	if subject, ok := s.users[evaluation.UserID]; ok {
		evaluation.SubjectName = subject.Name
		evaluation.SubjectDepartment = subject.Department
	}
	s.evaluations[evaluation.ID] = evaluation
	return evaluation, nil
}

func (s *Store) ListEvaluations(_ context.Context, vis auth.Visibility) ([]evaluations.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []evaluations.Evaluation
	for _, e := range s.evaluations {
		if s.visible(vis, e.UserID) {
			if subject, ok := s.users[e.UserID]; ok {
				e.SubjectName = subject.Name
				e.SubjectDepartment = subject.Department
			} else {
				e.SubjectName, e.SubjectDepartment = "", ""
			}
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CountEvaluations(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.evaluations), nil
}

func (s *Store) CreateNotification(_ context.Context, n notifications.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNotifications {
		return apperror.Unexpected("create notification", ErrOutage)
	}
	n.ID = uuid.NewString()
	n.CreatedAt = s.tick()
	s.notifications[n.ID] = n
	return nil
}

func (s *Store) ListNotifications(_ context.Context, userID string, limit, offset int) ([]notifications.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []notifications.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []notifications.Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			total++
		}
	}
	return total, nil
}

func (s *Store) MarkRead(_ context.Context, userID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[notificationID]
	if !ok || n.UserID != userID {
		return apperror.NotFound("notification")
	}
	n.IsRead = true
	s.notifications[notificationID] = n
	return nil
}

func (s *Store) MarkAllRead(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for id, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			s.notifications[id] = n
			updated++
		}
	}
	return updated, nil
}

// Notifications returns every stored notification for userID, newest first.
func (s *Store) Notifications(userID string) []notifications.Notification {
	list, _ := s.ListNotifications(context.Background(), userID, 0, 0)
	return list
}

// PutUser stores a user directly, bypassing registration.
func (s *Store) PutUser(user users.User) users.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := s.tick()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return user
}

var (
	_ users.StoreAPI         = (*Store)(nil)
	_ goals.StoreAPI         = (*Store)(nil)
	_ evaluations.StoreAPI   = (*Store)(nil)
	_ notifications.StoreAPI = (*Store)(nil)
)
