package evaluations_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/evaluations"
	"appraisal/internal/domain/notifications"
	"appraisal/internal/domain/users"
	"appraisal/internal/testutil/memstore"
)

type fixture struct {
	store *memstore.Store
	svc   *evaluations.Service
	alice auth.Actor
	bob   auth.Actor
	carol auth.Actor
	dave  auth.Actor
	hr    auth.Actor
}

func newFixture() fixture {
	store := memstore.New()
	userSvc := users.NewService(store, auth.NewTokens("test", time.Hour))
	bob := store.PutUser(users.User{Name: "Bob", Email: "bob@example.com", Role: auth.RoleManager})
	carol := store.PutUser(users.User{Name: "Carol", Email: "carol@example.com", Role: auth.RoleManager})
	alice := store.PutUser(users.User{Name: "Alice", Email: "alice@example.com", Role: auth.RoleEmployee, ManagerID: bob.ID, Department: "Eng"})
	dave := store.PutUser(users.User{Name: "Dave", Email: "dave@example.com", Role: auth.RoleEmployee, ManagerID: carol.ID})
	hr := store.PutUser(users.User{Name: "Hana", Email: "hr@example.com", Role: auth.RoleHR})
	return fixture{
		store: store,
		svc:   evaluations.NewService(store, userSvc, notifications.New(store)),
		alice: alice.Actor(),
		bob:   bob.Actor(),
		carol: carol.Actor(),
		dave:  dave.Actor(),
		hr:    hr.Actor(),
	}
}

func TestSelfAssessmentDefaultsCompetencies(t *testing.T) {
	f := newFixture()

	evaluation, err := f.svc.SelfAssessment(context.Background(), f.alice, evaluations.SelfInput{ReviewPeriod: "Q1 2025"})
	require.NoError(t, err)

	assert.Equal(t, evaluations.TypeSelf, evaluation.EvaluationType)
	assert.Equal(t, evaluations.StatusCompleted, evaluation.Status)
	assert.Equal(t, f.alice.ID, evaluation.UserID)
	require.Len(t, evaluation.Competencies, 7)
	for i, c := range evaluation.Competencies {
		assert.Equal(t, evaluations.PredefinedCompetencies[i], c.Name)
		assert.Zero(t, c.SelfRating)
		assert.Zero(t, c.ManagerRating)
	}
}

func TestSelfAssessmentUsesCallerList(t *testing.T) {
	f := newFixture()

	evaluation, err := f.svc.SelfAssessment(context.Background(), f.alice, evaluations.SelfInput{
		ReviewPeriod: "Q1 2025",
		Competencies: []evaluations.Competency{{Name: "Mentoring", SelfRating: 4}},
	})
	require.NoError(t, err)
	require.Len(t, evaluation.Competencies, 1)
	assert.Equal(t, "Mentoring", evaluation.Competencies[0].Name)

	_, err = f.svc.SelfAssessment(context.Background(), f.alice, evaluations.SelfInput{
		ReviewPeriod: "Q1 2025",
		Competencies: []evaluations.Competency{{Name: "Mentoring", SelfRating: 7}},
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.svc.SelfAssessment(context.Background(), f.alice, evaluations.SelfInput{})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestManagerReviewSanitizesCompetencies(t *testing.T) {
	f := newFixture()

	evaluation, err := f.svc.ManagerReview(context.Background(), f.bob, evaluations.ManagerInput{
		UserID:       f.alice.ID,
		ReviewPeriod: "Q1 2025",
		Competencies: []map[string]any{
			{"name": "Communication", "selfRating": 5.0, "managerRating": 4.0},
			{"name": "Teamwork", "managerRating": "3"},
			{"name": "Leadership", "managerRating": "excellent"},
			{"name": "Adaptability"},
		},
		ManagerFeedback: "solid quarter",
		OverallScore:    "4.5",
	})
	require.NoError(t, err)

	require.Len(t, evaluation.Competencies, 4)
	assert.Equal(t, evaluations.Competency{Name: "Communication", ManagerRating: 4}, evaluation.Competencies[0])
	assert.Equal(t, evaluations.Competency{Name: "Teamwork", ManagerRating: 3}, evaluation.Competencies[1])
	assert.Equal(t, evaluations.Competency{Name: "Leadership", ManagerRating: 0}, evaluation.Competencies[2])
	assert.Equal(t, evaluations.Competency{Name: "Adaptability", ManagerRating: 0}, evaluation.Competencies[3])
	require.NotNil(t, evaluation.OverallScore)
	assert.Equal(t, 4.5, *evaluation.OverallScore)
	assert.Equal(t, f.bob.ID, evaluation.EvaluatorID)
	assert.Equal(t, evaluations.TypeManager, evaluation.EvaluationType)

	list := f.store.Notifications(f.alice.ID)
	require.Len(t, list, 1)
	assert.Equal(t, notifications.TypeEvaluationCompleted, list[0].Type)
	assert.Equal(t, "Your performance evaluation for Q1 2025 has been completed", list[0].Message)
	assert.Equal(t, evaluation.ID, list[0].RelatedID)
}

func TestManagerReviewScoreCoercion(t *testing.T) {
	f := newFixture()

	evaluation, err := f.svc.ManagerReview(context.Background(), f.bob, evaluations.ManagerInput{
		UserID:       f.alice.ID,
		ReviewPeriod: "Q2",
		OverallScore: "n/a",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, evaluation.Score())
	assert.Empty(t, evaluation.Competencies)

	evaluation, err = f.svc.ManagerReview(context.Background(), f.bob, evaluations.ManagerInput{
		UserID:       f.alice.ID,
		ReviewPeriod: "Q3",
		OverallScore: 9.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 9.0, evaluation.Score())
}

func TestManagerReviewRejectsOutOfRangeRating(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ManagerReview(context.Background(), f.bob, evaluations.ManagerInput{
		UserID:       f.alice.ID,
		ReviewPeriod: "Q1",
		Competencies: []map[string]any{{"name": "Teamwork", "managerRating": 6.0}},
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, "competencies[0].managerRating", appErr.Fields[0].Field)
}

func TestManagerReviewOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in := evaluations.ManagerInput{UserID: f.dave.ID, ReviewPeriod: "Q1"}

	_, err := f.svc.ManagerReview(ctx, f.bob, in)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, auth.RuleDirectReport, appErr.Rule)

	_, err = f.svc.ManagerReview(ctx, f.hr, in)
	require.NoError(t, err)

	_, err = f.svc.ManagerReview(ctx, f.alice, evaluations.ManagerInput{UserID: f.alice.ID, ReviewPeriod: "Q1"})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.svc.ManagerReview(ctx, f.hr, evaluations.ManagerInput{UserID: "ghost", ReviewPeriod: "Q1"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestManagerReviewSurvivesNotificationOutage(t *testing.T) {
	f := newFixture()
	f.store.FailNotifications = true

	evaluation, err := f.svc.ManagerReview(context.Background(), f.bob, evaluations.ManagerInput{UserID: f.alice.ID, ReviewPeriod: "Q1"})
	require.NoError(t, err)
	assert.NotEmpty(t, evaluation.ID)
	assert.Empty(t, f.store.Notifications(f.alice.ID))
}

func TestListVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	aliceSelf, err := f.svc.SelfAssessment(ctx, f.alice, evaluations.SelfInput{ReviewPeriod: "Q1"})
	require.NoError(t, err)
	bobSelf, err := f.svc.SelfAssessment(ctx, f.bob, evaluations.SelfInput{ReviewPeriod: "Q1"})
	require.NoError(t, err)
	daveSelf, err := f.svc.SelfAssessment(ctx, f.dave, evaluations.SelfInput{ReviewPeriod: "Q1"})
	require.NoError(t, err)

	ids := func(list []evaluations.Evaluation) []string {
		out := []string{}
		for _, e := range list {
			out = append(out, e.ID)
		}
		return out
	}

	own, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, []string{aliceSelf.ID}, ids(own))

	manager, err := f.svc.List(ctx, f.bob)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{aliceSelf.ID, bobSelf.ID}, ids(manager))

	team, err := f.svc.Team(ctx, f.bob)
	require.NoError(t, err)
	assert.Equal(t, []string{aliceSelf.ID}, ids(team))
	assert.Equal(t, "Alice", team[0].SubjectName)

	all, err := f.svc.List(ctx, f.hr)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{aliceSelf.ID, bobSelf.ID, daveSelf.ID}, ids(all))
}

func TestCompetenciesIsACopy(t *testing.T) {
	f := newFixture()
	list := f.svc.Competencies()
	list[0] = "changed"
	assert.Equal(t, "Communication", f.svc.Competencies()[0])
}

func TestManagerReviewChecksTargetBeforeBody(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	badBody := evaluations.ManagerInput{
		UserID:       f.dave.ID,
		Competencies: []map[string]any{{"name": "Teamwork", "managerRating": 9.0}},
	}

	_, err := f.svc.ManagerReview(ctx, f.bob, badBody)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindForbidden, appErr.Kind)
	assert.Equal(t, auth.RuleDirectReport, appErr.Rule)

	badBody.UserID = "ghost"
	_, err = f.svc.ManagerReview(ctx, f.hr, badBody)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	badBody.UserID = f.alice.ID
	badBody.ManagerFeedback = strings.Repeat("x", evaluations.MaxFeedbackLength+1)
	_, err = f.svc.ManagerReview(ctx, f.bob, badBody)
	appErr, ok = apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	fields := map[string]bool{}
	for _, issue := range appErr.Fields {
		fields[issue.Field] = true
	}
	assert.True(t, fields["reviewPeriod"])
	assert.True(t, fields["managerFeedback"])
	assert.True(t, fields["competencies[0].managerRating"])
	assert.Empty(t, f.store.Notifications(f.alice.ID))
}
