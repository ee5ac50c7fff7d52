package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appraisal/internal/apperror"
)

var (
	alice = Actor{ID: "alice", Role: RoleEmployee, ManagerID: "bob"}
	bob   = Actor{ID: "bob", Role: RoleManager}
	carol = Actor{ID: "carol", Role: RoleManager}
	hr    = Actor{ID: "hr", Role: RoleHR}
)

func TestCanGoalEdit(t *testing.T) {
	aliceGoal := Resource{OwnerID: "alice", OwnerManagerID: "bob"}
	lockedAliceGoal := Resource{OwnerID: "alice", OwnerManagerID: "bob", Locked: true}
	otherGoal := Resource{OwnerID: "dave", OwnerManagerID: "carol"}

	tests := []struct {
		name     string
		actor    Actor
		action   Action
		resource Resource
		wantRule string
	}{
		{name: "owner edits unlocked goal", actor: alice, action: ActionGoalEdit, resource: aliceGoal},
		{name: "owner edits locked goal", actor: alice, action: ActionGoalEdit, resource: lockedAliceGoal, wantRule: RuleGoalLocked},
		{name: "owner deletes locked goal", actor: alice, action: ActionGoalDelete, resource: lockedAliceGoal, wantRule: RuleGoalLocked},
		{name: "manager edits report locked goal", actor: bob, action: ActionGoalEdit, resource: lockedAliceGoal},
		{name: "manager deletes report goal", actor: bob, action: ActionGoalDelete, resource: aliceGoal},
		{name: "manager edits outside goal", actor: carol, action: ActionGoalEdit, resource: aliceGoal, wantRule: RuleReportingLine},
		{name: "manager edits own locked goal", actor: bob, action: ActionGoalEdit, resource: Resource{OwnerID: "bob", Locked: true}},
		{name: "hr edits any goal", actor: hr, action: ActionGoalEdit, resource: otherGoal},
		{name: "employee edits other goal", actor: alice, action: ActionGoalEdit, resource: otherGoal, wantRule: RuleOwnerOnly},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Can(tc.actor, tc.action, tc.resource)
			if tc.wantRule == "" {
				require.NoError(t, err)
				return
			}
			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindForbidden, appErr.Kind)
			assert.Equal(t, tc.wantRule, appErr.Rule)
		})
	}
}

func TestCanRoleGate(t *testing.T) {
	err := Can(alice, ActionGoalReview, Resource{})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, RuleRole, appErr.Rule)
	assert.Contains(t, appErr.Message, "requires role Manager or HR Admin")

	require.NoError(t, Can(bob, ActionGoalReview, Resource{OwnerID: "dave", OwnerManagerID: "carol"}))
	require.Error(t, Can(hr, ActionTeamRead, Resource{}))
	require.Error(t, Can(bob, ActionUsersManage, Resource{}))
}

func TestCanRejectsAnonymousActor(t *testing.T) {
	err := Can(Actor{}, ActionGoalRead, Resource{OwnerID: "alice"})
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}

func TestCanManagerEvaluation(t *testing.T) {
	require.NoError(t, Can(bob, ActionEvaluationManager, Resource{OwnerID: "alice", OwnerManagerID: "bob"}))
	require.NoError(t, Can(hr, ActionEvaluationManager, Resource{OwnerID: "dave"}))

	err := Can(carol, ActionEvaluationManager, Resource{OwnerID: "alice", OwnerManagerID: "bob"})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, RuleDirectReport, appErr.Rule)
}

func TestCanReportPDF(t *testing.T) {
	require.NoError(t, Can(alice, ActionReportPDF, Resource{OwnerID: "alice"}))
	require.NoError(t, Can(hr, ActionReportPDF, Resource{OwnerID: "alice"}))
	assert.True(t, apperror.Is(Can(bob, ActionReportPDF, Resource{OwnerID: "alice", OwnerManagerID: "bob"}), apperror.KindForbidden))
}

func TestVisibility(t *testing.T) {
	employee := VisibilityFor(alice)
	assert.True(t, employee.Allows("alice", "bob"))
	assert.False(t, employee.Allows("dave", "alice"))

	manager := VisibilityFor(bob)
	assert.True(t, manager.Allows("bob", ""))
	assert.True(t, manager.Allows("alice", "bob"))
	assert.False(t, manager.Allows("dave", "carol"))
	assert.False(t, manager.Allows("", ""))

	assert.True(t, VisibilityFor(hr).Allows("anyone", ""))
	assert.False(t, ReportsOf("bob").Allows("bob", ""))
	assert.True(t, OwnedBy("alice").Allows("alice", ""))
}
