package auth

import "strings"

type Action string

const (
	ActionGoalCreate         Action = "goal.create"
	ActionGoalRead           Action = "goal.read"
	ActionGoalEdit           Action = "goal.edit"
	ActionGoalDelete         Action = "goal.delete"
	ActionGoalReview         Action = "goal.review"
	ActionEvaluationSelf     Action = "evaluation.self"
	ActionEvaluationManager  Action = "evaluation.manager"
	ActionEvaluationRead     Action = "evaluation.read"
	ActionTeamRead           Action = "team.read"
	ActionUsersManage        Action = "users.manage"
	ActionNotificationRead   Action = "notification.read"
	ActionNotificationUpdate Action = "notification.update"
	ActionProfileUpdate      Action = "profile.update"
	ActionDashboardEmployee  Action = "dashboard.employee"
	ActionDashboardManager   Action = "dashboard.manager"
	ActionDashboardAdmin     Action = "dashboard.admin"
	ActionReportPDF          Action = "report.pdf"
	ActionReportCSV          Action = "report.csv"
)

var AllActions = []Action{
	ActionGoalCreate,
	ActionGoalRead,
	ActionGoalEdit,
	ActionGoalDelete,
	ActionGoalReview,
	ActionEvaluationSelf,
	ActionEvaluationManager,
	ActionEvaluationRead,
	ActionTeamRead,
	ActionUsersManage,
	ActionNotificationRead,
	ActionNotificationUpdate,
	ActionProfileUpdate,
	ActionDashboardEmployee,
	ActionDashboardManager,
	ActionDashboardAdmin,
	ActionReportPDF,
	ActionReportCSV,
}

var selfService = []Action{
	ActionGoalCreate,
	ActionGoalRead,
	ActionGoalEdit,
	ActionGoalDelete,
	ActionEvaluationSelf,
	ActionEvaluationRead,
	ActionNotificationRead,
	ActionNotificationUpdate,
	ActionProfileUpdate,
	ActionDashboardEmployee,
	ActionReportPDF,
}

// RoleActions is the role-level half of the policy: which actions a role may
// attempt at all. Record-level conditions live in Can.
var RoleActions = map[Role][]Action{
	RoleEmployee: selfService,
	RoleManager: append(append([]Action{}, selfService...),
		ActionGoalReview,
		ActionEvaluationManager,
		ActionTeamRead,
		ActionDashboardManager,
	),
	RoleHR: append(append([]Action{}, selfService...),
		ActionGoalReview,
		ActionEvaluationManager,
		ActionUsersManage,
		ActionDashboardManager,
		ActionDashboardAdmin,
		ActionReportCSV,
	),
}

func (r Role) Allows(action Action) bool {
	for _, allowed := range RoleActions[r] {
		if allowed == action {
			return true
		}
	}
	return false
}

// RolesFor lists the roles allowed to attempt action, in declaration order.
func RolesFor(action Action) []Role {
	var out []Role
	for _, role := range Roles {
		if role.Allows(action) {
			out = append(out, role)
		}
	}
	return out
}

func RequiredRoleMessage(action Action) string {
	roles := RolesFor(action)
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	if len(names) == 0 {
		return "no role may perform " + string(action)
	}
	return "requires role " + strings.Join(names, " or ")
}
