package auth

import (
	"fmt"

	"appraisal/internal/apperror"
)

const (
	RuleRole          = "role"
	RuleOwnerOnly     = "owner_only"
	RuleReportingLine = "reporting_line"
	RuleGoalLocked    = "goal_locked"
	RuleDirectReport  = "direct_report_only"
	RuleSelfOrHR      = "self_or_hr_admin"
)

// Resource describes the record an action targets. OwnerManagerID is the
// owner's current manager, empty when the owner has none or no longer exists.
type Resource struct {
	OwnerID        string
	OwnerManagerID string
	Locked         bool
}

// Can is the single authorization decision point. It returns nil to allow, an
// Unauthenticated error for an absent actor, or a Forbidden error naming the rule.
func Can(actor Actor, action Action, res Resource) error {
	if !actor.Authenticated() {
		return apperror.Unauthenticated("authentication required")
	}
	if !actor.Role.Allows(action) {
		return apperror.Forbidden(RuleRole, fmt.Sprintf("role %s is not authorized: %s", actor.Role, RequiredRoleMessage(action)))
	}

	switch action {
	case ActionGoalRead, ActionEvaluationRead:
		if VisibilityFor(actor).Allows(res.OwnerID, res.OwnerManagerID) {
			return nil
		}
		return apperror.Forbidden(RuleReportingLine, "record is outside your reporting line")

	case ActionGoalEdit, ActionGoalDelete:
		if actor.Role == RoleHR {
			return nil
		}
		if res.OwnerID == actor.ID {
			if actor.Role == RoleEmployee && res.Locked {
				return apperror.Forbidden(RuleGoalLocked, "cannot modify a goal once it has been reviewed or approved")
			}
			return nil
		}
		if actor.Role == RoleManager && res.OwnerManagerID != "" && res.OwnerManagerID == actor.ID {
			return nil
		}
		if actor.Role == RoleManager {
			return apperror.Forbidden(RuleReportingLine, "managers may only modify goals in their reporting line; use the review action")
		}
		return apperror.Forbidden(RuleOwnerOnly, "only the owner may modify this goal")

	case ActionEvaluationManager:
		if actor.Role == RoleHR {
			return nil
		}
		if res.OwnerManagerID != "" && res.OwnerManagerID == actor.ID {
			return nil
		}
		return apperror.Forbidden(RuleDirectReport, "managers may only evaluate their direct reports")

	case ActionNotificationRead, ActionNotificationUpdate:
		if res.OwnerID == actor.ID {
			return nil
		}
		return apperror.Forbidden(RuleOwnerOnly, "notifications are visible to their recipient only")

	case ActionReportPDF:
		if actor.Role == RoleHR || res.OwnerID == actor.ID {
			return nil
		}
		return apperror.Forbidden(RuleSelfOrHR, "reports are available to the employee or an HR Admin")
	}

	return nil
}

// Visibility is the list-read filter derived from the actor's role. A record
// is visible when All is set, its owner is UserID, or its owner reports to
// ManagerID (one level).
type Visibility struct {
	All       bool
	UserID    string
	ManagerID string
}

func VisibilityFor(actor Actor) Visibility {
	switch actor.Role {
	case RoleHR:
		return Visibility{All: true}
	case RoleManager:
		return Visibility{UserID: actor.ID, ManagerID: actor.ID}
	default:
		return Visibility{UserID: actor.ID}
	}
}

// OwnedBy restricts visibility to a single owner.
func OwnedBy(userID string) Visibility {
	return Visibility{UserID: userID}
}

// ReportsOf restricts visibility to the direct reports of managerID.
func ReportsOf(managerID string) Visibility {
	return Visibility{ManagerID: managerID}
}

func (v Visibility) Allows(ownerID, ownerManagerID string) bool {
	if v.All {
		return true
	}
	if v.UserID != "" && ownerID == v.UserID {
		return true
	}
	return v.ManagerID != "" && ownerManagerID == v.ManagerID
}
