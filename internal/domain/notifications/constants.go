package notifications

const (
	TypeGoalCreated         = "goal_created"
	TypeEvaluationDue       = "evaluation_due"
	TypeEvaluationCompleted = "evaluation_completed"
	TypeGoalReviewed        = "goal_reviewed"

	DefaultListLimit = 20
	MaxListLimit     = 100
)

var Types = []string{
	TypeGoalCreated,
	TypeEvaluationDue,
	TypeEvaluationCompleted,
	TypeGoalReviewed,
}

func ValidType(ntype string) bool {
	for _, t := range Types {
		if t == ntype {
			return true
		}
	}
	return false
}
