package goals

const (
	StatusDraft       = "Draft"
	StatusUnderReview = "Under Review"
	StatusApproved    = "Approved"
	StatusNotStarted  = "Not Started"
	StatusInProgress  = "In Progress"
	StatusCompleted   = "Completed"

	MinAchievementRating = 1
	MaxAchievementRating = 5
)

var Statuses = []string{
	StatusDraft,
	StatusUnderReview,
	StatusApproved,
	StatusNotStarted,
	StatusInProgress,
	StatusCompleted,
}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
