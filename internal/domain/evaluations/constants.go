package evaluations

const (
	TypeSelf    = "Self"
	TypeManager = "Manager"

	// StatusPending is part of the stored enum but no flow creates it.
	StatusPending   = "Pending"
	StatusCompleted = "Completed"

	MinRating = 0
	MaxRating = 5

	MaxPeriodLength   = 100
	MaxFeedbackLength = 10000
)

// PredefinedCompetencies seeds a self-assessment submitted without ratings.
var PredefinedCompetencies = []string{
	"Communication",
	"Teamwork",
	"Problem Solving",
	"Leadership",
	"Technical Skills",
	"Adaptability",
	"Time Management",
}
