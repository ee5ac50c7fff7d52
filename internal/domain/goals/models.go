package goals

import "time"

type Goal struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	EmployeeName      string    `json:"employeeName"`
	Department        string    `json:"department"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	SuccessCriteria   string    `json:"successCriteria"`
	DueDate           time.Time `json:"dueDate"`
	Status            string    `json:"status"`
	AchievementRating *int      `json:"achievementRating,omitempty"`
	ManagerFeedback   string    `json:"managerFeedback,omitempty"`
	ReviewedBy        string    `json:"reviewedBy,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Locked reports whether the owner's plain edit path is closed.
func (g Goal) Locked() bool {
	return g.ReviewedBy != "" || g.Status == StatusApproved
}

type CreateInput struct {
	Title           string
	Description     string
	SuccessCriteria string
	DueDate         time.Time
	Status          string
}

// Changes is a partial edit; nil fields are left as stored.
type Changes struct {
	Title           *string
	Description     *string
	SuccessCriteria *string
	DueDate         *time.Time
	Status          *string
}

func (c Changes) Empty() bool {
	return c.Title == nil && c.Description == nil && c.SuccessCriteria == nil && c.DueDate == nil && c.Status == nil
}

// Review is written as a single unit by the review action.
type Review struct {
	Status            string
	AchievementRating *int
	ManagerFeedback   string
	ReviewedBy        string
}
