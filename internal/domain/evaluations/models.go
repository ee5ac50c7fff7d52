package evaluations

import "time"

type Competency struct {
	Name          string  `json:"name"`
	SelfRating    float64 `json:"selfRating"`
	ManagerRating float64 `json:"managerRating"`
}

type Evaluation struct {
	ID                string       `json:"id"`
	UserID            string       `json:"userId"`
	SubjectName       string       `json:"subjectName,omitempty"`
	SubjectDepartment string       `json:"subjectDepartment,omitempty"`
	EvaluatorID       string       `json:"evaluatorId,omitempty"`
	EvaluationType    string       `json:"evaluationType"`
	ReviewPeriod      string       `json:"reviewPeriod"`
	Competencies      []Competency `json:"competencies"`
	SelfFeedback      string       `json:"selfFeedback,omitempty"`
	ManagerFeedback   string       `json:"managerFeedback,omitempty"`
	OverallScore      *float64     `json:"overallScore,omitempty"`
	Status            string       `json:"status"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// Score returns the overall score, treating an unset score as 0.
func (e Evaluation) Score() float64 {
	if e.OverallScore == nil {
		return 0
	}
	return *e.OverallScore
}

type SelfInput struct {
	ReviewPeriod string
	Competencies []Competency
	SelfFeedback string
}

// ManagerInput carries loosely typed ratings as decoded from JSON; they are
// coerced to numbers before storage.
type ManagerInput struct {
	UserID          string
	ReviewPeriod    string
	Competencies    []map[string]any
	ManagerFeedback string
	OverallScore    any
}
