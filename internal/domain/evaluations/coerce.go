package evaluations

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"appraisal/internal/apperror"
)

// coerceNumber converts a decoded JSON value to a number. Anything that is
// not numeric becomes 0.
func coerceNumber(value any) float64 {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if v {
			f = 1
		}
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// sanitizeManagerCompetencies keeps only name and managerRating from each
// entry.
func sanitizeManagerCompetencies(raw []map[string]any) ([]Competency, []apperror.FieldIssue) {
	out := make([]Competency, 0, len(raw))
	var issues []apperror.FieldIssue
	for i, entry := range raw {
		name, _ := entry["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			issues = append(issues, apperror.Field(fmt.Sprintf("competencies[%d].name", i), "is required"))
		}
		rating := coerceNumber(entry["managerRating"])
		if !inRange(rating) {
			issues = append(issues, apperror.Field(fmt.Sprintf("competencies[%d].managerRating", i), ratingReason()))
		}
		out = append(out, Competency{Name: name, ManagerRating: rating})
	}
	return out, issues
}

func validateSelfCompetencies(list []Competency) []apperror.FieldIssue {
	var issues []apperror.FieldIssue
	for i, c := range list {
		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, apperror.Field(fmt.Sprintf("competencies[%d].name", i), "is required"))
		}
		if !inRange(c.SelfRating) {
			issues = append(issues, apperror.Field(fmt.Sprintf("competencies[%d].selfRating", i), ratingReason()))
		}
		if !inRange(c.ManagerRating) {
			issues = append(issues, apperror.Field(fmt.Sprintf("competencies[%d].managerRating", i), ratingReason()))
		}
	}
	return issues
}

func defaultCompetencies() []Competency {
	out := make([]Competency, 0, len(PredefinedCompetencies))
	for _, name := range PredefinedCompetencies {
		out = append(out, Competency{Name: name})
	}
	return out
}

func inRange(rating float64) bool {
	return rating >= MinRating && rating <= MaxRating
}

func ratingReason() string {
	return fmt.Sprintf("must be between %d and %d", MinRating, MaxRating)
}
