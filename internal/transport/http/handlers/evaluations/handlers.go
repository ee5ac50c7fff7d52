package evaluationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/evaluations"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Service *evaluations.Service
}

func NewHandler(service *evaluations.Service) *Handler {
	return &Handler{Service: service}
}

type selfAssessmentRequest struct {
	ReviewPeriod string                   `json:"reviewPeriod" validate:"required,max=100"`
	Competencies []evaluations.Competency `json:"competencies"`
	SelfFeedback string                   `json:"selfFeedback" validate:"max=10000"`
}

// managerReviewRequest keeps ratings loosely typed; the service coerces them
// and validates fields only after the target check.
type managerReviewRequest struct {
	UserID          string           `json:"userId"`
	ReviewPeriod    string           `json:"reviewPeriod"`
	Competencies    []map[string]any `json:"competencies"`
	ManagerFeedback string           `json:"managerFeedback"`
	OverallScore    any              `json:"overallScore"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluations", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/competencies", h.handleCompetencies)
		r.Post("/self-assessment", h.handleSelfAssessment)
		r.With(middleware.RequireAction(auth.ActionEvaluationManager)).Post("/manager-review", h.handleManagerReview)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	items, err := h.Service.List(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, items)
}

func (h *Handler) handleCompetencies(w http.ResponseWriter, r *http.Request) {
	shared.OK(w, r, h.Service.Competencies())
}

func (h *Handler) handleSelfAssessment(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload selfAssessmentRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}

	evaluation, err := h.Service.SelfAssessment(r.Context(), actor, evaluations.SelfInput{
		ReviewPeriod: payload.ReviewPeriod,
		Competencies: payload.Competencies,
		SelfFeedback: payload.SelfFeedback,
	})
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.Created(w, r, evaluation)
}

func (h *Handler) handleManagerReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload managerReviewRequest
	if err := shared.Decode(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}
	evaluation, err := h.Service.ManagerReview(r.Context(), actor, payload.input(payload.UserID))
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.Created(w, r, evaluation)
}

func (p managerReviewRequest) input(subjectID string) evaluations.ManagerInput {
	return evaluations.ManagerInput{
		UserID:          subjectID,
		ReviewPeriod:    p.ReviewPeriod,
		Competencies:    p.Competencies,
		ManagerFeedback: p.ManagerFeedback,
		OverallScore:    p.OverallScore,
	}
}

// HandleTeamEvaluation records a manager review for the {userID} path
// parameter through the same ownership checks as /manager-review.
func (h *Handler) HandleTeamEvaluation(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload managerReviewRequest
	if err := shared.Decode(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}
	evaluation, err := h.Service.ManagerReview(r.Context(), actor, payload.input(chi.URLParam(r, "userID")))
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.Created(w, r, evaluation)
}

// HandleTeamList lists evaluations of the actor's direct reports.
func (h *Handler) HandleTeamList(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	items, err := h.Service.Team(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, items)
}
