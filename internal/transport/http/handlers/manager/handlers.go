package managerhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/users"
	evaluationshandler "appraisal/internal/transport/http/handlers/evaluations"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

// Handler serves the team routes reserved for Managers.
type Handler struct {
	Users       *users.Service
	Evaluations *evaluationshandler.Handler
}

func NewHandler(usersService *users.Service, evaluations *evaluationshandler.Handler) *Handler {
	return &Handler{Users: usersService, Evaluations: evaluations}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/manager", func(r chi.Router) {
		r.Use(middleware.RequireAction(auth.ActionTeamRead))
		r.Get("/team", h.handleTeam)
		r.Get("/team/evaluations", h.Evaluations.HandleTeamList)
		r.Post("/team/{userID}/evaluation", h.Evaluations.HandleTeamEvaluation)
	})
}

func (h *Handler) handleTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	team, err := h.Users.DirectReports(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, team)
}
