package dashboardhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/reports"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Reports *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Reports: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/employee", h.handleEmployee)
		r.With(middleware.RequireAction(auth.ActionDashboardManager)).Get("/manager", h.handleManager)
		r.With(middleware.RequireAction(auth.ActionDashboardAdmin)).Get("/admin", h.handleAdmin)
	})
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	view, err := h.Reports.EmployeeDashboard(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, view)
}

func (h *Handler) handleManager(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	view, err := h.Reports.ManagerDashboard(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, view)
}

func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	view, err := h.Reports.AdminDashboard(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, view)
}
