package adminhandler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/reports"
	"appraisal/internal/domain/users"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Users   *users.Service
	Reports *reports.Service
}

func NewHandler(usersService *users.Service, reportsService *reports.Service) *Handler {
	return &Handler{Users: usersService, Reports: reportsService}
}

// roleRequest keeps managerId raw so an absent field (keep) can be told
// apart from null or "" (clear).
type roleRequest struct {
	Role      string          `json:"role"`
	ManagerID json.RawMessage `json:"managerId"`
}

func (p roleRequest) managerID() (*string, error) {
	if len(p.ManagerID) == 0 {
		return nil, nil
	}
	cleared := ""
	if bytes.Equal(bytes.TrimSpace(p.ManagerID), []byte("null")) {
		return &cleared, nil
	}
	var id string
	if err := json.Unmarshal(p.ManagerID, &id); err != nil {
		return nil, apperror.Validation(apperror.Field("managerId", "must be a string or null"))
	}
	return &id, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAction(auth.ActionUsersManage))
		r.Get("/users", h.handleListUsers)
		r.Put("/users/{userID}/role", h.handleUpdateRole)
		r.Delete("/users/{userID}", h.handleDeleteUser)
		r.Get("/stats", h.handleStats)
	})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	items, err := h.Users.List(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, items)
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload roleRequest
	if err := shared.Decode(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}

	managerID, err := payload.managerID()
	if err != nil {
		shared.Fail(w, r, err)
		return
	}

	user, err := h.Users.UpdateRole(r.Context(), actor, chi.URLParam(r, "userID"), users.AssignmentInput{
		Role:      payload.Role,
		ManagerID: managerID,
	})
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, user)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "userID")
	if err := h.Users.Delete(r.Context(), actor, userID); err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, map[string]string{"id": userID, "status": "deleted"})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	stats, err := h.Reports.Stats(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, stats)
}
