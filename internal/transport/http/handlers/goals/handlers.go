package goalshandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/goals"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Service *goals.Service
}

func NewHandler(service *goals.Service) *Handler {
	return &Handler{Service: service}
}

type createRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=5000"`
	SuccessCriteria string `json:"successCriteria" validate:"max=5000"`
	DueDate         string `json:"dueDate" validate:"required"`
	Status          string `json:"status"`
}

type updateRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=5000"`
	SuccessCriteria *string `json:"successCriteria" validate:"omitempty,max=5000"`
	DueDate         *string `json:"dueDate"`
	Status          *string `json:"status"`
}

type reviewRequest struct {
	Status            string `json:"status" validate:"required"`
	AchievementRating *int   `json:"achievementRating" validate:"omitempty,gte=1,lte=5"`
	ManagerFeedback   string `json:"managerFeedback" validate:"max=5000"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{goalID}", h.handleGet)
		r.Put("/{goalID}", h.handleUpdate)
		r.Delete("/{goalID}", h.handleDelete)
		r.With(middleware.RequireAction(auth.ActionGoalReview)).Put("/{goalID}/review", h.handleReview)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload createRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}

	v := shared.NewValidator()
	due, _ := v.Date("dueDate", payload.DueDate)
	v.Enum("status", payload.Status, goals.Statuses)
	if err := v.Err(); err != nil {
		shared.Fail(w, r, err)
		return
	}

	goal, err := h.Service.Create(r.Context(), actor, goals.CreateInput{
		Title:           payload.Title,
		Description:     payload.Description,
		SuccessCriteria: payload.SuccessCriteria,
		DueDate:         due,
		Status:          payload.Status,
	})
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.Created(w, r, goal)
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

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	goal, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "goalID"))
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, goal)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload updateRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}

	v := shared.NewValidator()
	changes := goals.Changes{
		Title:           payload.Title,
		Description:     payload.Description,
		SuccessCriteria: payload.SuccessCriteria,
		Status:          payload.Status,
	}
	if payload.DueDate != nil {
		if strings.TrimSpace(*payload.DueDate) == "" {
			v.Add("dueDate", "must not be empty")
		} else if due, ok := v.Date("dueDate", *payload.DueDate); ok {
			changes.DueDate = &due
		}
	}
	if payload.Status != nil {
		v.Enum("status", *payload.Status, goals.Statuses)
	}
	if err := v.Err(); err != nil {
		shared.Fail(w, r, err)
		return
	}

	goal, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "goalID"), changes)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, goal)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "goalID")
	if err := h.Service.Delete(r.Context(), actor, goalID); err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, map[string]string{"id": goalID, "status": "deleted"})
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload reviewRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}

	goal, err := h.Service.Review(r.Context(), actor, chi.URLParam(r, "goalID"), goals.ReviewInput{
		Status:            payload.Status,
		AchievementRating: payload.AchievementRating,
		ManagerFeedback:   payload.ManagerFeedback,
	})
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, goal)
}
