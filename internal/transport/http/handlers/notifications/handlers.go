package notificationshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/notifications"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Put("/read-all", h.handleMarkAllRead)
		r.Put("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}

	page, err := shared.ParsePage(r, shared.PageParams{DefaultLimit: h.Service.DefaultLimit, MaxLimit: notifications.MaxListLimit})
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	result, err := h.Service.List(r.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}

	w.Header().Set("X-Unread-Count", strconv.Itoa(result.Unread))
	shared.OK(w, r, result)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}

	notificationID := chi.URLParam(r, "notificationID")
	if err := h.Service.MarkRead(r.Context(), actor, notificationID); err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, map[string]string{"id": notificationID, "status": "read"})
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}

	updated, err := h.Service.MarkAllRead(r.Context(), actor)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, map[string]int{"updated": updated})
}
