package authhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/users"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Users *users.Service
}

func NewHandler(service *users.Service) *Handler {
	return &Handler{Users: service}
}

type registerRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=320"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	Role       string `json:"role"`
	Department string `json:"department" validate:"max=200"`
	ManagerID  string `json:"managerId"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name           string `json:"name" validate:"max=200"`
	Department     string `json:"department" validate:"max=200"`
	ProfilePicture string `json:"profilePicture" validate:"max=1024"`
	Password       string `json:"password" validate:"omitempty,min=6,max=72"`
}

type pictureRequest struct {
	ContentType string `json:"contentType" validate:"required"`
}

// RegisterRoutes mounts the routes that require an authenticated actor.
// Register and login are mounted on the public group by the server.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/auth/me", h.handleMe)
	r.Put("/auth/profile", h.handleUpdateProfile)
	r.Post("/auth/profile/picture-upload", h.handlePictureUpload)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}

	session, err := h.Users.Register(r.Context(), users.RegisterInput{
		Name:       payload.Name,
		Email:      payload.Email,
		Password:   payload.Password,
		Role:       payload.Role,
		Department: payload.Department,
		ManagerID:  payload.ManagerID,
	})
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.Created(w, r, session)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}

	session, err := h.Users.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, session)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	user, err := h.Users.Get(r.Context(), actor.ID)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, user)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload profileRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), actor, users.ProfileInput{
		Name:           payload.Name,
		Department:     payload.Department,
		ProfilePicture: payload.ProfilePicture,
		Password:       payload.Password,
	})
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.OK(w, r, user)
}

func (h *Handler) handlePictureUpload(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Actor(w, r)
	if !ok {
		return
	}
	var payload pictureRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.Fail(w, r, err)
		return
	}

	upload, err := h.Users.PictureUpload(r.Context(), actor, payload.ContentType)
	if err != nil {
		shared.Fail(w, r, err)
		return
	}
	shared.Created(w, r, upload)
}
