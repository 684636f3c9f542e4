package auth

import (
	"context"
	"net/http"

	"doctrack/pkg/response"
	"doctrack/store"

	"github.com/go-chi/chi/v5"
)

// SessionHeader carries the session token on register and login responses.
const SessionHeader = "X-Session-Token"

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/register", h.SignUp)
	r.Post("/api/auth/login", h.SignIn)
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, h.Service.Register)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, h.Service.Login)
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, fn func(context.Context, Credentials) (store.User, error)) {
	var creds Credentials
	if err := response.Decode(r, &creds); err != nil {
		response.Error(w, err)
		return
	}

	user, err := fn(r.Context(), creds)
	if err != nil {
		response.Error(w, err)
		return
	}

	token, err := h.Service.Token(user)
	if err != nil {
		response.Error(w, err)
		return
	}
	if token != "" {
		w.Header().Set(SessionHeader, token)
	}
	response.OK(w, user)
}
