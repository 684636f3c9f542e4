package feedback

import (
	"net/http"

	"doctrack/middleware"
	"doctrack/pkg/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/feedback", h.Submit)
	r.Get("/api/feedback", h.List)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, err)
		return
	}
	if err := middleware.CheckAsserted(r.Context(), req.UserID); err != nil {
		response.Error(w, err)
		return
	}

	fb, err := h.Service.Submit(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, fb)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID != "" {
		if err := middleware.CheckAsserted(r.Context(), userID); err != nil {
			response.Error(w, err)
			return
		}
	}

	items, err := h.Service.List(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, items)
}
