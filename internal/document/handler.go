package handler

import (
	"net/http"

	"doctrack/internal/document/model"
	"doctrack/internal/document/service"
	"doctrack/middleware"
	"doctrack/pkg/response"

	"github.com/go-chi/chi/v5"
)

type DocumentHandler struct {
	Service *service.DocumentService
}

func NewDocumentHandler(service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

func (h *DocumentHandler) Register(r chi.Router) {
	r.Get("/api/documents", h.GetDocuments)
	r.Post("/api/documents", h.CreateDocument)
	r.Put("/api/documents/{id}", h.UpdateDocument)
	r.Delete("/api/documents/{id}", h.DeleteDocument)
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID != "" {
		if err := middleware.CheckAsserted(r.Context(), userID); err != nil {
			response.Error(w, err)
			return
		}
	}

	docs, err := h.Service.GetDocuments(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, docs)
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req model.DocumentRequest
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

	doc, err := h.Service.CreateDocument(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, doc)
}

func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	var req model.DocumentRequest
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

	doc, err := h.Service.UpdateDocument(r.Context(), docID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, doc)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	var req model.DeleteDocRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.UserID != "" {
		if err := middleware.CheckAsserted(r.Context(), req.UserID); err != nil {
			response.Error(w, err)
			return
		}
	}

	resp, err := h.Service.DeleteDocument(r.Context(), docID, req.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, resp)
}
