package service

import (
	"context"

	"doctrack/internal/document/model"
	"doctrack/internal/document/repository"
	"doctrack/pkg/apperror"
	"doctrack/pkg/metrics"
	"doctrack/socket"
	"doctrack/store"

	"github.com/google/uuid"
)

// Publisher receives a notice after every successful document write.
type Publisher interface {
	Publish(userID, documentID, action string)
}

type DocumentService struct {
	Repo    *repository.DocumentRepository
	Events  Publisher
	Metrics *metrics.Metrics
	NewID   func() string
}

func NewDocumentService(repo *repository.DocumentRepository, events Publisher, m *metrics.Metrics) *DocumentService {
	return &DocumentService{Repo: repo, Events: events, Metrics: m, NewID: uuid.NewString}
}

func (s *DocumentService) GetDocuments(ctx context.Context, userID string) ([]store.Document, error) {
	if userID == "" {
		return nil, apperror.Validation("userId is required")
	}
	return s.Repo.GetDocumentsByUser(ctx, userID)
}

func (s *DocumentService) CreateDocument(ctx context.Context, req model.DocumentRequest) (store.Document, error) {
	if err := req.Validate(); err != nil {
		return store.Document{}, err
	}
	doc, err := s.Repo.Create(ctx, req.Document(s.NewID()))
	if err != nil {
		return store.Document{}, err
	}
	s.changed(doc.UserID, doc.ID, socket.ActionCreated)
	return doc, nil
}

// UpdateDocument overwrites docID. The stored owner must match req.UserID.
func (s *DocumentService) UpdateDocument(ctx context.Context, docID string, req model.DocumentRequest) (store.Document, error) {
	if docID == "" {
		return store.Document{}, apperror.Validation("Invalid ID")
	}
	if err := req.Validate(); err != nil {
		return store.Document{}, err
	}
	if err := s.checkOwner(ctx, docID, req.UserID); err != nil {
		return store.Document{}, err
	}

	doc := req.Document(docID)
	if err := s.Repo.Save(ctx, doc); err != nil {
		return store.Document{}, err
	}
	s.changed(doc.UserID, doc.ID, socket.ActionUpdated)
	return doc, nil
}

func (s *DocumentService) DeleteDocument(ctx context.Context, docID, userID string) (model.DeleteDocResponse, error) {
	if docID == "" {
		return model.DeleteDocResponse{}, apperror.Validation("Invalid ID")
	}
	if userID == "" {
		return model.DeleteDocResponse{}, apperror.Validation("userId is required")
	}
	if err := s.checkOwner(ctx, docID, userID); err != nil {
		return model.DeleteDocResponse{}, err
	}

	deleted, err := s.Repo.Delete(ctx, docID)
	if err != nil {
		return model.DeleteDocResponse{}, err
	}
	if !deleted {
		return model.DeleteDocResponse{}, apperror.NotFound("Document not found")
	}
	s.changed(userID, docID, socket.ActionDeleted)
	return model.DeleteDocResponse{ID: docID, Deleted: true}, nil
}

func (s *DocumentService) checkOwner(ctx context.Context, docID, userID string) error {
	existing, err := s.Repo.Get(ctx, docID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return apperror.Forbidden("Unauthorized")
	}
	return nil
}

func (s *DocumentService) changed(userID, docID, action string) {
	if s.Metrics != nil {
		s.Metrics.DocumentsSaved.WithLabelValues(action).Inc()
	}
	if s.Events != nil {
		s.Events.Publish(userID, docID, action)
	}
}
