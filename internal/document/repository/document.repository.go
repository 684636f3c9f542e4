package repository

import (
	"context"
	"errors"

	"doctrack/pkg/apperror"
	"doctrack/pkg/logger"
	"doctrack/store"
)

type DocumentRepository struct {
	Docs *store.Entity[store.Document]
}

func NewDocumentRepository(docs *store.Entity[store.Document]) *DocumentRepository {
	return &DocumentRepository{Docs: docs}
}

func (r *DocumentRepository) Create(ctx context.Context, doc store.Document) (store.Document, error) {
	created, err := r.Docs.Create(ctx, doc)
	if errors.Is(err, store.ErrConflict) {
		return created, apperror.Conflict("Document already exists")
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to create document: %v", err)
		return created, apperror.Internal(err)
	}
	return created, nil
}

// Get returns the document or a NotFound error.
func (r *DocumentRepository) Get(ctx context.Context, docID string) (store.Document, error) {
	doc, err := r.Docs.Get(ctx, docID)
	if errors.Is(err, store.ErrNotFound) {
		return doc, apperror.NotFound("Document not found")
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get doc %s: %v", docID, err)
		return doc, apperror.Internal(err)
	}
	return doc, nil
}

// GetDocumentsByUser scans every document and keeps the ones owned by
// userID, in index order.
func (r *DocumentRepository) GetDocumentsByUser(ctx context.Context, userID string) ([]store.Document, error) {
	all, err := r.Docs.List(ctx)
	if err != nil {
		logger.Sugar.Errorf("Failed to list documents for user %s: %v", userID, err)
		return nil, apperror.Internal(err)
	}
	docs := make([]store.Document, 0, len(all))
	for _, doc := range all {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (r *DocumentRepository) Save(ctx context.Context, doc store.Document) error {
	err := r.Docs.Save(ctx, doc.ID, doc)
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound("Document not found")
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to save doc %s: %v", doc.ID, err)
		return apperror.Internal(err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, docID string) (bool, error) {
	deleted, err := r.Docs.Delete(ctx, docID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete doc %s: %v", docID, err)
		return deleted, apperror.Internal(err)
	}
	return deleted, nil
}
