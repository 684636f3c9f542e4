// Package feedback stores user comments about the app. Only admins read them.
package feedback

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"doctrack/pkg/apperror"
	"doctrack/pkg/metrics"
	"doctrack/store"

	"github.com/google/uuid"
)

const (
	minCommentLength = 10
	maxCommentLength = 500
)

type SubmitRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Comment  string `json:"comment"`
}

func (r SubmitRequest) Validate() error {
	switch n := utf8.RuneCountInString(r.Comment); {
	case strings.TrimSpace(r.UserID) == "":
		return apperror.Validation("User ID is required")
	case strings.TrimSpace(r.Username) == "":
		return apperror.Validation("Username is required")
	case n < minCommentLength:
		return apperror.Validation("Comment must be at least 10 characters")
	case n > maxCommentLength:
		return apperror.Validation("Comment must be at most 500 characters")
	}
	return nil
}

type Service struct {
	Feedback *store.Entity[store.Feedback]
	Users    *store.Entity[store.User]
	Metrics  *metrics.Metrics
	NewID    func() string
	Now      func() time.Time
}

func NewService(feedback *store.Entity[store.Feedback], users *store.Entity[store.User], m *metrics.Metrics) *Service {
	return &Service{
		Feedback: feedback,
		Users:    users,
		Metrics:  m,
		NewID:    uuid.NewString,
		Now:      time.Now,
	}
}

// Submit stores a new entry. The id and timestamp are assigned here.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (store.Feedback, error) {
	if err := req.Validate(); err != nil {
		return store.Feedback{}, err
	}

	fb := store.Feedback{
		ID:        s.NewID(),
		UserID:    req.UserID,
		Username:  req.Username,
		Comment:   req.Comment,
		Timestamp: s.Now().UnixMilli(),
	}
	created, err := s.Feedback.Create(ctx, fb)
	if err != nil {
		return store.Feedback{}, apperror.Internal(err)
	}
	if s.Metrics != nil {
		s.Metrics.FeedbackCreated.Inc()
	}
	return created, nil
}

// List returns every entry, newest first. userID must name an admin.
func (s *Service) List(ctx context.Context, userID string) ([]store.Feedback, error) {
	if userID == "" {
		return nil, apperror.Validation("userId is required")
	}

	user, err := s.Users.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Forbidden("Unauthorized")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !user.IsAdmin {
		return nil, apperror.Forbidden("Unauthorized")
	}

	items, err := s.Feedback.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	slices.SortStableFunc(items, func(a, b store.Feedback) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return 0
	})
	return items, nil
}
