package client

import (
	"context"
	"sync"

	"doctrack/store"
)

type FeedbackState struct {
	Feedback []store.Feedback
	Loading  bool
	Err      string
}

type FeedbackStore struct {
	client   *Client
	notifier Notifier

	mu    sync.RWMutex
	state FeedbackState
}

func NewFeedbackStore(c *Client, n Notifier) *FeedbackStore {
	if n == nil {
		n = LogNotifier{}
	}
	return &FeedbackStore{client: c, notifier: n, state: FeedbackState{Loading: true}}
}

func (s *FeedbackStore) State() FeedbackState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Fetch loads every entry for an admin. On failure the list is emptied.
func (s *FeedbackStore) Fetch(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Err = ""
	s.mu.Unlock()

	items, err := s.client.Feedback(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	if err != nil {
		s.state.Err = errorMessage(err, "Failed to fetch feedback")
		s.state.Feedback = nil
		s.notifier.Error(s.state.Err)
		return err
	}
	s.state.Feedback = items
	return nil
}

func (s *FeedbackStore) Submit(ctx context.Context, in FeedbackInput) (store.Feedback, error) {
	fb, err := s.client.SubmitFeedback(ctx, in)
	if err != nil {
		s.notifier.Error(errorMessage(err, "Failed to submit feedback"))
		return store.Feedback{}, err
	}
	s.notifier.Success("Thank you for your feedback!")
	return fb, nil
}
