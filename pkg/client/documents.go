package client

import (
	"context"
	"slices"
	"sync"
	"time"

	"doctrack/internal/status"
	"doctrack/store"
)

type DocumentsState struct {
	Documents []store.Document // ascending by end date
	Loading   bool
	Err       string
}

// DocumentsStore holds the signed-in user's documents. Subscribers are called
// with a copy of the state after every change.
type DocumentsStore struct {
	client   *Client
	notifier Notifier

	mu     sync.Mutex
	state  DocumentsState
	subs   map[int]func(DocumentsState)
	nextID int
}

func NewDocumentsStore(c *Client, n Notifier) *DocumentsStore {
	if n == nil {
		n = LogNotifier{}
	}
	return &DocumentsStore{
		client:   c,
		notifier: n,
		state:    DocumentsState{Loading: true},
		subs:     make(map[int]func(DocumentsState)),
	}
}

func (s *DocumentsStore) State() DocumentsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn and returns a function that removes it.
func (s *DocumentsStore) Subscribe(fn func(DocumentsState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Fetch replaces the list with the server's copy. An empty userID clears it.
func (s *DocumentsStore) Fetch(ctx context.Context, userID string) error {
	if userID == "" {
		s.set(func(st *DocumentsState) { *st = DocumentsState{} })
		return nil
	}
	s.set(func(st *DocumentsState) {
		st.Loading = true
		st.Err = ""
	})

	docs, err := s.client.Documents(ctx, userID)
	if err != nil {
		msg := errorMessage(err, "Failed to fetch documents")
		s.set(func(st *DocumentsState) {
			st.Err = msg
			st.Loading = false
		})
		s.notifier.Error(msg)
		return err
	}

	status.SortByEndDate(docs)
	s.set(func(st *DocumentsState) {
		st.Documents = docs
		st.Loading = false
	})
	return nil
}

func (s *DocumentsStore) Add(ctx context.Context, in DocumentInput) (store.Document, error) {
	doc, err := s.client.CreateDocument(ctx, in)
	if err != nil {
		s.notifier.Error(errorMessage(err, "Failed to add document"))
		return store.Document{}, err
	}

	s.set(func(st *DocumentsState) {
		st.Documents = append(slices.Clone(st.Documents), doc)
		status.SortByEndDate(st.Documents)
	})
	s.notifier.Success("Document added successfully!")
	return doc, nil
}

func (s *DocumentsStore) Update(ctx context.Context, id string, in DocumentInput) (store.Document, error) {
	doc, err := s.client.UpdateDocument(ctx, id, in)
	if err != nil {
		s.notifier.Error(errorMessage(err, "Failed to update document"))
		return store.Document{}, err
	}

	s.set(func(st *DocumentsState) {
		docs := slices.Clone(st.Documents)
		for i := range docs {
			if docs[i].ID == id {
				docs[i] = doc
			}
		}
		status.SortByEndDate(docs)
		st.Documents = docs
	})
	s.notifier.Success("Document updated successfully!")
	return doc, nil
}

// Delete removes the document locally before calling the server and puts the
// previous list back if the call fails.
func (s *DocumentsStore) Delete(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	original := s.state.Documents
	s.mu.Unlock()

	s.set(func(st *DocumentsState) {
		st.Documents = slices.DeleteFunc(slices.Clone(st.Documents), func(d store.Document) bool {
			return d.ID == id
		})
	})

	if err := s.client.DeleteDocument(ctx, id, userID); err != nil {
		s.notifier.Error(errorMessage(err, "Failed to delete document"))
		s.set(func(st *DocumentsState) { st.Documents = original })
		return err
	}
	s.notifier.Success("Document deleted.")
	return nil
}

func (s *DocumentsStore) Clear() {
	s.set(func(st *DocumentsState) { *st = DocumentsState{} })
}

// Expiring returns the documents in the danger band at now.
func (s *DocumentsStore) Expiring(now time.Time) []store.Document {
	return status.Expiring(s.State().Documents, now)
}

// Grouped returns the documents by personnel name plus the sorted names.
func (s *DocumentsStore) Grouped() (map[string][]store.Document, []string) {
	return status.GroupBy(s.State().Documents, func(d store.Document) string { return d.PersonelName })
}

func (s *DocumentsStore) set(mutate func(*DocumentsState)) {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.snapshot()
	subs := make([]func(DocumentsState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *DocumentsStore) snapshot() DocumentsState {
	st := s.state
	st.Documents = slices.Clone(st.Documents)
	return st
}
