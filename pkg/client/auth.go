package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"doctrack/store"
)

type AuthState struct {
	User            *store.User
	IsAuthenticated bool
	Loading         bool
}

// ProfileStorage keeps the signed-in user across restarts. Only the profile
// is stored, never the password.
type ProfileStorage interface {
	Load() (*store.User, error) // nil, nil when nothing is stored
	Save(user *store.User) error
	Clear() error
}

// FileProfileStorage stores the profile as JSON at Path.
type FileProfileStorage struct {
	Path string
}

// DefaultProfileStorage returns a FileProfileStorage under the user config
// directory.
func DefaultProfileStorage() (*FileProfileStorage, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locate config dir: %w", err)
	}
	return &FileProfileStorage{Path: filepath.Join(dir, "doctrack", "auth-storage.json")}, nil
}

type storedProfile struct {
	User *store.User `json:"user"`
}

func (f *FileProfileStorage) Load() (*store.User, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p storedProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return p.User, nil
}

func (f *FileProfileStorage) Save(user *store.User) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	data, err := json.MarshalIndent(storedProfile{User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f *FileProfileStorage) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove profile: %w", err)
	}
	return nil
}

// AuthStore tracks who is signed in. Logging out also clears the bound
// documents store.
type AuthStore struct {
	client   *Client
	storage  ProfileStorage
	docs     *DocumentsStore
	notifier Notifier

	mu    sync.RWMutex
	state AuthState
}

func NewAuthStore(c *Client, storage ProfileStorage, docs *DocumentsStore, n Notifier) *AuthStore {
	if n == nil {
		n = LogNotifier{}
	}
	return &AuthStore{
		client:   c,
		storage:  storage,
		docs:     docs,
		notifier: n,
		state:    AuthState{Loading: true},
	}
}

func (a *AuthStore) State() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	st := a.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Restore loads a persisted profile and marks the store ready.
func (a *AuthStore) Restore() error {
	var user *store.User
	var err error
	if a.storage != nil {
		user, err = a.storage.Load()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Loading = false
	if err != nil {
		return err
	}
	if user != nil {
		a.state.User = user
		a.state.IsAuthenticated = true
	}
	return nil
}

func (a *AuthStore) Login(ctx context.Context, username, password string) error {
	user, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.notifier.Error(errorMessage(err, "Login failed"))
		return err
	}
	a.signIn(user)
	a.notifier.Success(fmt.Sprintf("Welcome back, %s!", user.Username))
	return nil
}

func (a *AuthStore) Register(ctx context.Context, username, password string) error {
	user, err := a.client.Register(ctx, username, password)
	if err != nil {
		a.notifier.Error(errorMessage(err, "Registration failed"))
		return err
	}
	a.signIn(user)
	a.notifier.Success(fmt.Sprintf("Welcome, %s! Your account has been created.", user.Username))
	return nil
}

func (a *AuthStore) Logout() {
	if a.docs != nil {
		a.docs.Clear()
	}
	a.client.SetToken("")

	a.mu.Lock()
	a.state.User = nil
	a.state.IsAuthenticated = false
	a.mu.Unlock()

	a.persist(nil)
	a.notifier.Info("You have been logged out.")
}

func (a *AuthStore) signIn(user store.User) {
	a.mu.Lock()
	a.state.User = &user
	a.state.IsAuthenticated = true
	a.state.Loading = false
	a.mu.Unlock()

	a.persist(&user)
}

func (a *AuthStore) persist(user *store.User) {
	if a.storage == nil {
		return
	}
	var err error
	if user == nil {
		err = a.storage.Clear()
	} else {
		err = a.storage.Save(user)
	}
	if err != nil {
		a.notifier.Error("Could not save your session on this device")
	}
}
