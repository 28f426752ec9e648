package identity

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/djshizzle/DJRequest-App/internal/apperr"
	"github.com/djshizzle/DJRequest-App/internal/storage"
)

// Store owns the current user and the device's attendee/DJ mode.
type Store struct {
	mu    sync.Mutex
	state document
	saver storage.Saver
}

func NewStore(saver storage.Saver) *Store {
	return &Store{saver: saver}
}

// Init loads the persisted session; an absent document means a fresh
// install (no user, attendee mode).
func (s *Store) Init(ctx context.Context, backend storage.Backend) error {
	data, err := backend.Load(ctx, DocumentName)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Unmarshal(data, &s.state)
}

func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.state)
}

func (s *Store) persist() {
	if s.saver != nil {
		s.saver.MarkDirty(DocumentName)
	}
}

// CreateAnonymousUser logs in with a display name only. Names are not
// unique; the generated id is.
func (s *Store) CreateAnonymousUser(name string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, apperr.Validationf("name is required")
	}
	u := User{
		ID:          uuid.NewString(),
		Name:        name,
		IsAnonymous: true,
		IsDj:        false,
	}
	s.mu.Lock()
	s.state.CurrentUser = &u
	s.mu.Unlock()
	s.persist()
	return u, nil
}

// SetUser replaces the current user wholesale.
func (s *Store) SetUser(u User) {
	s.mu.Lock()
	s.state.CurrentUser = &u
	s.mu.Unlock()
	s.persist()
}

// ToggleDjMode flips the device mode and mirrors it onto the logged-in
// user's IsDj flag. Returns the new mode.
func (s *Store) ToggleDjMode() bool {
	s.mu.Lock()
	s.state.IsDjMode = !s.state.IsDjMode
	if s.state.CurrentUser != nil {
		s.state.CurrentUser.IsDj = s.state.IsDjMode
	}
	mode := s.state.IsDjMode
	s.mu.Unlock()
	s.persist()
	return mode
}

// Logout clears the user but keeps the device mode.
func (s *Store) Logout() {
	s.mu.Lock()
	s.state.CurrentUser = nil
	s.mu.Unlock()
	s.persist()
}

func (s *Store) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentUser == nil {
		return User{}, false
	}
	return *s.state.CurrentUser, true
}

func (s *Store) DjMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsDjMode
}
