package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/djshizzle/DJRequest-App/internal/apperr"
	"github.com/djshizzle/DJRequest-App/internal/storage"
)

// Store owns every request ever submitted. Growth is append-only; the only
// in-place mutation is the status field, and RemoveRequest is the one
// explicit delete path.
type Store struct {
	mu       sync.Mutex
	requests []SongRequest
	saver    storage.Saver
	now      func() time.Time
}

func NewStore(saver storage.Saver) *Store {
	return &Store{saver: saver, now: time.Now}
}

func (s *Store) Init(ctx context.Context, backend storage.Backend) error {
	data, err := backend.Load(ctx, DocumentName)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.mu.Lock()
	s.requests = doc.Requests
	s.mu.Unlock()
	return nil
}

func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(document{Requests: s.requests})
}

func (s *Store) persist() {
	if s.saver != nil {
		s.saver.MarkDirty(DocumentName)
	}
}

// AddRequest appends a pending request stamped with the current time.
// Minimum-tip and accepting-requests checks belong to the caller; the
// store always accepts.
func (s *Store) AddRequest(in NewRequest) SongRequest {
	req := SongRequest{
		ID:          uuid.NewString(),
		SongID:      in.SongID,
		UserID:      in.UserID,
		UserName:    in.UserName,
		RequestedAt: s.now(),
		Status:      StatusPending,
		TipAmount:   in.TipAmount,
		Message:     in.Message,
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	s.persist()
	return req
}

// UpdateRequestStatus moves a request through the lifecycle state machine.
// Unknown statuses are a validation error, disallowed moves an
// InvalidTransitionError, and in both cases the request is untouched.
func (s *Store) UpdateRequestStatus(id string, status Status) (SongRequest, error) {
	if !status.Valid() {
		return SongRequest{}, apperr.Validationf("unknown status %q", string(status))
	}
	s.mu.Lock()
	for i := range s.requests {
		if s.requests[i].ID != id {
			continue
		}
		if !s.requests[i].Status.CanTransitionTo(status) {
			err := &apperr.InvalidTransitionError{
				From: string(s.requests[i].Status),
				To:   string(status),
			}
			s.mu.Unlock()
			return SongRequest{}, err
		}
		s.requests[i].Status = status
		out := s.requests[i]
		s.mu.Unlock()
		s.persist()
		return out, nil
	}
	s.mu.Unlock()
	return SongRequest{}, apperr.NotFound("request", id)
}

// RemoveRequest hard-deletes. Rarely used, but part of the contract.
func (s *Store) RemoveRequest(id string) error {
	s.mu.Lock()
	for i := range s.requests {
		if s.requests[i].ID == id {
			s.requests = append(s.requests[:i], s.requests[i+1:]...)
			s.mu.Unlock()
			s.persist()
			return nil
		}
	}
	s.mu.Unlock()
	return apperr.NotFound("request", id)
}

func (s *Store) RequestByID(id string) (SongRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if req.ID == id {
			return req, true
		}
	}
	return SongRequest{}, false
}

// Detail resolves the request's song through the lookup capability. A
// missing song is tolerated: the detail simply carries no song.
func (s *Store) Detail(id string, lookup SongLookup) (Detail, error) {
	req, ok := s.RequestByID(id)
	if !ok {
		return Detail{}, apperr.NotFound("request", id)
	}
	d := Detail{SongRequest: req}
	if lookup != nil {
		if song, ok := lookup(req.SongID); ok {
			d.Song = &song
		}
	}
	return d, nil
}

// Requests returns the full queue in submission order.
func (s *Store) Requests() []SongRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SongRequest(nil), s.requests...)
}

// RequestsByStatus keeps submission order; the DJ triages oldest first, no
// re-sorting by tip.
func (s *Store) RequestsByStatus(status Status) []SongRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []SongRequest{}
	for _, req := range s.requests {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out
}

func (s *Store) PendingRequests() []SongRequest  { return s.RequestsByStatus(StatusPending) }
func (s *Store) ApprovedRequests() []SongRequest { return s.RequestsByStatus(StatusApproved) }
func (s *Store) RejectedRequests() []SongRequest { return s.RequestsByStatus(StatusRejected) }
func (s *Store) PlayedRequests() []SongRequest   { return s.RequestsByStatus(StatusPlayed) }

// RequestsByUser is the attendee view: their own history across all
// statuses.
func (s *Store) RequestsByUser(userID string) []SongRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []SongRequest{}
	for _, req := range s.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out
}
