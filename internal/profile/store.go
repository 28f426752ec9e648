package profile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/djshizzle/DJRequest-App/internal/storage"
)

// Store owns the singleton DJ profile. It accepts whatever values it is
// given; parsing and flooring of minTipAmount is the caller's job.
type Store struct {
	mu      sync.Mutex
	profile DjProfile
	saver   storage.Saver
}

func NewStore(saver storage.Saver) *Store {
	return &Store{profile: defaultProfile(), saver: saver}
}

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
	return json.Unmarshal(data, &s.profile)
}

func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.profile)
}

func (s *Store) persist() {
	if s.saver != nil {
		s.saver.MarkDirty(DocumentName)
	}
}

// UpdateProfile merges the given fields into the profile. Payment handles
// merge individually too, so updating one handle keeps the others.
func (s *Store) UpdateProfile(upd Update) DjProfile {
	s.mu.Lock()
	if upd.Name != nil {
		s.profile.Name = *upd.Name
	}
	if upd.Bio != nil {
		s.profile.Bio = *upd.Bio
	}
	if upd.PaymentInfo != nil {
		if s.profile.PaymentInfo == nil {
			s.profile.PaymentInfo = &PaymentInfo{}
		}
		if upd.PaymentInfo.Venmo != nil {
			s.profile.PaymentInfo.Venmo = *upd.PaymentInfo.Venmo
		}
		if upd.PaymentInfo.Cashapp != nil {
			s.profile.PaymentInfo.Cashapp = *upd.PaymentInfo.Cashapp
		}
		if upd.PaymentInfo.Paypal != nil {
			s.profile.PaymentInfo.Paypal = *upd.PaymentInfo.Paypal
		}
	}
	if upd.AcceptingRequests != nil {
		s.profile.AcceptingRequests = *upd.AcceptingRequests
	}
	if upd.MinTipAmount != nil {
		s.profile.MinTipAmount = *upd.MinTipAmount
	}
	out := s.cloneLocked()
	s.mu.Unlock()
	s.persist()
	return out
}

// ToggleAcceptingRequests is the DJ's queue open/closed switch. Returns the
// new value.
func (s *Store) ToggleAcceptingRequests() bool {
	s.mu.Lock()
	s.profile.AcceptingRequests = !s.profile.AcceptingRequests
	open := s.profile.AcceptingRequests
	s.mu.Unlock()
	s.persist()
	return open
}

func (s *Store) Profile() DjProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneLocked()
}

func (s *Store) AcceptingRequests() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.AcceptingRequests
}

func (s *Store) MinTipAmount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.MinTipAmount
}

func (s *Store) cloneLocked() DjProfile {
	out := s.profile
	if s.profile.PaymentInfo != nil {
		pi := *s.profile.PaymentInfo
		out.PaymentInfo = &pi
	}
	return out
}
