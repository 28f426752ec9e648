package queue

import (
	"time"

	"github.com/djshizzle/DJRequest-App/internal/catalog"
)

// Status is the request lifecycle state. Transitions are monotonic:
// pending -> approved | rejected, approved -> played; rejected and played
// are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPlayed   Status = "played"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPlayed:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPlayed},
}

// CanTransitionTo reports whether the state machine allows moving from s to
// next. A status never transitions to itself.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SongRequest is append-only apart from Status: songId, userId, userName,
// tipAmount, message and requestedAt are fixed at creation.
type SongRequest struct {
	ID          string    `json:"id"`
	SongID      string    `json:"songId"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	RequestedAt time.Time `json:"requestedAt"`
	Status      Status    `json:"status"`
	TipAmount   float64   `json:"tipAmount"`
	Message     string    `json:"message,omitempty"`
}

// NewRequest carries the caller-supplied fields of a submission.
type NewRequest struct {
	SongID    string
	UserID    string
	UserName  string
	TipAmount float64
	Message   string
}

// SongLookup resolves a song id for the read views without the queue
// reaching into the catalog. Requests may reference a since-deleted song,
// so the lookup reporting false is a normal outcome.
type SongLookup func(id string) (catalog.Song, bool)

// Detail is a request with its song resolved; Song is nil when the song no
// longer exists.
type Detail struct {
	SongRequest
	Song *catalog.Song `json:"song,omitempty"`
}

const DocumentName = "request-storage"

type document struct {
	Requests []SongRequest `json:"requests"`
}
