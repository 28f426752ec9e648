package queue

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/djshizzle/DJRequest-App/internal/catalog"
	"github.com/djshizzle/DJRequest-App/internal/events"
	"github.com/djshizzle/DJRequest-App/internal/httputil"
	"github.com/djshizzle/DJRequest-App/internal/identity"
	"github.com/djshizzle/DJRequest-App/internal/profile"
)

// Server is the presentation boundary of the queue. The collaborator
// contract lives here: accepting-requests, minimum tip and the
// current-playlist precondition are checked before AddRequest, and DJ-only
// mutations are gated on the device mode. The store itself enforces none
// of that.
type Server struct {
	store   *Store
	session *identity.Store
	policy  *profile.Store
	catalog *catalog.Store
	lookup  SongLookup
	pub     events.Publisher
}

func NewServer(store *Store, session *identity.Store, policy *profile.Store, cat *catalog.Store, pub events.Publisher) *Server {
	return &Server{
		store:   store,
		session: session,
		policy:  policy,
		catalog: cat,
		lookup:  cat.LookupSong,
		pub:     pub,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Mounted under /requests.
	r.Post("/", s.handleAddRequest)
	r.Get("/", s.handleListRequests)
	r.Get("/mine", s.handleMyRequests)
	r.Get("/{id}", s.handleGetRequest)
	r.Patch("/{id}/status", s.handleUpdateStatus)
	r.Delete("/{id}", s.handleRemoveRequest)

	return r
}

func (s *Server) publish(r *http.Request, eventType string, payload any) {
	if s.pub != nil {
		s.pub.Publish(r.Context(), eventType, payload)
	}
}

func (s *Server) requireDj(w http.ResponseWriter) bool {
	if !s.session.DjMode() {
		httputil.WriteError(w, http.StatusForbidden, "DJ mode required")
		return false
	}
	return true
}

func (s *Server) handleAddRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := s.session.CurrentUser()
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "login required")
		return
	}

	var body struct {
		SongID    string  `json:"songId"`
		TipAmount float64 `json:"tipAmount"`
		Message   string  `json:"message,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(body.SongID) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "songId is required")
		return
	}
	if !s.policy.AcceptingRequests() {
		httputil.WriteError(w, http.StatusForbidden, "the DJ is not taking requests right now")
		return
	}
	if minTip := s.policy.MinTipAmount(); body.TipAmount < minTip {
		httputil.WriteError(w, http.StatusBadRequest, "tip is below the minimum")
		return
	}
	if cur, ok := s.catalog.CurrentPlaylist(); !ok || len(cur.Songs) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "no playlist is open for requests")
		return
	}

	req := s.store.AddRequest(NewRequest{
		SongID:    body.SongID,
		UserID:    user.ID,
		UserName:  user.Name,
		TipAmount: body.TipAmount,
		Message:   strings.TrimSpace(body.Message),
	})

	s.publish(r, "request.created", req)
	httputil.WriteJSON(w, http.StatusCreated, req)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		httputil.WriteJSON(w, http.StatusOK, s.store.Requests())
		return
	}
	status := Status(raw)
	if !status.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "unknown status")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.store.RequestsByStatus(status))
}

func (s *Server) handleMyRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := s.session.CurrentUser()
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "login required")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.store.RequestsByUser(user.ID))
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, err := s.store.Detail(id, s.lookup)
	if err != nil {
		httputil.WriteStoreError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireDj(w) {
		return
	}

	id := chi.URLParam(r, "id")
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req, err := s.store.UpdateRequestStatus(id, Status(body.Status))
	if err != nil {
		httputil.WriteStoreError(w, err)
		return
	}

	s.publish(r, "request.status", req)
	httputil.WriteJSON(w, http.StatusOK, req)
}

func (s *Server) handleRemoveRequest(w http.ResponseWriter, r *http.Request) {
	if !s.requireDj(w) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.RemoveRequest(id); err != nil {
		httputil.WriteStoreError(w, err)
		return
	}

	s.publish(r, "request.removed", map[string]any{"requestId": id})
	w.WriteHeader(http.StatusNoContent)
}
