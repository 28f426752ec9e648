package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/djshizzle/DJRequest-App/internal/events"
	"github.com/djshizzle/DJRequest-App/internal/httputil"
	"github.com/djshizzle/DJRequest-App/internal/identity"
)

type Server struct {
	store   *Store
	session *identity.Store
	pub     events.Publisher
}

func NewServer(store *Store, session *identity.Store, pub events.Publisher) *Server {
	return &Server{store: store, session: session, pub: pub}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Mounted under /profile.
	r.Get("/", s.handleGetProfile)
	r.Patch("/", s.handleUpdateProfile)
	r.Post("/accepting-requests", s.handleToggleAccepting)

	return r
}

// requireDj gates profile edits on the device being in DJ mode. The store
// itself never checks role.
func (s *Server) requireDj(w http.ResponseWriter) bool {
	if !s.session.DjMode() {
		httputil.WriteError(w, http.StatusForbidden, "DJ mode required")
		return false
	}
	return true
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.store.Profile())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireDj(w) {
		return
	}

	var upd Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	prof := s.store.UpdateProfile(upd)

	if s.pub != nil {
		s.pub.Publish(r.Context(), "profile.updated", prof)
	}
	httputil.WriteJSON(w, http.StatusOK, prof)
}

func (s *Server) handleToggleAccepting(w http.ResponseWriter, r *http.Request) {
	if !s.requireDj(w) {
		return
	}

	open := s.store.ToggleAcceptingRequests()

	if s.pub != nil {
		s.pub.Publish(r.Context(), "profile.accepting", map[string]any{"acceptingRequests": open})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"acceptingRequests": open})
}
