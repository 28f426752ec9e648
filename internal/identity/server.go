package identity

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/djshizzle/DJRequest-App/internal/events"
	"github.com/djshizzle/DJRequest-App/internal/httputil"
)

type Server struct {
	store *Store
	pub   events.Publisher
}

func NewServer(store *Store, pub events.Publisher) *Server {
	return &Server{store: store, pub: pub}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Mounted under /session.
	r.Get("/", s.handleGetSession)
	r.Post("/", s.handleLogin)
	r.Delete("/", s.handleLogout)
	r.Post("/dj-mode", s.handleToggleDjMode)

	return r
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	var user *User
	if u, ok := s.store.CurrentUser(); ok {
		user = &u
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"currentUser": user,
		"isDjMode":    s.store.DjMode(),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.store.CreateAnonymousUser(body.Name)
	if err != nil {
		httputil.WriteStoreError(w, err)
		return
	}

	if s.pub != nil {
		s.pub.Publish(r.Context(), "session.login", user)
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleDjMode(w http.ResponseWriter, r *http.Request) {
	mode := s.store.ToggleDjMode()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"isDjMode": mode})
}
