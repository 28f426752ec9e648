package catalog

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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

	// Mounted under /playlists.
	r.Get("/", s.handleListPlaylists)
	r.Post("/", s.handleCreatePlaylist)
	r.Post("/import", s.handleImportPlaylist)
	r.Put("/current", s.handleSetCurrent)
	r.Delete("/{id}", s.handleDeletePlaylist)
	r.Post("/{id}/songs", s.handleAddSong)
	r.Delete("/{id}/songs/{songId}", s.handleRemoveSong)

	return r
}

// SongsRouter serves song search, mounted under /songs.
func (s *Server) SongsRouter(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/search", s.handleSearchSongs)

	return r
}

func (s *Server) publish(r *http.Request, eventType string, payload any) {
	if s.pub != nil {
		s.pub.Publish(r.Context(), eventType, payload)
	}
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"playlists":         s.store.Playlists(),
		"currentPlaylistId": orNil(s.store.CurrentPlaylistID()),
	})
}

func orNil(id string) any {
	if id == "" {
		return nil
	}
	return id
}

type songInput struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration"`
	Genre    string `json:"genre,omitempty"`
}

func (in *songInput) toSong() (Song, string) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Song{}, "song title is required"
	}
	if in.Duration < 0 {
		return Song{}, "duration must be non-negative"
	}
	artist := strings.TrimSpace(in.Artist)
	if artist == "" {
		artist = unknownArtist
	}
	return Song{
		ID:       uuid.NewString(),
		Title:    title,
		Artist:   artist,
		Album:    strings.TrimSpace(in.Album),
		Duration: in.Duration,
		Genre:    strings.TrimSpace(in.Genre),
	}, ""
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string      `json:"name"`
		Songs []songInput `json:"songs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || len(body.Name) > 200 {
		httputil.WriteError(w, http.StatusBadRequest, "name must be between 1 and 200 characters")
		return
	}

	songs := make([]Song, 0, len(body.Songs))
	for _, in := range body.Songs {
		song, msg := in.toSong()
		if msg != "" {
			httputil.WriteError(w, http.StatusBadRequest, msg)
			return
		}
		songs = append(songs, song)
	}

	pl := s.store.AddPlaylist(body.Name, songs)

	s.publish(r, "playlist.created", pl)
	httputil.WriteJSON(w, http.StatusCreated, pl)
}

func (s *Server) handleImportPlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Format  string `json:"format"` // "m3u" | "csv"
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	var songs []Song
	var err error
	switch strings.ToLower(strings.TrimSpace(body.Format)) {
	case "m3u":
		songs, err = ParseM3U(strings.NewReader(body.Content))
	case "csv":
		songs, err = ParseCSV(strings.NewReader(body.Content))
	default:
		httputil.WriteError(w, http.StatusBadRequest, `invalid format (must be "m3u" or "csv")`)
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "could not parse playlist file: "+err.Error())
		return
	}

	pl := s.store.ImportPlaylist(body.Name, songs)

	s.publish(r, "playlist.imported", pl)
	httputil.WriteJSON(w, http.StatusCreated, pl)
}

func (s *Server) handleSetCurrent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID *string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := ""
	if body.ID != nil {
		id = *body.ID
	}
	s.store.SetCurrentPlaylist(id)

	s.publish(r, "playlist.selected", map[string]any{"currentPlaylistId": orNil(id)})
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"currentPlaylistId": orNil(id)})
}

// handleDeletePlaylist removes a playlist. Deleting is a DJ-only action.
func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if !s.session.DjMode() {
		httputil.WriteError(w, http.StatusForbidden, "DJ mode required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.RemovePlaylist(id); err != nil {
		httputil.WriteStoreError(w, err)
		return
	}

	s.publish(r, "playlist.deleted", map[string]any{"playlistId": id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")

	var in songInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	song, msg := in.toSong()
	if msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.store.AddSongToPlaylist(playlistID, song); err != nil {
		httputil.WriteStoreError(w, err)
		return
	}

	s.publish(r, "song.added", map[string]any{"playlistId": playlistID, "song": song})
	httputil.WriteJSON(w, http.StatusCreated, song)
}

func (s *Server) handleRemoveSong(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")
	songID := chi.URLParam(r, "songId")

	if err := s.store.RemoveSongFromPlaylist(playlistID, songID); err != nil {
		httputil.WriteStoreError(w, err)
		return
	}

	s.publish(r, "song.removed", map[string]any{"playlistId": playlistID, "songId": songID})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	httputil.WriteJSON(w, http.StatusOK, s.store.SearchSongs(query))
}
