package catalog

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

// Store owns the playlist catalog and the single "current" playlist that
// search and request submission operate against.
type Store struct {
	mu    sync.Mutex
	state document
	saver storage.Saver
}

func NewStore(saver storage.Saver) *Store {
	return &Store{saver: saver}
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

// AddPlaylist appends a playlist with a fresh id and selects it when
// nothing is selected yet.
func (s *Store) AddPlaylist(name string, songs []Song) Playlist {
	pl := Playlist{
		ID:    uuid.NewString(),
		Name:  name,
		Songs: songs,
	}
	if pl.Songs == nil {
		pl.Songs = []Song{}
	}
	s.mu.Lock()
	s.state.Playlists = append(s.state.Playlists, pl)
	if s.state.CurrentPlaylistID == nil {
		id := pl.ID
		s.state.CurrentPlaylistID = &id
	}
	s.mu.Unlock()
	s.persist()
	return pl
}

// ImportPlaylist is the import-from-external-source entry point; parsing
// happens in import.go, the result lands here.
func (s *Store) ImportPlaylist(name string, songs []Song) Playlist {
	return s.AddPlaylist(name, songs)
}

// RemovePlaylist drops the playlist; if it was current, the first remaining
// playlist becomes current, or none when the catalog is empty.
func (s *Store) RemovePlaylist(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.state.Playlists {
		if s.state.Playlists[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return apperr.NotFound("playlist", id)
	}
	s.state.Playlists = append(s.state.Playlists[:idx], s.state.Playlists[idx+1:]...)
	if s.state.CurrentPlaylistID != nil && *s.state.CurrentPlaylistID == id {
		if len(s.state.Playlists) > 0 {
			first := s.state.Playlists[0].ID
			s.state.CurrentPlaylistID = &first
		} else {
			s.state.CurrentPlaylistID = nil
		}
	}
	s.mu.Unlock()
	s.persist()
	return nil
}

// SetCurrentPlaylist selects unconditionally; an empty id clears the
// selection. The id is not validated, so selecting an unknown id leaves a
// dangling selection that reads treat as "no current playlist".
func (s *Store) SetCurrentPlaylist(id string) {
	s.mu.Lock()
	if id == "" {
		s.state.CurrentPlaylistID = nil
	} else {
		s.state.CurrentPlaylistID = &id
	}
	s.mu.Unlock()
	s.persist()
}

func (s *Store) AddSongToPlaylist(playlistID string, song Song) error {
	s.mu.Lock()
	for i := range s.state.Playlists {
		if s.state.Playlists[i].ID == playlistID {
			s.state.Playlists[i].Songs = append(s.state.Playlists[i].Songs, song)
			s.mu.Unlock()
			s.persist()
			return nil
		}
	}
	s.mu.Unlock()
	return apperr.NotFound("playlist", playlistID)
}

func (s *Store) RemoveSongFromPlaylist(playlistID, songID string) error {
	s.mu.Lock()
	for i := range s.state.Playlists {
		if s.state.Playlists[i].ID != playlistID {
			continue
		}
		songs := s.state.Playlists[i].Songs
		for j := range songs {
			if songs[j].ID == songID {
				s.state.Playlists[i].Songs = append(songs[:j], songs[j+1:]...)
				break
			}
		}
		s.mu.Unlock()
		s.persist()
		return nil
	}
	s.mu.Unlock()
	return apperr.NotFound("playlist", playlistID)
}

// SearchSongs does a case-insensitive substring match over title, artist
// and album of the current playlist's songs. An empty query matches every
// song; special-casing it is the caller's job.
func (s *Store) SearchSongs(query string) []Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.currentLocked()
	if cur == nil {
		return []Song{}
	}
	q := strings.ToLower(query)
	out := []Song{}
	for _, song := range cur.Songs {
		if strings.Contains(strings.ToLower(song.Title), q) ||
			strings.Contains(strings.ToLower(song.Artist), q) ||
			(song.Album != "" && strings.Contains(strings.ToLower(song.Album), q)) {
			out = append(out, song)
		}
	}
	return out
}

// LookupSong scans all playlists for a song id. Used by the queue's read
// views as their song-resolution capability.
func (s *Store) LookupSong(id string) (Song, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Playlists {
		for _, song := range s.state.Playlists[i].Songs {
			if song.ID == id {
				return song, true
			}
		}
	}
	return Song{}, false
}

func (s *Store) Playlists() []Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Playlist, len(s.state.Playlists))
	for i, pl := range s.state.Playlists {
		out[i] = pl
		out[i].Songs = append([]Song(nil), pl.Songs...)
	}
	return out
}

func (s *Store) CurrentPlaylistID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentPlaylistID == nil {
		return ""
	}
	return *s.state.CurrentPlaylistID
}

// CurrentPlaylist resolves the selection; a dangling selection reports
// false.
func (s *Store) CurrentPlaylist() (Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.currentLocked()
	if cur == nil {
		return Playlist{}, false
	}
	out := *cur
	out.Songs = append([]Song(nil), cur.Songs...)
	return out, true
}

func (s *Store) currentLocked() *Playlist {
	if s.state.CurrentPlaylistID == nil {
		return nil
	}
	for i := range s.state.Playlists {
		if s.state.Playlists[i].ID == *s.state.CurrentPlaylistID {
			return &s.state.Playlists[i]
		}
	}
	return nil
}
