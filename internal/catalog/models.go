package catalog

// Song is immutable once created; identity is ID. Duration is in seconds.
type Song struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration"`
	Genre    string `json:"genre,omitempty"`
}

// Playlist keeps its id for life; only the songs sequence mutates.
type Playlist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}

const DocumentName = "playlist-storage"

type document struct {
	Playlists         []Playlist `json:"playlists"`
	CurrentPlaylistID *string    `json:"currentPlaylistId"`
}
