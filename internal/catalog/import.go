package catalog

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Playlist-file import. Both parsers are best-effort: malformed entries are
// skipped or filled with defaults rather than failing the whole import.

const (
	unknownTitle    = "Unknown Title"
	unknownArtist   = "Unknown Artist"
	defaultDuration = 180
)

// ParseM3U reads the extended-info tag format: an "#EXTINF:<seconds>,<text>"
// line describes the entry and the following non-comment line is the opaque
// media reference that completes it. "<text>" is either "Artist - Title" or
// a bare title.
func ParseM3U(r io.Reader) ([]Song, error) {
	var songs []Song
	var pending *Song

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		if strings.HasPrefix(line, "#EXTINF:") {
			info := line[len("#EXTINF:"):]
			duration := 0
			text := info
			if i := strings.Index(info, ","); i >= 0 {
				if d, err := strconv.ParseFloat(strings.TrimSpace(info[:i]), 64); err == nil && d > 0 {
					duration = int(d)
				}
				text = strings.TrimSpace(info[i+1:])
			}

			title := text
			artist := unknownArtist
			if i := strings.Index(text, " - "); i >= 0 {
				artist = strings.TrimSpace(text[:i])
				title = strings.TrimSpace(text[i+3:])
			}

			pending = &Song{Title: title, Artist: artist, Duration: duration}
			continue
		}

		// The first non-comment line after an EXTINF completes the entry.
		if line != "" && !strings.HasPrefix(line, "#") && pending != nil {
			pending.ID = uuid.NewString()
			songs = append(songs, *pending)
			pending = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return songs, nil
}

// ParseCSV reads delimited text with a header row. Recognized columns are
// title, artist, album, duration and genre, case-insensitive and in any
// order; unrecognized columns are ignored.
func ParseCSV(r io.Reader) ([]Song, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(rec []string, name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	var songs []Song
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 {
			continue
		}

		song := Song{
			ID:       uuid.NewString(),
			Title:    unknownTitle,
			Artist:   unknownArtist,
			Duration: defaultDuration,
		}
		if v, ok := field(rec, "title"); ok && v != "" {
			song.Title = v
		}
		if v, ok := field(rec, "artist"); ok && v != "" {
			song.Artist = v
		}
		if v, ok := field(rec, "album"); ok {
			song.Album = v
		}
		if v, ok := field(rec, "genre"); ok {
			song.Genre = v
		}
		if v, ok := field(rec, "duration"); ok {
			if d, err := strconv.ParseFloat(v, 64); err == nil && d >= 0 {
				song.Duration = int(d)
			}
		}
		songs = append(songs, song)
	}
	return songs, nil
}
